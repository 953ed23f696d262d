package handlers

import (
	"context"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/reservation"
	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/domain/user"
)

// ReservationService is what the room, reservation and user handlers need
// from the booking layer.
type ReservationService interface {
	Rooms(ctx context.Context) ([]room.Room, error)
	Book(ctx context.Context, owner user.User, roomID int64, start, end reservation.Timestamp) (reservation.Detailed, error)
	Cancel(ctx context.Context, requester user.User, id int64) error
	Summaries(ctx context.Context, start, end time.Time) ([]reservation.RoomSummary, error)
	AvailableRooms(ctx context.Context, start, end time.Time) ([]room.Room, error)
	ListForUser(ctx context.Context, userID int64, limit, page int) (reservation.Page, error)
}

// OutcomeRecorder counts booking and cancellation results.
type OutcomeRecorder interface {
	ObserveReservation(op, result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveReservation(string, string) {}
