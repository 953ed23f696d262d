package dto

import (
	"time"

	"github.com/geocoder89/roomhub/internal/domain/reservation"
	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/domain/user"
)

type RoomResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type ReservationResponse struct {
	ID        int64        `json:"id"`
	User      UserResponse `json:"user"`
	Room      RoomResponse `json:"room"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
}

type ReservationsPageResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Page         int                   `json:"page"`
}

type RoomSummaryResponse struct {
	ID           int64                 `json:"id"`
	Name         string                `json:"name"`
	Reservations []ReservationResponse `json:"reservations"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToRoom(rm room.Room) RoomResponse {
	return RoomResponse{ID: rm.ID, Name: rm.Name}
}

func ToRooms(rooms []room.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, ToRoom(rm))
	}
	return out
}

func ToUser(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email}
}

// ToReservation always emits UTC so timestamps serialise with a "Z" suffix.
func ToReservation(d reservation.Detailed) ReservationResponse {
	return ReservationResponse{
		ID:        d.ID,
		User:      ToUser(d.User),
		Room:      ToRoom(d.Room),
		StartDate: d.StartDate.UTC(),
		EndDate:   d.EndDate.UTC(),
	}
}

func ToReservations(items []reservation.Detailed) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(items))
	for _, d := range items {
		out = append(out, ToReservation(d))
	}
	return out
}

func ToReservationsPage(p reservation.Page) ReservationsPageResponse {
	return ReservationsPageResponse{
		Reservations: ToReservations(p.Reservations),
		Total:        p.Total,
		Limit:        p.Limit,
		Page:         p.Page,
	}
}

func ToRoomSummaries(summaries []reservation.RoomSummary) []RoomSummaryResponse {
	out := make([]RoomSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, RoomSummaryResponse{
			ID:           s.Room.ID,
			Name:         s.Room.Name,
			Reservations: ToReservations(s.Reservations),
		})
	}
	return out
}
