package reservation

import (
	"errors"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/domain/user"
)

// Reservation is a booking of one room by one user over the half-open
// interval [StartDate, EndDate). Stored dates are UTC.
type Reservation struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"roomId"`
	UserID    int64     `json:"userId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Detailed is a reservation joined with its room and owner.
type Detailed struct {
	Reservation
	Room room.Room
	User user.User
}

var (
	ErrNotTimezoneAware    = errors.New("dates must carry an explicit UTC offset")
	ErrInvalidRange        = errors.New("invalid reservation range")
	ErrRoomAlreadyReserved = errors.New("room already reserved")
	ErrNotFound            = errors.New("reservation not found")
	ErrForbidden           = errors.New("reservation belongs to another user")
	ErrAlreadyPast         = errors.New("reservation already ended")
)

// ConflictError reports the hour-of-day labels shared with existing bookings.
type ConflictError struct {
	Hours []int
}

func (e *ConflictError) Error() string {
	return "room is already reserved on the following hours: " + FormatHours(e.Hours)
}

func (e *ConflictError) Unwrap() error {
	return ErrRoomAlreadyReserved
}

// Overlaps reports whether r shares any instant with [start, end).
func (r Reservation) Overlaps(start, end time.Time) bool {
	return Overlaps(r.StartDate, r.EndDate, start, end)
}

// HoursInCommon intersects the hour labels of r with those of [start, end).
func (r Reservation) HoursInCommon(start, end time.Time) HourSet {
	return HoursBetween(r.StartDate, r.EndDate).Intersect(HoursBetween(start, end))
}

// Page is one page of a user's reservations.
type Page struct {
	Reservations []Detailed
	Total        int
	Limit        int
	Page         int
}
