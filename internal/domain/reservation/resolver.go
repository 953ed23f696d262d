package reservation

import (
	"context"
	"time"
)

// Booker is the storage a conflict check runs against. Implementations are
// scoped to one room's critical section (see Locker).
type Booker interface {
	ListOverlapping(ctx context.Context, roomID int64, start, end time.Time) ([]Reservation, error)
	Insert(ctx context.Context, r Reservation) (Reservation, error)
}

// Locker serialises bookings on a room. fn must only use the Booker it is
// handed; the lock is released when fn returns.
type Locker interface {
	WithRoomLock(ctx context.Context, roomID int64, fn func(ctx context.Context, b Booker) error) error
}

// Resolve books [start, end) on the room unless an existing reservation
// overlaps it, in which case a *ConflictError lists the shared hours.
// Inputs must already have passed Validate.
func Resolve(ctx context.Context, b Booker, roomID, userID int64, start, end time.Time) (Reservation, error) {
	existing, err := b.ListOverlapping(ctx, roomID, start, end)
	if err != nil {
		return Reservation{}, err
	}

	if len(existing) > 0 {
		return Reservation{}, &ConflictError{Hours: ConflictingHours(existing, start, end)}
	}

	return b.Insert(ctx, Reservation{
		RoomID:    roomID,
		UserID:    userID,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
	})
}

// ConflictingHours unions, over every existing reservation, the hour labels it
// shares with [start, end). The result is advisory only.
func ConflictingHours(existing []Reservation, start, end time.Time) []int {
	common := make(HourSet)
	for _, r := range existing {
		common.Merge(r.HoursInCommon(start, end))
	}
	return common.Sorted()
}
