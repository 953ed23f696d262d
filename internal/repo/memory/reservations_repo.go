package memory

import (
	"context"
	"sort"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/reservation"
	"github.com/geocoder89/roomhub/internal/domain/room"
)

type ReservationsRepo struct {
	s *Store
}

func NewReservationsRepo(s *Store) *ReservationsRepo {
	return &ReservationsRepo{s: s}
}

// WithRoomLock holds a per-room mutex for the duration of fn, so two bookings
// on the same room cannot both pass the overlap check.
func (r *ReservationsRepo) WithRoomLock(ctx context.Context, roomID int64, fn func(ctx context.Context, b reservation.Booker) error) error {
	r.s.mu.RLock()
	_, ok := r.s.rooms[roomID]
	r.s.mu.RUnlock()

	if !ok {
		return room.ErrNotFound
	}

	l := r.s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(ctx, booker{s: r.s})
}

func (r *ReservationsRepo) GetDetailed(_ context.Context, id int64) (reservation.Detailed, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res, ok := r.s.reservations[id]
	if !ok {
		return reservation.Detailed{}, reservation.ErrNotFound
	}
	return r.s.detail(res), nil
}

func (r *ReservationsRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reservations[id]; !ok {
		return reservation.ErrNotFound
	}
	delete(r.s.reservations, id)
	return nil
}

// ListBetween returns reservations of every room overlapping [start, end),
// ascending by start date.
func (r *ReservationsRepo) ListBetween(_ context.Context, start, end time.Time) ([]reservation.Detailed, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]reservation.Detailed, 0)
	for _, res := range r.s.reservations {
		if res.Overlaps(start, end) {
			out = append(out, r.s.detail(res))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

// ListForUser pages through a user's reservations, newest start first.
func (r *ReservationsRepo) ListForUser(_ context.Context, userID int64, limit, offset int) ([]reservation.Detailed, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]reservation.Detailed, 0)
	for _, res := range r.s.reservations {
		if res.UserID == userID {
			all = append(all, r.s.detail(res))
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].StartDate.Equal(all[j].StartDate) {
			return all[i].ID > all[j].ID
		}
		return all[i].StartDate.After(all[j].StartDate)
	})

	total := len(all)
	if offset < 0 || offset >= total {
		return []reservation.Detailed{}, total, nil
	}

	stop := offset + limit
	if stop > total {
		stop = total
	}
	return all[offset:stop], total, nil
}

type booker struct {
	s *Store
}

func (b booker) ListOverlapping(_ context.Context, roomID int64, start, end time.Time) ([]reservation.Reservation, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()

	out := make([]reservation.Reservation, 0)
	for _, res := range b.s.reservations {
		if res.RoomID == roomID && res.Overlaps(start, end) {
			out = append(out, res)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (b booker) Insert(_ context.Context, res reservation.Reservation) (reservation.Reservation, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	b.s.nextReservationID++
	res.ID = b.s.nextReservationID
	res.StartDate = res.StartDate.UTC()
	res.EndDate = res.EndDate.UTC()
	b.s.reservations[res.ID] = res

	return res, nil
}
