package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/domain/user"
	"github.com/geocoder89/roomhub/internal/notifications"
	"golang.org/x/sync/errgroup"
)

type RoomStore interface {
	GetByID(ctx context.Context, id int64) (room.Room, error)
	List(ctx context.Context) ([]room.Room, error)
	ListAvailable(ctx context.Context, start, end time.Time) ([]room.Room, error)
}

type Store interface {
	Locker
	GetDetailed(ctx context.Context, id int64) (Detailed, error)
	Delete(ctx context.Context, id int64) error
	ListBetween(ctx context.Context, start, end time.Time) ([]Detailed, error)
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]Detailed, int, error)
}

type ServiceConfig struct {
	Notifier notifications.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

type Service struct {
	rooms        RoomStore
	reservations Store
	notifier     notifications.Notifier
	log          *slog.Logger
	now          func() time.Time
}

func NewService(rooms RoomStore, reservations Store, cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		rooms:        rooms,
		reservations: reservations,
		notifier:     cfg.Notifier,
		log:          cfg.Logger,
		now:          cfg.Now,
	}
}

func (s *Service) Rooms(ctx context.Context) ([]room.Room, error) {
	return s.rooms.List(ctx)
}

// Book runs room lookup, validation and the conflict check, in that order,
// and persists the reservation on success.
func (s *Service) Book(ctx context.Context, owner user.User, roomID int64, start, end Timestamp) (Detailed, error) {
	rm, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return Detailed{}, err
	}

	if err := Validate(start, end, s.now()); err != nil {
		return Detailed{}, err
	}

	var created Reservation

	err = s.reservations.WithRoomLock(ctx, rm.ID, func(ctx context.Context, b Booker) error {
		var resolveErr error
		created, resolveErr = Resolve(ctx, b, rm.ID, owner.ID, start.UTC(), end.UTC())
		return resolveErr
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			s.log.InfoContext(ctx, "reservation.conflict", "room_id", rm.ID, "hours", conflict.Hours)
		}
		return Detailed{}, err
	}

	d := Detailed{Reservation: created, Room: rm, User: owner}

	s.log.InfoContext(ctx, "reservation.created", "reservation_id", d.ID, "room_id", rm.ID, "user_id", owner.ID)
	s.notify(ctx, notifications.KindReservationConfirmed, d)

	return d, nil
}

// Cancel deletes a reservation owned by requester whose end is not past.
func (s *Service) Cancel(ctx context.Context, requester user.User, id int64) error {
	d, err := s.reservations.GetDetailed(ctx, id)
	if err != nil {
		return err
	}

	if err := CheckCancellable(d.Reservation, requester.ID, s.now()); err != nil {
		return err
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "reservation.cancelled", "reservation_id", id, "user_id", requester.ID)
	s.notify(ctx, notifications.KindReservationCancelled, d)

	return nil
}

// Summaries lists every room with its reservations overlapping [start, end).
func (s *Service) Summaries(ctx context.Context, start, end time.Time) ([]RoomSummary, error) {
	var (
		rooms        []room.Room
		reservations []Detailed
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		rooms, err = s.rooms.List(gctx)
		if err != nil {
			return fmt.Errorf("list rooms: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		reservations, err = s.reservations.ListBetween(gctx, start, end)
		if err != nil {
			return fmt.Errorf("list reservations: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildSummaries(rooms, reservations, start, end), nil
}

// AvailableRooms lists rooms with no reservation overlapping [start, end).
func (s *Service) AvailableRooms(ctx context.Context, start, end time.Time) ([]room.Room, error) {
	return s.rooms.ListAvailable(ctx, start, end)
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit, page int) (Page, error) {
	items, total, err := s.reservations.ListForUser(ctx, userID, limit, page*limit)
	if err != nil {
		return Page{}, err
	}

	return Page{Reservations: items, Total: total, Limit: limit, Page: page}, nil
}

// notify is best effort: a failed notice is logged and never fails the call.
func (s *Service) notify(ctx context.Context, kind notifications.NoticeKind, d Detailed) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.SendReservationNotice(ctx, notifications.SendReservationNoticeInput{
		Kind:          kind,
		Email:         d.User.Email,
		RoomName:      d.Room.Name,
		ReservationID: d.ID,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
	})
	if err != nil {
		s.log.WarnContext(ctx, "notification failed", "kind", kind, "reservation_id", d.ID, "err", err)
	}
}
