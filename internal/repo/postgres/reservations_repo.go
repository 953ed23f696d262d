package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/reservation"
	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const detailedSelect = `
	SELECT r.id, r.room_id, r.user_id, r.start_date, r.end_date, rm.name, u.email
	FROM room_reservations r
	JOIN rooms rm ON rm.id = r.room_id
	JOIN users u ON u.id = r.user_id
`

type ReservationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewReservationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ReservationsRepo {
	return &ReservationsRepo{pool: pool, prom: prom}
}

// WithRoomLock runs fn in a transaction holding the room row FOR UPDATE, so
// concurrent bookings of one room queue up behind the overlap check. fn's
// error rolls the transaction back.
func (repo *ReservationsRepo) WithRoomLock(ctx context.Context, roomID int64, fn func(ctx context.Context, b reservation.Booker) error) (err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var locked int64
	err = observe(repo.prom, "reservations.room_lock", func() error {
		return tx.QueryRow(ctx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, roomID).Scan(&locked)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return room.ErrNotFound
		}
		return err
	}

	if err = fn(ctx, txBooker{tx: tx, prom: repo.prom}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (repo *ReservationsRepo) GetDetailed(ctx context.Context, id int64) (reservation.Detailed, error) {
	var d reservation.Detailed

	err := observe(repo.prom, "reservations.get_detailed", func() error {
		return scanDetailed(repo.pool.QueryRow(ctx, detailedSelect+` WHERE r.id = $1`, id), &d)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reservation.Detailed{}, reservation.ErrNotFound
		}
		return reservation.Detailed{}, err
	}
	return d, nil
}

func (repo *ReservationsRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := observe(repo.prom, "reservations.delete", func() error {
		var e error
		tag, e = repo.pool.Exec(ctx, `DELETE FROM room_reservations WHERE id = $1`, id)
		return e
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return reservation.ErrNotFound
	}
	return nil
}

// ListBetween returns reservations of every room overlapping [start, end),
// ascending by start date.
func (repo *ReservationsRepo) ListBetween(ctx context.Context, start, end time.Time) ([]reservation.Detailed, error) {
	var rows pgx.Rows

	err := observe(repo.prom, "reservations.list_between", func() error {
		var qerr error
		rows, qerr = repo.pool.Query(ctx,
			detailedSelect+`
			WHERE r.start_date < $2 AND r.end_date > $1
			ORDER BY r.start_date ASC, r.id ASC`,
			start.UTC(), end.UTC(),
		)
		return qerr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reservation.Detailed, 0)
	for rows.Next() {
		var d reservation.Detailed
		if err := scanDetailed(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForUser pages through a user's reservations, newest start first. The
// total ignores limit/offset.
func (repo *ReservationsRepo) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]reservation.Detailed, int, error) {
	var rows pgx.Rows

	err := observe(repo.prom, "reservations.list_for_user", func() error {
		var qerr error
		rows, qerr = repo.pool.Query(ctx, `
			SELECT r.id, r.room_id, r.user_id, r.start_date, r.end_date, rm.name, u.email,
				COUNT(*) OVER() AS total
			FROM room_reservations r
			JOIN rooms rm ON rm.id = r.room_id
			JOIN users u ON u.id = r.user_id
			WHERE r.user_id = $1
			ORDER BY r.start_date DESC, r.id DESC
			LIMIT $2 OFFSET $3`,
			userID, limit, offset,
		)
		return qerr
	})
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]reservation.Detailed, 0, limit)
	total := 0

	for rows.Next() {
		var d reservation.Detailed
		var t int

		err := rows.Scan(&d.ID, &d.RoomID, &d.UserID, &d.StartDate, &d.EndDate, &d.Room.Name, &d.User.Email, &t)
		if err != nil {
			return nil, 0, err
		}

		normalizeDetailed(&d)
		total = t
		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// an offset past the end returns no rows and so no window total
	if len(out) == 0 && offset > 0 {
		err = observe(repo.prom, "reservations.count_for_user", func() error {
			return repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM room_reservations WHERE user_id = $1`, userID).Scan(&total)
		})
		if err != nil {
			return nil, 0, err
		}
	}

	return out, total, nil
}

type txBooker struct {
	tx   pgx.Tx
	prom *observability.Prom
}

func (b txBooker) ListOverlapping(ctx context.Context, roomID int64, start, end time.Time) ([]reservation.Reservation, error) {
	var rows pgx.Rows

	err := observe(b.prom, "reservations.list_overlapping", func() error {
		var qerr error
		rows, qerr = b.tx.Query(ctx, `
			SELECT id, room_id, user_id, start_date, end_date
			FROM room_reservations
			WHERE room_id = $1 AND start_date < $3 AND end_date > $2
			ORDER BY start_date ASC`,
			roomID, start.UTC(), end.UTC(),
		)
		return qerr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reservation.Reservation, 0)
	for rows.Next() {
		var r reservation.Reservation
		if err := rows.Scan(&r.ID, &r.RoomID, &r.UserID, &r.StartDate, &r.EndDate); err != nil {
			return nil, err
		}
		r.StartDate, r.EndDate = r.StartDate.UTC(), r.EndDate.UTC()
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b txBooker) Insert(ctx context.Context, r reservation.Reservation) (reservation.Reservation, error) {
	r.StartDate, r.EndDate = r.StartDate.UTC(), r.EndDate.UTC()

	err := observe(b.prom, "reservations.insert", func() error {
		return b.tx.QueryRow(ctx, `
			INSERT INTO room_reservations (room_id, user_id, start_date, end_date)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			r.RoomID, r.UserID, r.StartDate, r.EndDate,
		).Scan(&r.ID)
	})
	if err != nil {
		return reservation.Reservation{}, err
	}
	return r, nil
}

func scanDetailed(row pgx.Row, d *reservation.Detailed) error {
	err := row.Scan(&d.ID, &d.RoomID, &d.UserID, &d.StartDate, &d.EndDate, &d.Room.Name, &d.User.Email)
	if err != nil {
		return err
	}
	normalizeDetailed(d)
	return nil
}

func normalizeDetailed(d *reservation.Detailed) {
	d.StartDate, d.EndDate = d.StartDate.UTC(), d.EndDate.UTC()
	d.Room.ID = d.RoomID
	d.User.ID = d.UserID
}
