package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRoomsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RoomsRepo {
	return &RoomsRepo{pool: pool, prom: prom}
}

func (r *RoomsRepo) Create(ctx context.Context, name string) (room.Room, error) {
	rm := room.Room{Name: name}

	err := observe(r.prom, "rooms.create", func() error {
		return r.pool.QueryRow(ctx, `INSERT INTO rooms (name) VALUES ($1) RETURNING id`, name).Scan(&rm.ID)
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return room.Room{}, room.ErrNameTaken
		}
		return room.Room{}, err
	}
	return rm, nil
}

func (r *RoomsRepo) GetByID(ctx context.Context, id int64) (room.Room, error) {
	var rm room.Room

	err := observe(r.prom, "rooms.get_by_id", func() error {
		return r.pool.QueryRow(ctx, `SELECT id, name FROM rooms WHERE id = $1`, id).Scan(&rm.ID, &rm.Name)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return room.Room{}, room.ErrNotFound
		}
		return room.Room{}, err
	}
	return rm, nil
}

func (r *RoomsRepo) List(ctx context.Context) ([]room.Room, error) {
	var rows pgx.Rows

	err := observe(r.prom, "rooms.list", func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx, `SELECT id, name FROM rooms ORDER BY id ASC`)
		return qerr
	})
	if err != nil {
		return nil, err
	}

	return scanRooms(rows)
}

// ListAvailable returns rooms without any reservation overlapping [start, end).
func (r *RoomsRepo) ListAvailable(ctx context.Context, start, end time.Time) ([]room.Room, error) {
	var rows pgx.Rows

	err := observe(r.prom, "rooms.list_available", func() error {
		var qerr error
		rows, qerr = r.pool.Query(ctx, `
			SELECT rm.id, rm.name
			FROM rooms rm
			WHERE rm.id NOT IN (
				SELECT res.room_id
				FROM room_reservations res
				WHERE res.start_date < $2 AND res.end_date > $1
			)
			ORDER BY rm.id ASC
		`, start.UTC(), end.UTC())
		return qerr
	})
	if err != nil {
		return nil, err
	}

	return scanRooms(rows)
}

func scanRooms(rows pgx.Rows) ([]room.Room, error) {
	defer rows.Close()

	out := make([]room.Room, 0)

	for rows.Next() {
		var rm room.Room
		if err := rows.Scan(&rm.ID, &rm.Name); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
