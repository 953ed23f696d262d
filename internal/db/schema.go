package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is create-if-missing only; there is no migration history.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              BIGSERIAL PRIMARY KEY,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rooms (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS room_reservations (
	id         BIGSERIAL PRIMARY KEY,
	room_id    BIGINT NOT NULL REFERENCES rooms(id),
	user_id    BIGINT NOT NULL REFERENCES users(id),
	start_date TIMESTAMPTZ NOT NULL,
	end_date   TIMESTAMPTZ NOT NULL,
	CONSTRAINT room_reservations_range_chk CHECK (start_date < end_date)
);

CREATE INDEX IF NOT EXISTS room_reservations_room_range_idx
	ON room_reservations (room_id, start_date, end_date);

CREATE INDEX IF NOT EXISTS room_reservations_user_start_idx
	ON room_reservations (user_id, start_date DESC);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
