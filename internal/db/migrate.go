package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func RunMigrations(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT UNIQUE NOT NULL CHECK (username ~ '^[a-z0-9_-]{3,32}$'),
    password_hash TEXT NOT NULL,
    token TEXT UNIQUE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    settings JSONB NOT NULL DEFAULT '{}',
    is_profile_private BOOLEAN NOT NULL DEFAULT false,
    is_history_private BOOLEAN NOT NULL DEFAULT false,
    stats_mood_sets BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS moods (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    ts BIGINT NOT NULL,
    pleasantness DOUBLE PRECISION NOT NULL CHECK (pleasantness BETWEEN -1 AND 1),
    energy DOUBLE PRECISION NOT NULL CHECK (energy BETWEEN -1 AND 1)
);

CREATE INDEX IF NOT EXISTS idx_moods_user_ts ON moods (user_id, ts);
`
	_, err := db.ExecContext(context.Background(), schema)
	return err
}
