package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE submission_status AS ENUM ('pending', 'consumed'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id BIGINT PRIMARY KEY,
		content TEXT NOT NULL,
		track_id TEXT NOT NULL,
		sender_chat_id BIGINT NOT NULL,
		sender_username TEXT NOT NULL DEFAULT '',
		sender_first_name TEXT NOT NULL DEFAULT '',
		sender_last_name TEXT NOT NULL DEFAULT '',
		status submission_status NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_pending ON submissions (id) WHERE status = 'pending'`,
	`CREATE TABLE IF NOT EXISTS listening_sessions (
		id BIGINT PRIMARY KEY,
		samples JSONB NOT NULL DEFAULT '[]',
		submission_id BIGINT NOT NULL,
		sender_chat_id BIGINT NOT NULL,
		sender_username TEXT NOT NULL DEFAULT '',
		sender_first_name TEXT NOT NULL DEFAULT '',
		sender_last_name TEXT NOT NULL DEFAULT '',
		distance_km DOUBLE PRECISION NOT NULL,
		average_speed_kmh DOUBLE PRECISION NOT NULL,
		listened_seconds BIGINT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listening_sessions_sender ON listening_sessions (sender_chat_id)`,
	`CREATE TABLE IF NOT EXISTS operator (
		singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		chat_id BIGINT NOT NULL
	)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
