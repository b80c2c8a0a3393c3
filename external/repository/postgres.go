package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klangrad/klangrad/internal/store"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) store.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) AddSubmission(ctx context.Context, input store.AddSubmissionInput) (*store.Submission, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO submissions (id, content, track_id, sender_chat_id, sender_username, sender_first_name, sender_last_name, status)
		 VALUES ((SELECT COALESCE(MAX(id) + 1, 0) FROM submissions), $1, $2, $3, $4, $5, $6, 'pending')
		 RETURNING id, content, track_id, sender_chat_id, sender_username, sender_first_name, sender_last_name, status, created_at`,
		input.Content, input.TrackID,
		input.Sender.ChatID, input.Sender.Username, input.Sender.FirstName, input.Sender.LastName)
	return scanSubmission(row)
}

func (r *PostgresRepository) PendingSubmissions(ctx context.Context) ([]store.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, content, track_id, sender_chat_id, sender_username, sender_first_name, sender_last_name, status, created_at
		 FROM submissions WHERE status = 'pending' ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []store.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) MarkSubmissionConsumed(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE submissions SET status = 'consumed' WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM submissions WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
	}
	return nil
}

func (r *PostgresRepository) LastSubmission(ctx context.Context) (*store.Submission, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, content, track_id, sender_chat_id, sender_username, sender_first_name, sender_last_name, status, created_at
		 FROM submissions ORDER BY id DESC LIMIT 1`)
	s, err := scanSubmission(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return s, err
}

func (r *PostgresRepository) AppendSession(ctx context.Context, input store.AppendSessionInput) (*store.SessionRecord, error) {
	samples, err := json.Marshal(samplesToDocs(input.Samples))
	if err != nil {
		return nil, fmt.Errorf("failed to encode samples: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO listening_sessions (id, samples, submission_id, sender_chat_id, sender_username, sender_first_name, sender_last_name, distance_km, average_speed_kmh, listened_seconds, country)
		 VALUES ((SELECT COALESCE(MAX(id) + 1, 0) FROM listening_sessions), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, samples, submission_id, sender_chat_id, sender_username, sender_first_name, sender_last_name, distance_km, average_speed_kmh, listened_seconds, country, created_at`,
		samples, input.SubmissionID,
		input.Sender.ChatID, input.Sender.Username, input.Sender.FirstName, input.Sender.LastName,
		input.DistanceKm, input.AverageSpeedKmh, input.ListenedSeconds, input.Country)
	return scanSession(row)
}

func (r *PostgresRepository) AllSessions(ctx context.Context) ([]store.SessionRecord, error) {
	return r.querySessions(ctx,
		`SELECT id, samples, submission_id, sender_chat_id, sender_username, sender_first_name, sender_last_name, distance_km, average_speed_kmh, listened_seconds, country, created_at
		 FROM listening_sessions ORDER BY id ASC`)
}

func (r *PostgresRepository) SessionBySubmission(ctx context.Context, submissionID int64) (*store.SessionRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, samples, submission_id, sender_chat_id, sender_username, sender_first_name, sender_last_name, distance_km, average_speed_kmh, listened_seconds, country, created_at
		 FROM listening_sessions WHERE submission_id = $1 ORDER BY id ASC LIMIT 1`,
		submissionID)
	rec, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return rec, err
}

func (r *PostgresRepository) SessionsBySender(ctx context.Context, chatID int64) ([]store.SessionRecord, error) {
	return r.querySessions(ctx,
		`SELECT id, samples, submission_id, sender_chat_id, sender_username, sender_first_name, sender_last_name, distance_km, average_speed_kmh, listened_seconds, country, created_at
		 FROM listening_sessions WHERE sender_chat_id = $1 ORDER BY id ASC`,
		chatID)
}

func (r *PostgresRepository) OperatorChatID(ctx context.Context) (int64, error) {
	var chatID int64
	err := r.pool.QueryRow(ctx, `SELECT chat_id FROM operator LIMIT 1`).Scan(&chatID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return chatID, nil
}

func (r *PostgresRepository) SetOperatorChatID(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO operator (singleton, chat_id) VALUES (TRUE, $1)
		 ON CONFLICT (singleton) DO UPDATE SET chat_id = EXCLUDED.chat_id`,
		chatID)
	return err
}

func (r *PostgresRepository) querySessions(ctx context.Context, query string, args ...any) ([]store.SessionRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []store.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *rec)
	}
	return list, rows.Err()
}

func scanSubmission(row pgx.Row) (*store.Submission, error) {
	var s store.Submission
	var status string
	err := row.Scan(&s.ID, &s.Content, &s.TrackID,
		&s.Sender.ChatID, &s.Sender.Username, &s.Sender.FirstName, &s.Sender.LastName,
		&status, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = store.SubmissionStatus(status)
	return &s, nil
}

func scanSession(row pgx.Row) (*store.SessionRecord, error) {
	var rec store.SessionRecord
	var samples []byte
	err := row.Scan(&rec.ID, &samples, &rec.SubmissionID,
		&rec.Sender.ChatID, &rec.Sender.Username, &rec.Sender.FirstName, &rec.Sender.LastName,
		&rec.DistanceKm, &rec.AverageSpeedKmh, &rec.ListenedSeconds, &rec.Country, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	var docs []sampleDoc
	if err := json.Unmarshal(samples, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode samples: %w", err)
	}
	rec.Samples = samplesFromDocs(docs)
	return &rec, nil
}

func samplesToDocs(samples []store.LocationSample) []sampleDoc {
	docs := make([]sampleDoc, 0, len(samples))
	for _, s := range samples {
		docs = append(docs, sampleDoc{Lat: s.Lat, Lon: s.Lon, Time: s.Time})
	}
	return docs
}

func samplesFromDocs(docs []sampleDoc) []store.LocationSample {
	samples := make([]store.LocationSample, 0, len(docs))
	for _, d := range docs {
		samples = append(samples, store.LocationSample{Lat: d.Lat, Lon: d.Lon, Time: d.Time})
	}
	return samples
}
