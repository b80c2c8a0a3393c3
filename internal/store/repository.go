package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups that matched nothing.
var ErrNotFound = errors.New("store: not found")

type AddSubmissionInput struct {
	Content string
	TrackID string
	Sender  Sender
}

type AppendSessionInput struct {
	Samples         []LocationSample
	SubmissionID    int64
	Sender          Sender
	DistanceKm      float64
	AverageSpeedKmh float64
	ListenedSeconds int64
	Country         string
}

type SubmissionRepository interface {
	// AddSubmission assigns the next id (max existing + 1, or 0 on an empty
	// collection) and persists the submission as pending.
	AddSubmission(ctx context.Context, input AddSubmissionInput) (*Submission, error)
	PendingSubmissions(ctx context.Context) ([]Submission, error)
	// MarkSubmissionConsumed flips pending -> consumed. Calling it again for
	// an already-consumed submission is a no-op, not an error.
	MarkSubmissionConsumed(ctx context.Context, id int64) error
	LastSubmission(ctx context.Context) (*Submission, error)
}

type SessionRepository interface {
	// AppendSession assigns the next id (max existing + 1, or 0 on an empty
	// log) and persists the record. Callers must serialize writers; the
	// implementations keep no internal write coordination beyond a single
	// process.
	AppendSession(ctx context.Context, input AppendSessionInput) (*SessionRecord, error)
	AllSessions(ctx context.Context) ([]SessionRecord, error)
	SessionBySubmission(ctx context.Context, submissionID int64) (*SessionRecord, error)
	SessionsBySender(ctx context.Context, chatID int64) ([]SessionRecord, error)
}

type OperatorRepository interface {
	// OperatorChatID returns ErrNotFound until an operator has registered.
	OperatorChatID(ctx context.Context) (int64, error)
	SetOperatorChatID(ctx context.Context, chatID int64) error
}

type Repository interface {
	SubmissionRepository
	SessionRepository
	OperatorRepository
}
