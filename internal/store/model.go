package store

import (
	"strconv"
	"time"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusConsumed SubmissionStatus = "consumed"
)

// Sender identifies the chat account a submission came from.
type Sender struct {
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName prefers the fullest human-readable form and falls back to the
// chat id when no name fields are set.
func (s Sender) DisplayName() string {
	switch {
	case s.FirstName != "" && s.LastName != "":
		return s.FirstName + " " + s.LastName
	case s.FirstName != "":
		return s.FirstName
	case s.LastName != "":
		return s.LastName
	case s.Username != "":
		return s.Username
	}
	return strconv.FormatInt(s.ChatID, 10)
}

// Submission is a track request waiting to be observed playing. Status moves
// pending -> consumed exactly once and is never reversed.
type Submission struct {
	ID        int64
	Content   string
	TrackID   string
	Sender    Sender
	Status    SubmissionStatus
	CreatedAt time.Time
}

// LocationSample is immutable once created.
type LocationSample struct {
	Lat  float64
	Lon  float64
	Time time.Time
}

// SessionRecord is the persisted outcome of one closed tracking window.
// Records are append-only and never updated in place.
type SessionRecord struct {
	ID              int64
	Samples         []LocationSample
	SubmissionID    int64
	Sender          Sender
	DistanceKm      float64
	AverageSpeedKmh float64
	ListenedSeconds int64
	Country         string
	CreatedAt       time.Time
}
