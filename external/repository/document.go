package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klangrad/klangrad/internal/store"
)

const (
	submissionsFile = "submissions.json"
	sessionsFile    = "sessions.json"
	operatorFile    = "operator.json"
)

// DocumentRepository keeps each collection as a single JSON document on disk
// and rewrites the whole document on every mutation. Writers go through one
// mutex, so the store is safe for a single process only.
type DocumentRepository struct {
	dir string
	mu  sync.Mutex
}

func NewDocumentRepository(dir string) (*DocumentRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &DocumentRepository{dir: dir}, nil
}

type senderDoc struct {
	ChatID    int64  `json:"chat_id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type submissionDoc struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	TrackID   string    `json:"track_id"`
	Sender    senderDoc `json:"sender"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type sampleDoc struct {
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
	Time time.Time `json:"time"`
}

type sessionDoc struct {
	ID              int64       `json:"id"`
	Samples         []sampleDoc `json:"samples"`
	SubmissionID    int64       `json:"submission_id"`
	Sender          senderDoc   `json:"sender"`
	DistanceKm      float64     `json:"distance_km"`
	AverageSpeedKmh float64     `json:"average_speed_kmh"`
	ListenedSeconds int64       `json:"listened_seconds"`
	Country         string      `json:"country,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type operatorDoc struct {
	ChatID int64 `json:"chat_id"`
}

func (r *DocumentRepository) AddSubmission(_ context.Context, input store.AddSubmissionInput) (*store.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var docs []submissionDoc
	if err := r.readDocument(submissionsFile, &docs); err != nil {
		return nil, err
	}

	doc := submissionDoc{
		ID:        nextID(docs, func(d submissionDoc) int64 { return d.ID }),
		Content:   input.Content,
		TrackID:   input.TrackID,
		Sender:    senderToDoc(input.Sender),
		Status:    string(store.SubmissionStatusPending),
		CreatedAt: time.Now().UTC(),
	}
	docs = append(docs, doc)
	if err := r.writeDocument(submissionsFile, docs); err != nil {
		return nil, err
	}
	s := submissionFromDoc(doc)
	return &s, nil
}

func (r *DocumentRepository) PendingSubmissions(_ context.Context) ([]store.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var docs []submissionDoc
	if err := r.readDocument(submissionsFile, &docs); err != nil {
		return nil, err
	}
	var pending []store.Submission
	for _, d := range docs {
		if d.Status == string(store.SubmissionStatusPending) {
			pending = append(pending, submissionFromDoc(d))
		}
	}
	return pending, nil
}

func (r *DocumentRepository) MarkSubmissionConsumed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var docs []submissionDoc
	if err := r.readDocument(submissionsFile, &docs); err != nil {
		return err
	}
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		if docs[i].Status == string(store.SubmissionStatusConsumed) {
			return nil
		}
		docs[i].Status = string(store.SubmissionStatusConsumed)
		return r.writeDocument(submissionsFile, docs)
	}
	return store.ErrNotFound
}

func (r *DocumentRepository) LastSubmission(_ context.Context) (*store.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var docs []submissionDoc
	if err := r.readDocument(submissionsFile, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	last := docs[0]
	for _, d := range docs[1:] {
		if d.ID > last.ID {
			last = d
		}
	}
	s := submissionFromDoc(last)
	return &s, nil
}

func (r *DocumentRepository) AppendSession(_ context.Context, input store.AppendSessionInput) (*store.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var docs []sessionDoc
	if err := r.readDocument(sessionsFile, &docs); err != nil {
		return nil, err
	}

	samples := make([]sampleDoc, 0, len(input.Samples))
	for _, s := range input.Samples {
		samples = append(samples, sampleDoc{Lat: s.Lat, Lon: s.Lon, Time: s.Time})
	}
	doc := sessionDoc{
		ID:              nextID(docs, func(d sessionDoc) int64 { return d.ID }),
		Samples:         samples,
		SubmissionID:    input.SubmissionID,
		Sender:          senderToDoc(input.Sender),
		DistanceKm:      input.DistanceKm,
		AverageSpeedKmh: input.AverageSpeedKmh,
		ListenedSeconds: input.ListenedSeconds,
		Country:         input.Country,
		CreatedAt:       time.Now().UTC(),
	}
	docs = append(docs, doc)
	if err := r.writeDocument(sessionsFile, docs); err != nil {
		return nil, err
	}
	rec := sessionFromDoc(doc)
	return &rec, nil
}

func (r *DocumentRepository) AllSessions(_ context.Context) ([]store.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var docs []sessionDoc
	if err := r.readDocument(sessionsFile, &docs); err != nil {
		return nil, err
	}
	records := make([]store.SessionRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, sessionFromDoc(d))
	}
	return records, nil
}

func (r *DocumentRepository) SessionBySubmission(_ context.Context, submissionID int64) (*store.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var docs []sessionDoc
	if err := r.readDocument(sessionsFile, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.SubmissionID == submissionID {
			rec := sessionFromDoc(d)
			return &rec, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *DocumentRepository) SessionsBySender(_ context.Context, chatID int64) ([]store.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var docs []sessionDoc
	if err := r.readDocument(sessionsFile, &docs); err != nil {
		return nil, err
	}
	var records []store.SessionRecord
	for _, d := range docs {
		if d.Sender.ChatID == chatID {
			records = append(records, sessionFromDoc(d))
		}
	}
	return records, nil
}

func (r *DocumentRepository) OperatorChatID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var doc operatorDoc
	path := filepath.Join(r.dir, operatorFile)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", operatorFile, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("failed to decode %s: %w", operatorFile, err)
	}
	return doc.ChatID, nil
}

func (r *DocumentRepository) SetOperatorChatID(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeDocument(operatorFile, operatorDoc{ChatID: chatID})
}

func (r *DocumentRepository) readDocument(name string, out any) error {
	raw, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// writeDocument replaces the document atomically so a crash mid-write never
// leaves a truncated file behind.
func (r *DocumentRepository) writeDocument(name string, doc any) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(r.dir, name)
	tmp, err := os.CreateTemp(r.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func nextID[T any](docs []T, id func(T) int64) int64 {
	if len(docs) == 0 {
		return 0
	}
	max := id(docs[0])
	for _, d := range docs[1:] {
		if v := id(d); v > max {
			max = v
		}
	}
	return max + 1
}

func senderToDoc(s store.Sender) senderDoc {
	return senderDoc{ChatID: s.ChatID, Username: s.Username, FirstName: s.FirstName, LastName: s.LastName}
}

func senderFromDoc(d senderDoc) store.Sender {
	return store.Sender{ChatID: d.ChatID, Username: d.Username, FirstName: d.FirstName, LastName: d.LastName}
}

func submissionFromDoc(d submissionDoc) store.Submission {
	return store.Submission{
		ID:        d.ID,
		Content:   d.Content,
		TrackID:   d.TrackID,
		Sender:    senderFromDoc(d.Sender),
		Status:    store.SubmissionStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}
}

func sessionFromDoc(d sessionDoc) store.SessionRecord {
	samples := make([]store.LocationSample, 0, len(d.Samples))
	for _, s := range d.Samples {
		samples = append(samples, store.LocationSample{Lat: s.Lat, Lon: s.Lon, Time: s.Time})
	}
	return store.SessionRecord{
		ID:              d.ID,
		Samples:         samples,
		SubmissionID:    d.SubmissionID,
		Sender:          senderFromDoc(d.Sender),
		DistanceKm:      d.DistanceKm,
		AverageSpeedKmh: d.AverageSpeedKmh,
		ListenedSeconds: d.ListenedSeconds,
		Country:         d.Country,
		CreatedAt:       d.CreatedAt,
	}
}
