package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/klangrad/klangrad/internal/store"
)

type stubSessions struct {
	records []store.SessionRecord
	err     error
}

func (s *stubSessions) AppendSession(_ context.Context, _ store.AppendSessionInput) (*store.SessionRecord, error) {
	return nil, errors.New("read-only stub")
}

func (s *stubSessions) AllSessions(_ context.Context) ([]store.SessionRecord, error) {
	return s.records, s.err
}

func (s *stubSessions) SessionBySubmission(_ context.Context, _ int64) (*store.SessionRecord, error) {
	return nil, store.ErrNotFound
}

func (s *stubSessions) SessionsBySender(_ context.Context, _ int64) ([]store.SessionRecord, error) {
	return nil, nil
}

func record(chatID int64, name string, distance float64, seconds int64, country string) store.SessionRecord {
	return store.SessionRecord{
		Sender:          store.Sender{ChatID: chatID, FirstName: name},
		DistanceKm:      distance,
		ListenedSeconds: seconds,
		Country:         country,
	}
}

func TestBuild_RanksByTotalDistance(t *testing.T) {
	stub := &stubSessions{records: []store.SessionRecord{
		record(1, "Ada", 10, 3600, "Germany"),
		record(2, "Ben", 30, 3600, "Germany"),
		record(3, "Cleo", 20, 3600, "France"),
	}}
	report, err := NewBuilder(stub).Build(context.Background(), 1)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	wantRanks := map[int64]int{2: 1, 3: 2, 1: 3}
	for _, entry := range report.Entries {
		if entry.Rank != wantRanks[entry.Sender.ChatID] {
			t.Fatalf("chat %d: expected rank %d, got %d", entry.Sender.ChatID, wantRanks[entry.Sender.ChatID], entry.Rank)
		}
	}
	if report.Target == nil || report.Target.Rank != 3 {
		t.Fatalf("unexpected target: %+v", report.Target)
	}
}

func TestBuild_GapToRankAbove(t *testing.T) {
	stub := &stubSessions{records: []store.SessionRecord{
		record(1, "Ada", 10, 3600, ""),
		record(2, "Ben", 30, 3600, ""),
		record(3, "Cleo", 20, 3600, ""),
	}}
	report, err := NewBuilder(stub).Build(context.Background(), 3)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if report.Target.Rank != 2 {
		t.Fatalf("expected rank 2, got %d", report.Target.Rank)
	}
	if report.Target.GapToAboveKm != 10 {
		t.Fatalf("expected gap 10, got %v", report.Target.GapToAboveKm)
	}

	top, err := NewBuilder(stub).Build(context.Background(), 2)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if top.Target.GapToAboveKm != 0 {
		t.Fatalf("rank 1 must have zero gap, got %v", top.Target.GapToAboveKm)
	}
}

func TestBuild_TiesKeepGroupingOrder(t *testing.T) {
	stub := &stubSessions{records: []store.SessionRecord{
		record(1, "Ada", 20, 3600, ""),
		record(2, "Ben", 20, 3600, ""),
	}}
	report, err := NewBuilder(stub).Build(context.Background(), 1)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if report.Entries[0].Sender.ChatID != 1 || report.Entries[1].Sender.ChatID != 2 {
		t.Fatalf("tie order not stable: %+v", report.Entries)
	}
}

func TestBuild_AggregatesPerSender(t *testing.T) {
	stub := &stubSessions{records: []store.SessionRecord{
		record(1, "Ada", 10, 1800, "Germany"),
		record(1, "", 14, 1800, "France"),
		record(1, "", 6, 0, "Germany"),
	}}
	report, err := NewBuilder(stub).Build(context.Background(), 1)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	target := report.Target
	if target.TotalDistanceKm != 30 {
		t.Fatalf("expected total 30km, got %v", target.TotalDistanceKm)
	}
	if target.TotalListenedMin != 60 {
		t.Fatalf("expected 60 minutes, got %d", target.TotalListenedMin)
	}
	// 30 km over one hour of listening.
	if target.AverageSpeedKmh != 30 {
		t.Fatalf("expected average 30km/h, got %v", target.AverageSpeedKmh)
	}
	if len(target.Countries) != 2 {
		t.Fatalf("expected 2 distinct countries, got %v", target.Countries)
	}
}

func TestBuild_ZeroListenTimeGuardsSpeed(t *testing.T) {
	stub := &stubSessions{records: []store.SessionRecord{
		record(1, "Ada", 5, 0, ""),
	}}
	report, err := NewBuilder(stub).Build(context.Background(), 1)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if report.Target.AverageSpeedKmh != 0 {
		t.Fatalf("expected guarded zero speed, got %v", report.Target.AverageSpeedKmh)
	}
}

func TestBuild_NoDataForTarget(t *testing.T) {
	stub := &stubSessions{records: []store.SessionRecord{
		record(1, "Ada", 10, 3600, ""),
	}}
	report, err := NewBuilder(stub).Build(context.Background(), 999)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if report.Target != nil {
		t.Fatalf("expected no target stats, got %+v", report.Target)
	}
	text := FormatReport(report)
	if !strings.Contains(text, "not able to give you your rank") {
		t.Fatalf("expected no-data message, got %s", text)
	}
}

func TestBuild_WindowBelowTopTen(t *testing.T) {
	var records []store.SessionRecord
	for i := 1; i <= 14; i++ {
		records = append(records, record(int64(i), fmt.Sprintf("User%d", i), float64(100-i), 3600, ""))
	}
	stub := &stubSessions{records: records}

	report, err := NewBuilder(stub).Build(context.Background(), 13)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if report.Target.Rank != 13 {
		t.Fatalf("expected rank 13, got %d", report.Target.Rank)
	}
	if len(report.Top) != 10 {
		t.Fatalf("expected top-10 slice, got %d entries", len(report.Top))
	}
	if len(report.Window) != 5 {
		t.Fatalf("expected 5-entry window, got %d", len(report.Window))
	}
	if report.Window[4].Sender.ChatID != 13 {
		t.Fatalf("window must end at the target, got %+v", report.Window[4])
	}
	if report.Window[0].Rank != 9 {
		t.Fatalf("expected window to start at rank 9, got %d", report.Window[0].Rank)
	}
}

func TestFormatReport_RankOneMotivation(t *testing.T) {
	stub := &stubSessions{records: []store.SessionRecord{
		record(1, "Ada", 30, 3600, "Germany"),
		record(2, "Ben", 10, 3600, "Germany"),
	}}
	report, err := NewBuilder(stub).Build(context.Background(), 1)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	text := FormatReport(report)
	if !strings.Contains(text, "favorite DJ") {
		t.Fatalf("expected rank-1 motivation, got %s", text)
	}
	if !strings.Contains(text, "1. Ada - 30km") {
		t.Fatalf("expected leaderboard line, got %s", text)
	}
}
