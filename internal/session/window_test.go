package session

import (
	"testing"
	"time"

	"github.com/klangrad/klangrad/internal/store"
)

func sampleAt(lat, lon float64, t time.Time) store.LocationSample {
	return store.LocationSample{Lat: lat, Lon: lon, Time: t}
}

func TestWindow_OpenSeedsFirstSample(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	w := OpenWindow(sampleAt(52.52, 13.405, now))
	if w.Count() != 1 {
		t.Fatalf("expected 1 seeded sample, got %d", w.Count())
	}

	samples := w.Close()
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample from close, got %d", len(samples))
	}
	if samples[0].Lat != 52.52 || samples[0].Lon != 13.405 {
		t.Fatalf("unexpected seed sample: %+v", samples[0])
	}
}

func TestWindow_PushAppendsInOrder(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	w := OpenWindow(sampleAt(1, 1, now))
	w.Push(sampleAt(2, 2, now.Add(time.Second)))
	w.Push(sampleAt(3, 3, now.Add(2*time.Second)))

	samples := w.Close()
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	for i, want := range []float64{1, 2, 3} {
		if samples[i].Lat != want {
			t.Fatalf("sample %d out of order: %+v", i, samples[i])
		}
	}
}

func TestWindow_CloseEmptyReturnsNil(t *testing.T) {
	w := &Window{}
	if samples := w.Close(); samples != nil {
		t.Fatalf("expected nil for empty window, got %v", samples)
	}
}

func TestWindow_CloseClearsBuffer(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	w := OpenWindow(sampleAt(1, 1, now))
	if samples := w.Close(); len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if samples := w.Close(); samples != nil {
		t.Fatalf("expected nil on second close, got %v", samples)
	}
}
