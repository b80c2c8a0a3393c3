package session

import (
	"testing"
	"time"
)

const (
	testShortTolerance = 20 * time.Second
	testOverTolerance  = 10 * time.Second
)

func TestClassifyListen_Partial(t *testing.T) {
	got := ClassifyListen(90*time.Second, 180*time.Second, testShortTolerance, testOverTolerance)
	if got != ListenPartial {
		t.Fatalf("expected partial listen, got %s", got)
	}
}

func TestClassifyListen_Full(t *testing.T) {
	for _, listened := range []time.Duration{165 * time.Second, 180 * time.Second, 190 * time.Second} {
		got := ClassifyListen(listened, 180*time.Second, testShortTolerance, testOverTolerance)
		if got != ListenFull {
			t.Fatalf("expected full listen for %v, got %s", listened, got)
		}
	}
}

func TestClassifyListen_ResumedAfterPause(t *testing.T) {
	got := ClassifyListen(200*time.Second, 180*time.Second, testShortTolerance, testOverTolerance)
	if got != ListenResumed {
		t.Fatalf("expected resumed verdict, got %s", got)
	}
}

func TestClassifySpeed_ZeroDurationGuard(t *testing.T) {
	speed, verdict := ClassifySpeed(5, 0, 18, 1.25)
	if verdict != SpeedUnknown {
		t.Fatalf("expected unknown verdict, got %s", verdict)
	}
	if speed != 0 {
		t.Fatalf("expected zero speed, got %v", speed)
	}
}

func TestClassifySpeed_Bands(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		hours      float64
		want       SpeedVerdict
	}{
		{name: "fast above multiplier", distanceKm: 25, hours: 1, want: SpeedFast},
		{name: "normal above baseline", distanceKm: 20, hours: 1, want: SpeedNormal},
		{name: "slow at baseline", distanceKm: 18, hours: 1, want: SpeedSlow},
		{name: "slow below baseline", distanceKm: 10, hours: 1, want: SpeedSlow},
	}
	for _, tc := range tests {
		speed, verdict := ClassifySpeed(tc.distanceKm, tc.hours, 18, 1.25)
		if verdict != tc.want {
			t.Fatalf("%s: expected %s, got %s (speed %v)", tc.name, tc.want, verdict, speed)
		}
		if speed != tc.distanceKm/tc.hours {
			t.Fatalf("%s: unexpected speed %v", tc.name, speed)
		}
	}
}
