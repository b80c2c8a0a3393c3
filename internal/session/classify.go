package session

import (
	"time"

	"github.com/klangrad/klangrad/internal/geo"
)

type ListenVerdict string

const (
	// ListenPartial: the track kept more than the short-listen tolerance
	// unplayed when the window closed.
	ListenPartial ListenVerdict = "partial"
	// ListenFull: listened time landed within the tolerance band around the
	// claimed track length.
	ListenFull ListenVerdict = "full"
	// ListenResumed: listened time exceeded the track length by more than
	// the over-listen tolerance, so playback must have been paused and
	// resumed mid-track.
	ListenResumed ListenVerdict = "resumed"
)

// ClassifyListen bands listened time against the claimed track length.
// Tolerances come from configuration, not literals.
func ClassifyListen(listened, trackLength, shortTolerance, overTolerance time.Duration) ListenVerdict {
	remaining := trackLength - listened
	switch {
	case remaining > shortTolerance:
		return ListenPartial
	case remaining >= -overTolerance:
		return ListenFull
	default:
		return ListenResumed
	}
}

type SpeedVerdict string

const (
	SpeedFast    SpeedVerdict = "fast"
	SpeedNormal  SpeedVerdict = "normal"
	SpeedSlow    SpeedVerdict = "slow"
	SpeedUnknown SpeedVerdict = "unknown"
)

// ClassifySpeed derives the average speed over the window and bands it
// against the baseline. A zero-length window yields SpeedUnknown and a zero
// speed; the division is never attempted.
func ClassifySpeed(distanceKm, durationHours, baselineKmh, fastMultiplier float64) (float64, SpeedVerdict) {
	if durationHours <= 0 {
		return 0, SpeedUnknown
	}
	speed := geo.Round2(distanceKm / durationHours)
	switch {
	case speed > baselineKmh*fastMultiplier:
		return speed, SpeedFast
	case speed > baselineKmh:
		return speed, SpeedNormal
	default:
		return speed, SpeedSlow
	}
}
