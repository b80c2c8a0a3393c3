package playback

import (
	"context"
	"errors"
)

// ErrNoActiveDevice is returned by NowPlaying when the tracked account has no
// device reporting playback state.
var ErrNoActiveDevice = errors.New("playback: no active device")

// State is one observation of the externally controlled player.
type State struct {
	TrackID    string
	Title      string
	Artists    []string
	ProgressMS int
	DurationMS int
	Playing    bool
	PreviewURL string
}

type SearchResult struct {
	DisplayTitle string
	TrackID      string
	PreviewURL   string
}

type Client interface {
	NowPlaying(ctx context.Context) (*State, error)
	NextInQueue(ctx context.Context) (string, error)
	PlayPause(ctx context.Context) error
	Skip(ctx context.Context) error
	Enqueue(ctx context.Context, trackID string) error
	AddToPlaylist(ctx context.Context, playlistName, trackID string) error
	Search(ctx context.Context, query string) ([]SearchResult, error)
	// TrackIDFromURL extracts a track id from a share link, or "" when the
	// link does not point at a track.
	TrackIDFromURL(url string) string
}
