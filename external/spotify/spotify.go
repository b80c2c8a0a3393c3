package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/klangrad/klangrad/internal/playback"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const searchResultLimit = 5

type SpotifyClient struct {
	client *spotify.Client
}

// NewSpotifyClient builds a client around a long-lived refresh token, so the
// tracked account never has to redo the browser consent flow.
func NewSpotifyClient(clientID, clientSecret, refreshToken string) *SpotifyClient {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserReadCurrentlyPlaying,
			spotifyauth.ScopeUserReadPlaybackState,
			spotifyauth.ScopeUserModifyPlaybackState,
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
		),
	)
	token := &oauth2.Token{RefreshToken: refreshToken}
	httpClient := auth.Client(context.Background(), token)
	return &SpotifyClient{client: spotify.New(httpClient)}
}

func (c *SpotifyClient) NowPlaying(ctx context.Context) (*playback.State, error) {
	state, err := c.client.PlayerState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get player state: %w", err)
	}
	if state == nil || state.Item == nil {
		return nil, playback.ErrNoActiveDevice
	}

	track := state.Item
	artists := make([]string, 0, len(track.Artists))
	for _, a := range track.Artists {
		artists = append(artists, a.Name)
	}
	return &playback.State{
		TrackID:    track.ID.String(),
		Title:      track.Name,
		Artists:    artists,
		ProgressMS: int(state.Progress),
		DurationMS: int(track.Duration),
		Playing:    state.Playing,
		PreviewURL: track.PreviewURL,
	}, nil
}

func (c *SpotifyClient) NextInQueue(ctx context.Context) (string, error) {
	queue, err := c.client.GetQueue(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get queue: %w", err)
	}
	if len(queue.Items) == 0 {
		return "", nil
	}
	next := queue.Items[0]
	return formatTrack(next.Name, next.Artists), nil
}

func (c *SpotifyClient) PlayPause(ctx context.Context) error {
	state, err := c.client.PlayerState(ctx)
	if err != nil {
		return fmt.Errorf("failed to get player state: %w", err)
	}
	if state != nil && state.Playing {
		if err := c.client.Pause(ctx); err != nil {
			return fmt.Errorf("failed to pause: %w", err)
		}
		return nil
	}
	if err := c.client.Play(ctx); err != nil {
		return fmt.Errorf("failed to resume: %w", err)
	}
	return nil
}

func (c *SpotifyClient) Skip(ctx context.Context) error {
	if err := c.client.Next(ctx); err != nil {
		return fmt.Errorf("failed to skip track: %w", err)
	}
	return nil
}

func (c *SpotifyClient) Enqueue(ctx context.Context, trackID string) error {
	if err := c.client.QueueSong(ctx, spotify.ID(trackID)); err != nil {
		return fmt.Errorf("failed to queue track: %w", err)
	}
	return nil
}

func (c *SpotifyClient) AddToPlaylist(ctx context.Context, playlistName, trackID string) error {
	playlistID, err := c.findOrCreatePlaylist(ctx, playlistName)
	if err != nil {
		return err
	}
	if _, err := c.client.AddTracksToPlaylist(ctx, playlistID, spotify.ID(trackID)); err != nil {
		return fmt.Errorf("failed to add track to playlist: %w", err)
	}
	return nil
}

func (c *SpotifyClient) findOrCreatePlaylist(ctx context.Context, name string) (spotify.ID, error) {
	playlists, err := c.client.CurrentUsersPlaylists(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list playlists: %w", err)
	}
	for _, p := range playlists.Playlists {
		if p.Name == name {
			return p.ID, nil
		}
	}

	user, err := c.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	created, err := c.client.CreatePlaylistForUser(ctx, user.ID, name, "", false, false)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist: %w", err)
	}
	return created.ID, nil
}

func (c *SpotifyClient) Search(ctx context.Context, query string) ([]playback.SearchResult, error) {
	result, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(searchResultLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}
	if result.Tracks == nil {
		return nil, nil
	}
	results := make([]playback.SearchResult, 0, len(result.Tracks.Tracks))
	for _, t := range result.Tracks.Tracks {
		results = append(results, playback.SearchResult{
			DisplayTitle: formatTrack(t.Name, t.Artists),
			TrackID:      t.ID.String(),
			PreviewURL:   t.PreviewURL,
		})
	}
	return results, nil
}

// TrackIDFromURL accepts share links like
// https://open.spotify.com/track/<id>?si=... and spotify:track:<id> URIs.
func (c *SpotifyClient) TrackIDFromURL(url string) string {
	return TrackIDFromURL(url)
}

func TrackIDFromURL(url string) string {
	if rest, ok := strings.CutPrefix(url, "spotify:track:"); ok {
		return rest
	}
	marker := "open.spotify.com/track/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	id := url[idx+len(marker):]
	if q := strings.IndexAny(id, "?#"); q >= 0 {
		id = id[:q]
	}
	id = strings.TrimSuffix(id, "/")
	if id == "" {
		return ""
	}
	return id
}

func formatTrack(name string, artists []spotify.SimpleArtist) string {
	if len(artists) == 0 {
		return name
	}
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return name + " - " + strings.Join(names, ", ")
}
