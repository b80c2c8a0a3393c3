package spotify

import "testing"

func TestTrackIDFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"share link", "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT", "4cOdK2wGLETKBW3PvgPWqT"},
		{"share link with query", "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT?si=abc123", "4cOdK2wGLETKBW3PvgPWqT"},
		{"trailing slash", "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT/", "4cOdK2wGLETKBW3PvgPWqT"},
		{"uri form", "spotify:track:4cOdK2wGLETKBW3PvgPWqT", "4cOdK2wGLETKBW3PvgPWqT"},
		{"album link", "https://open.spotify.com/album/6akEvsycLGftJxYudPjmqK", ""},
		{"plain text", "some song name", ""},
		{"empty path", "https://open.spotify.com/track/", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TrackIDFromURL(tc.url); got != tc.want {
				t.Fatalf("TrackIDFromURL(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
