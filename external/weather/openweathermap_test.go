package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLookup_NoAPIKey(t *testing.T) {
	s := NewOpenWeatherMapService("")
	if _, err := s.Lookup(context.Background(), 52.5, 13.4); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestLookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "key" {
			t.Fatalf("unexpected api key: %s", q.Get("appid"))
		}
		if q.Get("units") != "metric" {
			t.Fatalf("expected metric units, got %s", q.Get("units"))
		}
		if q.Get("lat") == "" || q.Get("lon") == "" {
			t.Fatalf("missing coordinates in query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"weather": [{"description": "light rain"}],
			"main": {"temp": 14.3},
			"wind": {"speed": 5.2, "deg": 90},
			"sys": {"country": "DE"}
		}`))
	}))
	defer server.Close()

	s := NewOpenWeatherMapService("key")
	s.baseURL = server.URL

	report, err := s.Lookup(context.Background(), 52.5, 13.4)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if report.Country != "Germany" {
		t.Fatalf("expected country Germany, got %q", report.Country)
	}
	for _, want := range []string{"Germany", "14.3", "light rain", "5.2m/s", "east"} {
		if !strings.Contains(report.Sentence, want) {
			t.Fatalf("sentence %q missing %q", report.Sentence, want)
		}
	}
}

func TestLookup_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := NewOpenWeatherMapService("key")
	s.baseURL = server.URL

	if _, err := s.Lookup(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestCompassDirection(t *testing.T) {
	cases := []struct {
		deg  float64
		want string
	}{
		{0, "north"},
		{45, "north-east"},
		{90, "east"},
		{180, "south"},
		{270, "west"},
		{337.5, "north-west"},
		{359, "north"},
	}
	for _, tc := range cases {
		if got := compassDirection(tc.deg); got != tc.want {
			t.Fatalf("compassDirection(%v) = %q, want %q", tc.deg, got, tc.want)
		}
	}
}
