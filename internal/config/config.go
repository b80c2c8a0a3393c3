package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env                  string
	TelegramToken        string
	TelegramAdminUser    string
	AccessPassword       string
	AccessQuestion       string
	AccessHint           string
	SpotifyClientID      string
	SpotifyClientSecret  string
	SpotifyRefreshToken  string
	ArchivePlaylistName  string
	WeatherAPIKey        string
	DatabaseURL          string
	DataDir              string
	PollIntervalSec      int
	BaselineSpeedKmh     float64
	FastSpeedMultiplier  float64
	ShortListenTolerance time.Duration
	OverListenTolerance  time.Duration
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.PollIntervalSec <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SEC must be positive, got %d", c.PollIntervalSec)
	}
	if c.BaselineSpeedKmh <= 0 {
		return fmt.Errorf("BASELINE_SPEED_KMH must be positive, got %v", c.BaselineSpeedKmh)
	}
	if c.FastSpeedMultiplier <= 1 {
		return fmt.Errorf("FAST_SPEED_MULTIPLIER must be greater than 1, got %v", c.FastSpeedMultiplier)
	}
	if c.ShortListenTolerance < 0 {
		return fmt.Errorf("SHORT_LISTEN_TOLERANCE_SEC must not be negative, got %v", c.ShortListenTolerance)
	}
	if c.OverListenTolerance < 0 {
		return fmt.Errorf("OVER_LISTEN_TOLERANCE_SEC must not be negative, got %v", c.OverListenTolerance)
	}
	if c.DatabaseURL == "" && c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required when DATABASE_URL is not set")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "TELEGRAM_TOKEN", value: c.TelegramToken},
		{name: "TELEGRAM_ADMIN_USER", value: c.TelegramAdminUser},
		{name: "ACCESS_PASSWORD", value: c.AccessPassword},
		{name: "SPOTIFY_CLIENT_ID", value: c.SpotifyClientID},
		{name: "SPOTIFY_CLIENT_SECRET", value: c.SpotifyClientSecret},
		{name: "SPOTIFY_REFRESH_TOKEN", value: c.SpotifyRefreshToken},
	}
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
