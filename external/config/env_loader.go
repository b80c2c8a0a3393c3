package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/klangrad/klangrad/internal/config"
)

type envConfig struct {
	Env                     string  `env:"ENV" envDefault:"production"`
	TelegramToken           string  `env:"TELEGRAM_TOKEN,required"`
	TelegramAdminUser       string  `env:"TELEGRAM_ADMIN_USER,required"`
	AccessPassword          string  `env:"ACCESS_PASSWORD,required"`
	AccessQuestion          string  `env:"ACCESS_QUESTION" envDefault:"What is the magic word?"`
	AccessHint              string  `env:"ACCESS_HINT"`
	SpotifyClientID         string  `env:"SPOTIFY_CLIENT_ID,required"`
	SpotifyClientSecret     string  `env:"SPOTIFY_CLIENT_SECRET,required"`
	SpotifyRefreshToken     string  `env:"SPOTIFY_REFRESH_TOKEN,required"`
	ArchivePlaylistName     string  `env:"ARCHIVE_PLAYLIST_NAME"`
	WeatherAPIKey           string  `env:"WEATHER_API_KEY"`
	DatabaseURL             string  `env:"DATABASE_URL"`
	DataDir                 string  `env:"DATA_DIR" envDefault:"data"`
	PollIntervalSec         int     `env:"POLL_INTERVAL_SEC" envDefault:"1"`
	BaselineSpeedKmh        float64 `env:"BASELINE_SPEED_KMH" envDefault:"18"`
	FastSpeedMultiplier     float64 `env:"FAST_SPEED_MULTIPLIER" envDefault:"1.25"`
	ShortListenToleranceSec int     `env:"SHORT_LISTEN_TOLERANCE_SEC" envDefault:"20"`
	OverListenToleranceSec  int     `env:"OVER_LISTEN_TOLERANCE_SEC" envDefault:"10"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                  raw.Env,
		TelegramToken:        raw.TelegramToken,
		TelegramAdminUser:    raw.TelegramAdminUser,
		AccessPassword:       raw.AccessPassword,
		AccessQuestion:       raw.AccessQuestion,
		AccessHint:           raw.AccessHint,
		SpotifyClientID:      raw.SpotifyClientID,
		SpotifyClientSecret:  raw.SpotifyClientSecret,
		SpotifyRefreshToken:  raw.SpotifyRefreshToken,
		ArchivePlaylistName:  raw.ArchivePlaylistName,
		WeatherAPIKey:        raw.WeatherAPIKey,
		DatabaseURL:          raw.DatabaseURL,
		DataDir:              raw.DataDir,
		PollIntervalSec:      raw.PollIntervalSec,
		BaselineSpeedKmh:     raw.BaselineSpeedKmh,
		FastSpeedMultiplier:  raw.FastSpeedMultiplier,
		ShortListenTolerance: time.Duration(raw.ShortListenToleranceSec) * time.Second,
		OverListenTolerance:  time.Duration(raw.OverListenToleranceSec) * time.Second,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
