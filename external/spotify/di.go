package spotify

import (
	"github.com/klangrad/klangrad/internal/config"
	"github.com/klangrad/klangrad/internal/playback"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (playback.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRefreshToken), nil
	})
}
