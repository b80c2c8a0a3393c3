package telegram

import (
	"github.com/klangrad/klangrad/internal/config"
	"github.com/klangrad/klangrad/internal/leaderboard"
	"github.com/klangrad/klangrad/internal/messenger"
	"github.com/klangrad/klangrad/internal/playback"
	"github.com/klangrad/klangrad/internal/store"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[store.Repository](i)
		player := do.MustInvoke[playback.Client](i)
		boards := leaderboard.NewBuilder(repo)
		return NewBot(cfg, repo, player, boards)
	})
	do.Provide(injector, func(i do.Injector) (messenger.Sink, error) {
		return do.MustInvoke[*Bot](i), nil
	})
}
