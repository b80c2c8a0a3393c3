package session

import (
	"github.com/klangrad/klangrad/internal/config"
	"github.com/klangrad/klangrad/internal/maprender"
	"github.com/klangrad/klangrad/internal/messenger"
	"github.com/klangrad/klangrad/internal/playback"
	"github.com/klangrad/klangrad/internal/store"
	"github.com/klangrad/klangrad/internal/weather"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Watcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[store.Repository](i)
		player := do.MustInvoke[playback.Client](i)
		sink := do.MustInvoke[messenger.Sink](i)
		wsvc := do.MustInvoke[weather.Service](i)
		maps := do.MustInvoke[maprender.Renderer](i)
		return NewWatcher(cfg, repo, player, sink, wsvc, maps, NewTemplatePicker(nil)), nil
	})
}
