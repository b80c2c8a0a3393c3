package maprender

import (
	"github.com/klangrad/klangrad/internal/maprender"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (maprender.Renderer, error) {
		return NewStaticMapRenderer(), nil
	})
}
