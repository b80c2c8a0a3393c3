package weather

import (
	"github.com/klangrad/klangrad/internal/config"
	"github.com/klangrad/klangrad/internal/weather"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (weather.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewOpenWeatherMapService(cfg.WeatherAPIKey), nil
	})
}
