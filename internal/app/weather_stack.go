package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/services/cache"
	serviceWeather "github.com/Nazarious-ucu/weather-updates/internal/services/weather"
	"github.com/Nazarious-ucu/weather-updates/internal/services/weather/decorators"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ProviderWeatherAPI     = "weatherapi"
	ProviderOpenWeatherMap = "openweathermap"
	ProviderWeatherBit     = "weatherbit"
)

// WeatherStackDeps are the collaborators the weather pipeline is built from.
type WeatherStackDeps struct {
	HTTPClient serviceWeather.HTTPClient
	Auditor    serviceWeather.Auditor
	Redis      redis.Cmdable
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// BuildWeatherStack composes providers in configured order, each behind a
// circuit breaker, into a chain fronted by the Redis read-through cache.
func BuildWeatherStack(cfg config.Config, deps WeatherStackDeps) (*decorators.CachedService, error) {
	providers, err := buildProviders(cfg, deps)
	if err != nil {
		return nil, err
	}

	chain := serviceWeather.NewChain(deps.Logger, deps.Auditor, deps.Metrics, providers...)

	backend := cache.NewMetricsDecorator[models.WeatherData](
		cache.NewRedisClient[models.WeatherData](deps.Redis, deps.Logger, cfg.CacheTTL()),
		deps.Metrics,
	)
	return decorators.NewCachedService(chain, backend, deps.Metrics, deps.Logger), nil
}

func buildProviders(cfg config.Config, deps WeatherStackDeps) ([]serviceWeather.Provider, error) {
	breakerCfg := serviceWeather.BreakerConfig{
		TimeInterval: time.Duration(cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: cfg.Breaker.RepeatNumber,
	}

	providers := make([]serviceWeather.Provider, 0, len(cfg.Providers))
	seen := make(map[string]bool, len(cfg.Providers))
	for _, raw := range cfg.Providers {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var p serviceWeather.Provider
		switch name {
		case ProviderWeatherAPI:
			p = serviceWeather.NewClientWeatherAPI(cfg.WeatherAPIKey, cfg.WeatherAPIURL, deps.HTTPClient, deps.Logger)
		case ProviderOpenWeatherMap:
			p = serviceWeather.NewClientOpenWeatherMap(
				cfg.OpenWeatherMapAPIKey, cfg.OpenWeatherMapURL, deps.HTTPClient, deps.Logger)
		case ProviderWeatherBit:
			p = serviceWeather.NewClientWeatherBit(cfg.WeatherBitAPIKey, cfg.WeatherBitURL, deps.HTTPClient, deps.Logger)
		default:
			return nil, fmt.Errorf("unknown weather provider %q", raw)
		}
		providers = append(providers, serviceWeather.NewBreakerClient(breakerCfg, p))
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no weather providers configured")
	}
	return providers, nil
}
