package decorators

import (
	"context"
	"errors"
	"strings"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/rs/zerolog"
)

const keyPrefix = "weather:"

type weatherGetterService interface {
	GetByCity(ctx context.Context, city string) (models.WeatherData, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

type cacheCounters interface {
	CacheHit()
	CacheMiss()
	CacheError(operation string)
}

// CachedService is a read-through cache in front of a weather resolver.
// Concurrent misses for one city may each reach the resolver.
type CachedService struct {
	inner    weatherGetterService
	cache    cacheClient[models.WeatherData]
	counters cacheCounters
	logger   zerolog.Logger
}

func NewCachedService(
	inner weatherGetterService,
	cache cacheClient[models.WeatherData],
	counters cacheCounters,
	logger zerolog.Logger,
) *CachedService {
	return &CachedService{
		inner:    inner,
		cache:    cache,
		counters: counters,
		logger:   logger.With().Str("component", "CachedService").Logger(),
	}
}

func Key(city string) string {
	return keyPrefix + strings.ToLower(city)
}

func (s *CachedService) GetByCity(ctx context.Context, city string) (models.WeatherData, error) {
	key := Key(city)

	weather, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		s.counters.CacheHit()
		s.logger.Debug().
			Ctx(ctx).
			Str("key", key).
			Msg("cache hit")
		return weather, nil
	case errors.Is(err, models.ErrCacheMiss):
		s.counters.CacheMiss()
	default:
		s.counters.CacheError("get")
		s.counters.CacheMiss()
		s.logger.Warn().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("cache read failed, falling back to providers")
	}

	weather, err = s.inner.GetByCity(ctx, city)
	if err != nil {
		return models.WeatherData{}, err
	}

	if err := s.cache.Set(ctx, key, weather); err != nil {
		s.counters.CacheError("set")
		s.logger.Warn().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("cache set failed")
	}

	return weather, nil
}
