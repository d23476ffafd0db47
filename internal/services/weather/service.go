package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/rs/zerolog"
)

// Provider is a single upstream weather source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (models.ProviderResult, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Auditor records every provider attempt.
type Auditor interface {
	LogResponse(provider, city string, raw json.RawMessage)
	LogFailure(provider, city string, err error)
}

type attemptRecorder interface {
	ProviderAttempt(provider string, d time.Duration, err error)
}

// Chain resolves weather by asking providers in order until one answers.
type Chain struct {
	logger    zerolog.Logger
	audit     Auditor
	metrics   attemptRecorder
	providers []Provider
}

func NewChain(logger zerolog.Logger, audit Auditor, metrics attemptRecorder, providers ...Provider) *Chain {
	return &Chain{
		logger:    logger.With().Str("component", "WeatherChain").Logger(),
		audit:     audit,
		metrics:   metrics,
		providers: providers,
	}
}

func (c *Chain) GetByCity(ctx context.Context, city string) (models.WeatherData, error) {
	for _, p := range c.providers {
		start := time.Now()
		res, err := p.Fetch(ctx, city)
		if err == nil && res.Empty() {
			err = models.ErrNoData
		}
		c.metrics.ProviderAttempt(p.Name(), time.Since(start), err)

		if err != nil {
			c.audit.LogFailure(p.Name(), city, err)
			c.logger.Warn().
				Ctx(ctx).
				Str("provider", p.Name()).
				Str("city", city).
				Err(err).
				Msg("provider failed, trying next")
			continue
		}

		c.audit.LogResponse(p.Name(), city, res.Raw)
		c.logger.Debug().
			Ctx(ctx).
			Str("provider", p.Name()).
			Str("city", city).
			Dur("duration", time.Since(start)).
			Msg("fetch succeeded")
		return res.Weather, nil
	}

	err := &models.AllProvidersFailedError{City: city}
	c.logger.Error().
		Ctx(ctx).
		Str("city", city).
		Int("providers", len(c.providers)).
		Err(err).
		Msg("GetByCity giving up")
	return models.WeatherData{}, err
}
