package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerClient stops calling a provider after RepeatNumber consecutive failures.
type BreakerClient struct {
	cb      *gobreaker.CircuitBreaker
	wrapped Provider
}

func NewBreakerClient(cfg BreakerConfig, wrapped Provider) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        wrapped.Name(),
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
	}
	return &BreakerClient{
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) Name() string { return b.wrapped.Name() }

func (b *BreakerClient) State() gobreaker.State { return b.cb.State() }

func (b *BreakerClient) Fetch(ctx context.Context, city string) (models.ProviderResult, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Fetch(ctx, city)
	})
	if err != nil {
		return models.ProviderResult{},
			fmt.Errorf("%s unavailable: %w", b.Name(), err)
	}
	res, ok := result.(models.ProviderResult)
	if !ok {
		return models.ProviderResult{},
			fmt.Errorf("%s returned unexpected result", b.Name())
	}
	return res, nil
}
