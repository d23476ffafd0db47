package cache

import (
	"context"
	"time"
)

type cache[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

type latencyObserver interface {
	ObserveLatency(operation string, duration time.Duration)
}

const (
	OpGet = "get"
	OpSet = "set"
)

// MetricsDecorator times every backend call of the wrapped cache.
type MetricsDecorator[T any] struct {
	next      cache[T]
	collector latencyObserver
}

func NewMetricsDecorator[T any](next cache[T], collector latencyObserver) *MetricsDecorator[T] {
	return &MetricsDecorator[T]{next: next, collector: collector}
}

func (m *MetricsDecorator[T]) Set(ctx context.Context, key string, value T) error {
	start := time.Now()
	err := m.next.Set(ctx, key, value)
	m.collector.ObserveLatency(OpSet, time.Since(start))
	return err
}

//nolint:ireturn
func (m *MetricsDecorator[T]) Get(ctx context.Context, key string) (T, error) {
	start := time.Now()
	v, err := m.next.Get(ctx, key)
	m.collector.ObserveLatency(OpGet, time.Since(start))
	return v, err
}
