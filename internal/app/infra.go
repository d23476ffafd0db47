package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/services/logger"
	"github.com/Nazarious-ucu/weather-updates/internal/services/weather/decorators"
	fLogger "github.com/Nazarious-ucu/weather-updates/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/zap"
)

const (
	timeoutDuration   = 5 * time.Second
	providerTimeout   = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// weatherInfra is the part of the process shared by the API and the worker.
type weatherInfra struct {
	Weather    *decorators.CachedService
	Redis      *redis.Client
	fileLogger *zap.Logger
}

func newWeatherInfra(
	ctx context.Context,
	cfg config.Config,
	l zerolog.Logger,
	m *metrics.Metrics,
) (*weatherInfra, error) {
	fileLogger, err := fLogger.NewFileLogger(cfg.ProviderLogsPath)
	if err != nil {
		return nil, fmt.Errorf("provider log: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address(), DB: cfg.Redis.DbType})
	pingCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// the cache degrades to always-miss, so a missing redis is not fatal
		l.Warn().Err(err).Str("addr", cfg.Redis.Address()).Msg("redis unavailable at startup")
	}

	httpClient := &http.Client{
		Transport: logger.NewRoundTripper(fileLogger),
		Timeout:   providerTimeout,
	}

	weatherSvc, err := BuildWeatherStack(cfg, WeatherStackDeps{
		HTTPClient: httpClient,
		Auditor:    logger.NewProviderLogger(fileLogger),
		Redis:      rdb,
		Metrics:    m,
		Logger:     l,
	})
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &weatherInfra{Weather: weatherSvc, Redis: rdb, fileLogger: fileLogger}, nil
}

func (w *weatherInfra) Close(l zerolog.Logger) {
	if err := w.Redis.Close(); err != nil {
		l.Error().Err(err).Msg("redis close error")
	}
	if err := w.fileLogger.Sync(); err != nil {
		l.Debug().Err(err).Msg("failed to sync provider log")
	}
}
