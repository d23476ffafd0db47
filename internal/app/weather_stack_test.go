package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/internal/services/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	srv   *httptest.Server
	calls atomic.Int32
}

func newStubProvider(t *testing.T, status int, body string) *stubProvider {
	t.Helper()
	p := &stubProvider{}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		p.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func testConfig(providers ...string) config.Config {
	return config.Config{
		Providers: providers,
		Redis:     config.Redis{TTL: 60},
		Breaker:   config.Breaker{TimeInterval: 30, TimeTimeOut: 10, RepeatNumber: 5},
	}
}

func testDeps(t *testing.T, m *metrics.Metrics) WeatherStackDeps {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return WeatherStackDeps{
		HTTPClient: http.DefaultClient,
		Auditor:    logger.NewProviderLogger(zap.NewNop()),
		Redis:      rdb,
		Metrics:    m,
		Logger:     zerolog.Nop(),
	}
}

func TestBuildWeatherStack_FallsBackInConfiguredOrder(t *testing.T) {
	failing := newStubProvider(t, http.StatusInternalServerError, `{"error":"boom"}`)
	owm := newStubProvider(t, http.StatusOK,
		`{"main":{"temp":12.5,"humidity":70},"weather":[{"description":"light rain"}]}`)
	bit := newStubProvider(t, http.StatusOK,
		`{"data":[{"temp":30,"rh":10,"weather":{"description":"sunny"}}]}`)

	cfg := testConfig(ProviderWeatherAPI, ProviderOpenWeatherMap, ProviderWeatherBit)
	cfg.WeatherAPIURL = failing.srv.URL
	cfg.OpenWeatherMapURL = owm.srv.URL
	cfg.WeatherBitURL = bit.srv.URL

	m := metrics.NewMetrics("test")
	svc, err := BuildWeatherStack(cfg, testDeps(t, m))
	require.NoError(t, err)

	data, err := svc.GetByCity(context.Background(), "Kyiv")
	require.NoError(t, err)
	assert.Equal(t, models.WeatherData{Temperature: 12.5, Humidity: 70, Description: "light rain"}, data)
	assert.EqualValues(t, 1, failing.calls.Load())
	assert.EqualValues(t, 1, owm.calls.Load())
	assert.EqualValues(t, 0, bit.calls.Load())

	again, err := svc.GetByCity(context.Background(), "kyiv")
	require.NoError(t, err)
	assert.Equal(t, data, again)
	assert.EqualValues(t, 1, owm.calls.Load(), "second lookup is served from cache")

	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheHits), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheMisses), 0)
}

func TestBuildWeatherStack_AllProvidersFail(t *testing.T) {
	failing := newStubProvider(t, http.StatusBadGateway, `{}`)

	cfg := testConfig(ProviderWeatherBit)
	cfg.WeatherBitURL = failing.srv.URL

	svc, err := BuildWeatherStack(cfg, testDeps(t, metrics.NewMetrics("test")))
	require.NoError(t, err)

	_, err = svc.GetByCity(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, models.ErrAllProvidersFailed)
}

func TestBuildWeatherStack_ProviderList(t *testing.T) {
	deps := testDeps(t, metrics.NewMetrics("test"))

	_, err := BuildWeatherStack(testConfig("weatherapi", "accuweather"), deps)
	assert.ErrorContains(t, err, "accuweather")

	_, err = BuildWeatherStack(testConfig(" ", ""), deps)
	assert.Error(t, err)

	providers, err := buildProviders(testConfig(" WeatherBit ", "weatherapi", "weatherbit"), deps)
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "weatherbit.io", providers[0].Name())
	assert.Equal(t, "weatherapi.com", providers[1].Name())
}

func TestBuildWeatherStack_EmptyPayloadFallsThrough(t *testing.T) {
	empty := newStubProvider(t, http.StatusOK, `{}`)
	owm := newStubProvider(t, http.StatusOK,
		`{"main":{"temp":-3,"humidity":90},"weather":[{"description":"snow"}]}`)

	cfg := testConfig(ProviderWeatherAPI, ProviderOpenWeatherMap)
	cfg.WeatherAPIURL = empty.srv.URL
	cfg.OpenWeatherMapURL = owm.srv.URL

	m := metrics.NewMetrics("test")
	svc, err := BuildWeatherStack(cfg, testDeps(t, m))
	require.NoError(t, err)

	data, err := svc.GetByCity(context.Background(), "Oslo")
	require.NoError(t, err)
	assert.Equal(t, models.WeatherData{Temperature: -3, Humidity: 90, Description: "snow"}, data)
	assert.EqualValues(t, 1, empty.calls.Load())
	assert.EqualValues(t, 1, owm.calls.Load())
	assert.InDelta(t, 1,
		testutil.ToFloat64(m.ProviderAttempts.WithLabelValues("weatherapi.com", "error")), 0)
}
