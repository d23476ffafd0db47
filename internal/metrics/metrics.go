package metrics

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	grpcProm "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

const divisor = 100

// Metrics defines all Prometheus metrics shared by the API and the worker.
type Metrics struct {
	registry *prometheus.Registry

	// RED (Rate, Errors, Duration) for HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestDuration  *prometheus.HistogramVec

	// Business metrics
	SubscriptionsCreated    *prometheus.CounterVec // by frequency
	SubscriptionsConfirmed  prometheus.Counter
	SubscriptionsCanceled   prometheus.Counter
	SubscriptionsRolledBack prometheus.Counter

	// Weather pipeline
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	CacheErrors       *prometheus.CounterVec // by operation
	CacheOpDuration   *prometheus.HistogramVec
	ProviderAttempts  *prometheus.CounterVec // by provider, result
	ProviderDurations *prometheus.HistogramVec

	// Dispatcher and worker
	CronRuns        *prometheus.CounterVec // by frequency
	CronRunDuration *prometheus.HistogramVec
	JobsEnqueued    *prometheus.CounterVec // by result
	JobsProcessed   *prometheus.CounterVec // by result

	RabbitPublishTotal *prometheus.CounterVec // by routing_key, result

	ServiceUptime prometheus.Gauge

	BusinessErrors  *prometheus.CounterVec
	TechnicalErrors *prometheus.CounterVec
}

// NewMetrics creates all metrics under the given namespace and registers them
// on a registry owned by the returned value.
func NewMetrics(namespace string) *Metrics {
	errorLabels := []string{"error_type", "severity"}
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests total",
			},
			[]string{"method", "endpoint", "status_class"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "In-flight HTTP requests",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		SubscriptionsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_created_total",
				Help:      "Total subscriptions created",
			},
			[]string{"frequency"},
		),
		SubscriptionsConfirmed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_confirmed_total",
				Help:      "Total subscriptions confirmed",
			},
		),
		SubscriptionsCanceled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_canceled_total",
				Help:      "Total subscriptions canceled",
			},
		),
		SubscriptionsRolledBack: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_rolled_back_total",
				Help:      "Subscriptions deleted after the confirmation email failed",
			},
		),

		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_cache_hit_total",
				Help:      "Total number of weather cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_cache_miss_total",
				Help:      "Total number of weather cache misses",
			},
		),
		CacheErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_cache_errors_total",
				Help:      "Cache backend failures",
			},
			[]string{"operation"},
		),
		CacheOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cache_operation_duration_seconds",
				Help:      "Cache operation latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		ProviderAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_provider_attempts_total",
				Help:      "Weather provider attempts",
			},
			[]string{"provider", "result"},
		),
		ProviderDurations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "weather_provider_duration_seconds",
				Help:      "Weather provider call latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		CronRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cron_runs_total",
				Help:      "Cron job executions",
			},
			[]string{"frequency"},
		),
		CronRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cron_run_duration_seconds",
				Help:      "Duration of cron jobs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"frequency"},
		),
		JobsEnqueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notification_jobs_enqueued_total",
				Help:      "Notification jobs handed to the queue",
			},
			[]string{"result"},
		),
		JobsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notification_jobs_processed_total",
				Help:      "Notification jobs processed by the worker",
			},
			[]string{"result"},
		),

		RabbitPublishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rabbitmq_publish_total",
				Help:      "RabbitMQ messages published",
			},
			[]string{"routing_key", "result"},
		),

		ServiceUptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_start_time_seconds",
				Help:      "Unix time the service started",
			},
		),

		BusinessErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "business_errors_total",
				Help:      "Total business errors",
			},
			errorLabels,
		),
		TechnicalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "technical_errors_total",
				Help:      "Total technical errors",
			},
			errorLabels,
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestsInFlight,
		m.HTTPRequestDuration,
		m.SubscriptionsCreated,
		m.SubscriptionsConfirmed,
		m.SubscriptionsCanceled,
		m.SubscriptionsRolledBack,
		m.CacheHits,
		m.CacheMisses,
		m.CacheErrors,
		m.CacheOpDuration,
		m.ProviderAttempts,
		m.ProviderDurations,
		m.CronRuns,
		m.CronRunDuration,
		m.JobsEnqueued,
		m.JobsProcessed,
		m.RabbitPublishTotal,
		m.ServiceUptime,
		m.BusinessErrors,
		m.TechnicalErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m.ServiceUptime.SetToCurrentTime()

	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDB adds sql.DBStats collection for db.
func (m *Metrics) RegisterDB(db *sql.DB, dbName string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

// HTTPMiddleware instruments Gin HTTP handlers for RED metrics.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		c.Next()
		m.HTTPRequestsInFlight.Dec()

		dur := time.Since(start).Seconds()
		statusClass := fmt.Sprintf("%dxx", c.Writer.Status()/divisor)

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, c.FullPath(), statusClass).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).Observe(dur)
	}
}

// GRPCServerMetrics returns interceptor metrics registered on this registry.
func (m *Metrics) GRPCServerMetrics() (*grpcProm.ServerMetrics, error) {
	sm := grpcProm.NewServerMetrics()
	sm.EnableHandlingTimeHistogram()
	if err := m.registry.Register(sm); err != nil {
		return nil, err
	}
	return sm, nil
}

// GRPCServerOptions wires unary and stream interceptors of sm into a server.
func GRPCServerOptions(sm *grpcProm.ServerMetrics) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.UnaryInterceptor(sm.UnaryServerInterceptor()),
		grpc.StreamInterceptor(sm.StreamServerInterceptor()),
	}
}

func (m *Metrics) CacheHit()  { m.CacheHits.Inc() }
func (m *Metrics) CacheMiss() { m.CacheMisses.Inc() }

func (m *Metrics) CacheError(operation string) {
	m.CacheErrors.WithLabelValues(operation).Inc()
}

// ObserveLatency records a cache backend operation latency.
func (m *Metrics) ObserveLatency(operation string, d time.Duration) {
	m.CacheOpDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ProviderAttempt records a single provider call made by the resolution chain.
func (m *Metrics) ProviderAttempt(provider string, d time.Duration, err error) {
	m.ProviderAttempts.WithLabelValues(provider, result(err)).Inc()
	m.ProviderDurations.WithLabelValues(provider).Observe(d.Seconds())
}

// CronJob wraps a function with cron metrics (runs + duration).
func (m *Metrics) CronJob(frequency string, job func()) {
	start := time.Now()
	m.CronRuns.WithLabelValues(frequency).Inc()
	job()
	m.CronRunDuration.WithLabelValues(frequency).Observe(time.Since(start).Seconds())
}

// RecordRabbitPublish logs a publish attempt (routing key) result ("ok" or "error").
func (m *Metrics) RecordRabbitPublish(routingKey string, err error) {
	m.RabbitPublishTotal.WithLabelValues(routingKey, result(err)).Inc()
}

func (m *Metrics) JobEnqueued(err error)  { m.JobsEnqueued.WithLabelValues(result(err)).Inc() }
func (m *Metrics) JobProcessed(err error) { m.JobsProcessed.WithLabelValues(result(err)).Inc() }

func (m *Metrics) BusinessError(errorType string) {
	m.BusinessErrors.WithLabelValues(errorType, "warning").Inc()
}

func (m *Metrics) TechnicalError(errorType string) {
	m.TechnicalErrors.WithLabelValues(errorType, "critical").Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
