package app

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/internal/consumer"
	"github.com/Nazarious-ucu/weather-updates/internal/emailer"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/services/email"
	"github.com/Nazarious-ucu/weather-updates/internal/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// WorkerApp consumes notification jobs and mails weather updates.
type WorkerApp struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metrics.Metrics
}

func NewWorker(cfg config.Config, logger zerolog.Logger, m *metrics.Metrics) *WorkerApp {
	logger = logger.With().Str("service", "notification-worker").Logger()
	return &WorkerApp{cfg: cfg, l: logger, m: m}
}

// Start runs the queue consumer, a gRPC health endpoint and a metrics server
// until ctx is done.
func (w *WorkerApp) Start(ctx context.Context) error {
	infra, err := newWeatherInfra(ctx, w.cfg, w.l, w.m)
	if err != nil {
		return err
	}
	defer infra.Close(w.l)

	emailSvc := email.NewService(emailer.NewSMTPService(w.cfg.Email, w.l, w.m), w.l)
	handler := consumer.NewConsumer(ctx, worker.New(infra.Weather, emailSvc, w.l), w.l, w.m)

	rabbitConn, err := setupConn(w.cfg.RabbitMQ, w.l)
	if err != nil {
		return err
	}
	defer func() {
		if err := rabbitConn.Close(); err != nil {
			w.l.Error().Err(err).Msg("RabbitMQ close error")
		}
	}()

	weatherConsumer, err := setupWeatherConsumer(rabbitConn)
	if err != nil {
		w.l.Error().Err(err).Msg("failed to setup weather consumer")
		return err
	}
	defer weatherConsumer.Close()

	go func() {
		if err := weatherConsumer.Run(handler.Handle); err != nil {
			w.l.Error().Err(err).Msg("weather consumer stopped")
		}
	}()

	grpcServer, err := w.newGrpcServer()
	if err != nil {
		return err
	}
	go w.serveGrpc(ctx, grpcServer)

	metricsSrv := &http.Server{
		Addr:              w.cfg.Server.Host + ":" + w.cfg.Worker.MetricsPort,
		Handler:           promhttp.HandlerFor(w.m.Registry(), promhttp.HandlerOpts{}),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		w.l.Info().Str("addr", metricsSrv.Addr).Msg("metrics server listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			w.l.Error().Err(err).Msg("metrics server error")
		}
	}()

	w.l.Info().Msg("worker started")
	<-ctx.Done()
	w.l.Info().Msg("shutdown signal received, stopping worker")

	grpcServer.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		w.l.Error().Err(err).Msg("metrics server shutdown error")
	}

	w.l.Info().Msg("worker shutdown complete")
	return nil
}

func (w *WorkerApp) newGrpcServer() (*grpc.Server, error) {
	sm, err := w.m.GRPCServerMetrics()
	if err != nil {
		return nil, err
	}
	grpcServer := grpc.NewServer(metrics.GRPCServerOptions(sm)...)

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	sm.InitializeMetrics(grpcServer)
	return grpcServer, nil
}

func (w *WorkerApp) serveGrpc(ctx context.Context, grpcServer *grpc.Server) {
	addr := w.cfg.Server.Host + ":" + w.cfg.Worker.GrpcPort
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		w.l.Error().Err(err).Msg("failed to listen on gRPC port")
		return
	}
	w.l.Info().Str("grpc_addr", addr).Msg("gRPC health server running")
	if err := grpcServer.Serve(lis); err != nil {
		w.l.Error().Err(err).Msg("gRPC server failed")
	}
}
