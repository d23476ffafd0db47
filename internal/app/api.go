package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/internal/dispatcher"
	"github.com/Nazarious-ucu/weather-updates/internal/emailer"
	"github.com/Nazarious-ucu/weather-updates/internal/handlers/subscription"
	"github.com/Nazarious-ucu/weather-updates/internal/handlers/weather"
	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/producers"
	"github.com/Nazarious-ucu/weather-updates/internal/repository/sqlite"
	"github.com/Nazarious-ucu/weather-updates/internal/services/email"
	"github.com/Nazarious-ucu/weather-updates/internal/services/subscriptions"
	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"
)

// ServiceContainer holds the initialized dependencies of the API process.
type ServiceContainer struct {
	SubscriptionService *subscriptions.Service
	Dispatcher          *dispatcher.Dispatcher
	Srv                 *http.Server
	Db                  *sql.DB

	infra     *weatherInfra
	rabbit    *rabbitmq.Conn
	publisher *rabbitmq.Publisher
}

// App is the HTTP API process: subscriptions, weather lookups and the scheduler.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metrics.Metrics
}

func New(cfg config.Config, logger zerolog.Logger, m *metrics.Metrics) *App {
	logger = logger.With().Str("service", "weather-api").Logger()
	return &App{cfg: cfg, l: logger, m: m}
}

// Start initializes every dependency, serves HTTP and blocks until ctx is done.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.init(ctx)
	if err != nil {
		return err
	}

	if err := srvContainer.Dispatcher.Start(ctx); err != nil {
		a.Stop(srvContainer)
		return err
	}
	a.l.Info().Msg("dispatcher started")

	serveErr := make(chan error, 1)
	go func() {
		a.l.Info().Str("http_addr", a.cfg.ServerAddress()).Msg("HTTP server listening")
		if err := srvContainer.Srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received")
	case err = <-serveErr:
		if err != nil {
			a.l.Error().Err(err).Msg("HTTP server error")
		}
	}

	a.Stop(srvContainer)
	return err
}

// Stop releases resources in reverse order of creation.
func (a *App) Stop(srvContainer ServiceContainer) {
	a.l.Info().Msg("stopping application")

	srvContainer.Dispatcher.Stop()
	a.l.Info().Msg("dispatcher stopped")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	srvContainer.publisher.Close()
	if err := srvContainer.rabbit.Close(); err != nil {
		a.l.Error().Err(err).Msg("RabbitMQ close error")
	}

	srvContainer.infra.Close(a.l)

	if err := srvContainer.Db.Close(); err != nil {
		a.l.Error().Err(err).Msg("database close error")
	} else {
		a.l.Info().Msg("database closed")
	}

	a.l.Info().Msg("application shutdown complete")
}

func (a *App) init(ctx context.Context) (ServiceContainer, error) {
	a.l.Info().Msg("initializing application")

	dbCtx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()
	db, err := CreateSqliteDb(dbCtx, a.cfg.DB.Driver, a.cfg.DB.Source)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("open database: %w", err)
	}
	if err := InitSqliteDb(db, a.cfg.DB.Dialect); err != nil {
		_ = db.Close()
		return ServiceContainer{}, fmt.Errorf("migrate database: %w", err)
	}
	if err := a.m.RegisterDB(db, a.cfg.DB.Source); err != nil {
		a.l.Warn().Err(err).Msg("failed to register db stats collector")
	}
	repo := sqlite.NewSubscriptionRepository(db, a.l, a.m)

	infra, err := newWeatherInfra(ctx, a.cfg, a.l, a.m)
	if err != nil {
		_ = db.Close()
		return ServiceContainer{}, err
	}

	rabbitConn, err := setupConn(a.cfg.RabbitMQ, a.l)
	if err != nil {
		infra.Close(a.l)
		_ = db.Close()
		return ServiceContainer{}, err
	}
	publisher, err := setupPublisher(rabbitConn, a.l)
	if err != nil {
		_ = rabbitConn.Close()
		infra.Close(a.l)
		_ = db.Close()
		return ServiceContainer{}, fmt.Errorf("rabbitmq publisher: %w", err)
	}
	producer := producers.NewProducer(publisher, a.l, a.m)

	emailSvc := email.NewService(emailer.NewSMTPService(a.cfg.Email, a.l, a.m), a.l)
	subSvc := subscriptions.NewService(repo, infra.Weather, emailSvc, a.cfg.AppURL, a.l, a.m)

	d := dispatcher.New(repo, producer, a.cfg.AppURL, a.l,
		a.cfg.NotifierFreq.HourlyFrequency,
		a.cfg.NotifierFreq.DailyFrequency,
		a.m,
	)

	router := NewRouter(a.m,
		subscription.NewHandler(subSvc, a.l),
		weather.NewHandler(infra.Weather, a.l),
	)
	httpSrv := &http.Server{
		Addr:              a.cfg.ServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		SubscriptionService: subSvc,
		Dispatcher:          d,
		Srv:                 httpSrv,
		Db:                  db,
		infra:               infra,
		rabbit:              rabbitConn,
		publisher:           publisher,
	}, nil
}
