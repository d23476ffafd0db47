package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const timeoutDuration = 5 * time.Minute

type subscriptionRepository interface {
	GetConfirmedByFrequency(ctx context.Context, frequency models.Frequency) ([]models.Subscription, error)
}

type enqueuer interface {
	Enqueue(ctx context.Context, job models.NotificationJob) error
}

// Dispatcher fans due subscriptions out to the notification queue on a schedule.
type Dispatcher struct {
	repo       subscriptionRepository
	queue      enqueuer
	appURL     string
	logger     zerolog.Logger
	cron       *cron.Cron
	cancel     context.CancelFunc
	m          *metrics.Metrics
	hourlySpec string
	dailySpec  string
}

// New constructs a Dispatcher; specs use the standard five-field cron format.
func New(
	repo subscriptionRepository,
	queue enqueuer,
	appURL string,
	logger zerolog.Logger,
	hourlySpec, dailySpec string,
	m *metrics.Metrics,
) *Dispatcher {
	logger = logger.With().Str("component", "Dispatcher").Logger()
	return &Dispatcher{
		repo:       repo,
		queue:      queue,
		appURL:     appURL,
		logger:     logger,
		cron:       cron.New(),
		cancel:     func() {},
		hourlySpec: hourlySpec,
		dailySpec:  dailySpec,
		m:          m,
	}
}

// Start schedules the hourly and daily runs.
func (d *Dispatcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	schedule := []struct {
		spec string
		freq models.Frequency
	}{
		{d.hourlySpec, models.FrequencyHourly},
		{d.dailySpec, models.FrequencyDaily},
	}
	for _, s := range schedule {
		freq := s.freq
		if _, err := d.cron.AddFunc(s.spec, func() { d.RunDue(ctx, freq) }); err != nil {
			cancel()
			d.logger.Error().Err(err).Str("frequency", string(freq)).Msg("failed to schedule job")
			d.m.TechnicalError("cron_schedule_error")
			return fmt.Errorf("schedule %s job %q: %w", freq, s.spec, err)
		}
	}

	d.cron.Start()
	d.logger.Info().
		Str("hourly", d.hourlySpec).
		Str("daily", d.dailySpec).
		Msg("dispatcher started")
	return nil
}

// Stop cancels running jobs and waits for them to return.
func (d *Dispatcher) Stop() {
	d.cancel()
	<-d.cron.Stop().Done()
	d.logger.Info().Msg("all cron jobs finished, dispatcher stopped")
}

// RunDue enqueues one job per confirmed subscription of the given frequency.
// A failed enqueue is logged and does not stop the rest of the run.
func (d *Dispatcher) RunDue(ctx context.Context, frequency models.Frequency) (enqueued, failed int) {
	d.m.CronJob(string(frequency), func() {
		enqueued, failed = d.runDue(ctx, frequency)
	})
	return enqueued, failed
}

func (d *Dispatcher) runDue(ctx context.Context, frequency models.Frequency) (enqueued, failed int) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeoutDuration)
	defer cancel()

	subs, err := d.repo.GetConfirmedByFrequency(ctx, frequency)
	if err != nil {
		d.logger.Error().Err(err).
			Str("frequency", string(frequency)).
			Msg("error fetching due subscriptions")
		d.m.TechnicalError("fetch_due_subs")
		return 0, 0
	}

	for _, sub := range subs {
		job := models.NotificationJob{
			Email:            sub.Email,
			City:             sub.City,
			UnsubscribeToken: sub.UnsubscribeToken,
			AppURL:           d.appURL,
		}
		err := d.queue.Enqueue(ctx, job)
		d.m.JobEnqueued(err)
		if err != nil {
			failed++
			d.logger.Error().Err(err).
				Int64("subscription_id", sub.ID).
				Msg("error enqueueing update")
			continue
		}
		enqueued++
	}

	d.logger.Info().
		Str("frequency", string(frequency)).
		Int("due", len(subs)).
		Int("enqueued", enqueued).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("completed RunDue")
	return enqueued, failed
}
