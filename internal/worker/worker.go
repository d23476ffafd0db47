package worker

import (
	"context"
	"fmt"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/rs/zerolog"
)

type weatherGetter interface {
	GetByCity(ctx context.Context, city string) (models.WeatherData, error)
}

type updateSender interface {
	SendWeatherUpdate(ctx context.Context, to string, data models.WeatherUpdateEmailData) error
}

// Worker turns one notification job into one weather-update email.
type Worker struct {
	weather weatherGetter
	sender  updateSender
	logger  zerolog.Logger
}

func New(weather weatherGetter, sender updateSender, logger zerolog.Logger) *Worker {
	return &Worker{
		weather: weather,
		sender:  sender,
		logger:  logger.With().Str("component", "NotificationWorker").Logger(),
	}
}

// Process fails without emailing when weather cannot be resolved, so the queue can retry the job.
func (w *Worker) Process(ctx context.Context, job models.NotificationJob) error {
	data, err := w.weather.GetByCity(ctx, job.City)
	if err != nil {
		w.logger.Warn().
			Ctx(ctx).
			Str("city", job.City).
			Err(err).
			Msg("weather lookup failed, skipping email")
		return fmt.Errorf("resolve weather for %s: %w", job.City, err)
	}

	err = w.sender.SendWeatherUpdate(ctx, job.Email, models.WeatherUpdateEmailData{
		City:             job.City,
		Weather:          data,
		UnsubscribeToken: job.UnsubscribeToken,
		AppURL:           job.AppURL,
	})
	if err != nil {
		return fmt.Errorf("send weather update: %w", err)
	}

	w.logger.Info().
		Ctx(ctx).
		Str("city", job.City).
		Msg("weather update sent")
	return nil
}
