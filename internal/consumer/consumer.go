package consumer

import (
	"context"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/pkg/messaging"
	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"
)

const processTimeout = time.Minute

type jobProcessor interface {
	Process(ctx context.Context, job models.NotificationJob) error
}

type jobRecorder interface {
	JobProcessed(err error)
	TechnicalError(errorType string)
}

// Consumer adapts RabbitMQ deliveries to the notification worker.
type Consumer struct {
	ctx       context.Context
	processor jobProcessor
	logger    zerolog.Logger
	m         jobRecorder
}

// NewConsumer binds deliveries to processor; ctx bounds every job it runs.
func NewConsumer(ctx context.Context, processor jobProcessor, logger zerolog.Logger, m jobRecorder) *Consumer {
	return &Consumer{
		ctx:       ctx,
		processor: processor,
		logger:    logger.With().Str("component", "Consumer").Logger(),
		m:         m,
	}
}

// Handle acks processed jobs, requeues failed ones and drops undecodable payloads.
func (c *Consumer) Handle(d rabbitmq.Delivery) rabbitmq.Action {
	job, err := messaging.DecodeJob(d.Body)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("payload", string(d.Body)).
			Msg("discarding malformed job")
		c.m.TechnicalError("unmarshal_error")
		return rabbitmq.NackDiscard
	}

	ctx, cancel := context.WithTimeout(c.ctx, processTimeout)
	defer cancel()

	err = c.processor.Process(ctx, job)
	c.m.JobProcessed(err)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("city", job.City).
			Bool("redelivered", d.Redelivered).
			Msg("job failed, requeueing")
		return rabbitmq.NackRequeue
	}
	return rabbitmq.Ack
}
