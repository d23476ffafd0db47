package producers

import (
	"context"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/Nazarious-ucu/weather-updates/pkg/messaging"
	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"
)

type publisher interface {
	PublishWithContext(
		ctx context.Context,
		data []byte,
		routingKeys []string,
		optionFuncs ...func(*rabbitmq.PublishOptions),
	) error
}

type publishRecorder interface {
	RecordRabbitPublish(routingKey string, err error)
}

// Producer puts notification jobs on the RabbitMQ exchange.
type Producer struct {
	prod   publisher
	logger zerolog.Logger
	m      publishRecorder
}

func NewProducer(prod publisher, logger zerolog.Logger, m publishRecorder) *Producer {
	return &Producer{
		prod:   prod,
		logger: logger.With().Str("component", "Producer").Logger(),
		m:      m,
	}
}

func (p *Producer) Publish(ctx context.Context, routingKey string, body []byte) error {
	err := p.prod.PublishWithContext(
		ctx,
		body,
		[]string{routingKey},
		rabbitmq.WithPublishOptionsContentType(messaging.ContentTypeJSON),
		rabbitmq.WithPublishOptionsMandatory,
		rabbitmq.WithPublishOptionsPersistentDelivery,
		rabbitmq.WithPublishOptionsExchange(messaging.ExchangeName),
	)
	p.m.RecordRabbitPublish(routingKey, err)
	if err != nil {
		p.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("routing_key", routingKey).
			Msg("failed to publish message")
		return err
	}
	p.logger.Debug().
		Ctx(ctx).
		Str("routing_key", routingKey).
		Msg("message published")
	return nil
}

// Enqueue publishes a weather-update job for the worker.
func (p *Producer) Enqueue(ctx context.Context, job models.NotificationJob) error {
	body, err := messaging.EncodeJob(job)
	if err != nil {
		return err
	}
	return p.Publish(ctx, messaging.WeatherUpdateRoutingKey, body)
}
