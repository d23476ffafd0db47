package app

import (
	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/Nazarious-ucu/weather-updates/pkg/messaging"
	"github.com/rs/zerolog"
	"github.com/wagslane/go-rabbitmq"
)

func setupConn(cfg config.RabbitMQ, l zerolog.Logger) (*rabbitmq.Conn, error) {
	conn, err := rabbitmq.NewConn(
		cfg.Address(),
		rabbitmq.WithConnectionOptionsLogging,
	)
	if err != nil {
		l.Error().Err(err).Str("host", cfg.Host).Msg("failed to connect to RabbitMQ")
		return nil, err
	}

	l.Info().Str("host", cfg.Host).Msg("connected to RabbitMQ")
	return conn, nil
}

// setupPublisher declares the notifications exchange and returns a publisher on it.
func setupPublisher(conn *rabbitmq.Conn, l zerolog.Logger) (*rabbitmq.Publisher, error) {
	publisher, err := rabbitmq.NewPublisher(
		conn,
		rabbitmq.WithPublisherOptionsExchangeName(messaging.ExchangeName),
		rabbitmq.WithPublisherOptionsExchangeDeclare,
		rabbitmq.WithPublisherOptionsLogging,
		rabbitmq.WithPublisherOptionsExchangeDurable,
	)
	if err != nil {
		return nil, err
	}

	publisher.NotifyReturn(func(r rabbitmq.Return) {
		l.Warn().
			Int("reply_code", int(r.ReplyCode)).
			Str("routing_key", r.RoutingKey).
			Msg("message returned from server")
	})

	return publisher, nil
}

// setupWeatherConsumer binds the durable weather-updates queue to the exchange.
func setupWeatherConsumer(conn *rabbitmq.Conn) (*rabbitmq.Consumer, error) {
	return rabbitmq.NewConsumer(
		conn,
		messaging.WeatherUpdateQueueName,
		rabbitmq.WithConsumerOptionsExchangeName(messaging.ExchangeName),
		rabbitmq.WithConsumerOptionsExchangeDeclare,
		rabbitmq.WithConsumerOptionsExchangeDurable,
		rabbitmq.WithConsumerOptionsRoutingKey(messaging.WeatherUpdateRoutingKey),
		rabbitmq.WithConsumerOptionsQueueDurable,
	)
}
