package messaging

const (
	ExchangeName = "notifications"

	WeatherUpdateRoutingKey = "weather.update"
	WeatherUpdateQueueName  = "weather_updates"

	ContentTypeJSON = "application/json"
)
