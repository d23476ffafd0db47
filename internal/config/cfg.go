package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Host        string `envconfig:"SERVER_HOST" default:"localhost"`
	HTTPPort    string `envconfig:"SERVER_HTTP_PORT" default:"8080"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`
}

type Db struct {
	Driver  string `envconfig:"DB_DRIVER" default:"sqlite"`
	Dialect string `envconfig:"DB_DIALECT" default:"sqlite3"`
	Source  string `envconfig:"DB_NAME" default:"subscriptions.db"`
}

type Redis struct {
	Host   string `envconfig:"REDIS_HOST" default:"localhost"`
	Port   string `envconfig:"REDIS_PORT" default:"6379"`
	DbType int    `envconfig:"REDIS_DB_TYPE" default:"0"`
	TTL    int    `envconfig:"REDIS_TTL_SECONDS" default:"300"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type RabbitMQ struct {
	Host string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port string `envconfig:"RABBITMQ_PORT" default:"5672"`
	User string `envconfig:"RABBITMQ_USER" default:"guest"`
	Pass string `envconfig:"RABBITMQ_PASSWORD" default:"guest"`
}

type Email struct {
	User     string `envconfig:"EMAIL_USER"`
	Host     string `envconfig:"EMAIL_HOST" default:"localhost"`
	Port     string `envconfig:"EMAIL_PORT" default:"1025"`
	Password string `envconfig:"EMAIL_PASSWORD"`
	From     string `envconfig:"EMAIL_FROM" default:"weather@localhost"`
}

type NotifierFrequency struct {
	HourlyFrequency string `envconfig:"NOTIFIER_HOURLY_FREQUENCY" default:"0 * * * *"`
	DailyFrequency  string `envconfig:"NOTIFIER_DAILY_FREQUENCY" default:"0 8 * * *"`
}

type Worker struct {
	GrpcPort    string `envconfig:"WORKER_GRPC_PORT" default:"50061"`
	MetricsPort string `envconfig:"WORKER_METRICS_PORT" default:"9091"`
}

type Config struct {
	AppURL string `envconfig:"APP_URL" default:"http://localhost:8080"`

	WeatherAPIKey string `envconfig:"WEATHER_API_KEY"`
	WeatherAPIURL string `envconfig:"WEATHER_API_URL" default:"http://api.weatherapi.com/v1/current.json"`

	OpenWeatherMapAPIKey string `envconfig:"OPEN_WEATHER_MAP_API_KEY"`
	OpenWeatherMapURL    string `envconfig:"OPEN_WEATHER_MAP_URL" default:"http://api.openweathermap.org/data/2.5/weather"`

	WeatherBitAPIKey string `envconfig:"WEATHER_BIT_API_KEY"`
	WeatherBitURL    string `envconfig:"WEATHER_BIT_URL" default:"https://api.weatherbit.io/v2.0/current"`

	// Providers lists the weather providers in the order they are tried.
	Providers []string `envconfig:"WEATHER_PROVIDERS" default:"weatherapi,openweathermap,weatherbit"`

	Server       Server
	DB           Db
	Redis        Redis
	Breaker      Breaker
	RabbitMQ     RabbitMQ
	Email        Email
	NotifierFreq NotifierFrequency
	Worker       Worker

	LogsPath         string `envconfig:"LOGS_PATH" default:"./log/weather-updates.log"`
	ProviderLogsPath string `envconfig:"PROVIDER_LOGS_PATH" default:"./log/weather-providers.jsonl"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"debug"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.HTTPPort
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.TTL) * time.Second
}

func (r *Redis) Address() string {
	return r.Host + ":" + r.Port
}

func (r *RabbitMQ) Address() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", r.User, r.Pass, r.Host, r.Port)
}
