package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/rs/zerolog"
)

const WeatherAPIName = "weatherapi.com"

type weatherAPIResponse struct {
	Current *struct {
		TempC     float64 `json:"temp_c"`
		Humidity  float64 `json:"humidity"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// ClientWeatherAPI fetches current conditions from weatherapi.com.
type ClientWeatherAPI struct {
	apiKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewClientWeatherAPI(apiKey, apiURL string, httpClient HTTPClient, logger zerolog.Logger) *ClientWeatherAPI {
	return &ClientWeatherAPI{
		apiKey: apiKey,
		apiURL: apiURL,
		client: httpClient,
		logger: logger.With().Str("component", "ClientWeatherAPI").Logger(),
	}
}

func (c *ClientWeatherAPI) Name() string { return WeatherAPIName }

func (c *ClientWeatherAPI) Fetch(ctx context.Context, city string) (models.ProviderResult, error) {
	body, err := getRaw(ctx, c.client, c.logger, c.apiURL, url.Values{
		"key": {c.apiKey},
		"q":   {city},
	})
	if err != nil {
		return models.ProviderResult{}, err
	}

	var raw weatherAPIResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.ProviderResult{}, fmt.Errorf("decode %s response: %w", WeatherAPIName, err)
	}

	if raw.Current == nil {
		return models.ProviderResult{}, fmt.Errorf("%s: %w", WeatherAPIName, models.ErrNoData)
	}

	description := raw.Current.Condition.Text
	if description == "" {
		description = models.UnknownDescription
	}

	return models.ProviderResult{
		Weather: models.WeatherData{
			Temperature: raw.Current.TempC,
			Humidity:    raw.Current.Humidity,
			Description: description,
		},
		Raw: body,
	}, nil
}
