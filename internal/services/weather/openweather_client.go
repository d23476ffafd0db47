package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/rs/zerolog"
)

const OpenWeatherMapName = "openweathermap.org"

type openWeatherResponse struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// ClientOpenWeatherMap fetches weather data from OpenWeatherMap API.
type ClientOpenWeatherMap struct {
	apiKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenWeatherMap constructs a new OpenWeatherMap client.
func NewClientOpenWeatherMap(apiKey, apiURL string,
	httpClient HTTPClient, logger zerolog.Logger,
) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{
		apiKey: apiKey,
		apiURL: apiURL,
		client: httpClient,
		logger: logger.With().Str("component", "ClientOpenWeatherMap").Logger(),
	}
}

func (c *ClientOpenWeatherMap) Name() string { return OpenWeatherMapName }

// Fetch retrieves metric weather data for a given city.
func (c *ClientOpenWeatherMap) Fetch(ctx context.Context, city string) (models.ProviderResult, error) {
	c.logger.Debug().
		Ctx(ctx).
		Str("city", city).
		Msg("starting OpenWeatherMap request")

	body, err := getRaw(ctx, c.client, c.logger, c.apiURL, url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {"metric"},
	})
	if err != nil {
		return models.ProviderResult{}, err
	}

	var raw openWeatherResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.ProviderResult{}, fmt.Errorf("decode %s response: %w", OpenWeatherMapName, err)
	}

	if raw.Main == nil {
		return models.ProviderResult{}, fmt.Errorf("%s: %w", OpenWeatherMapName, models.ErrNoData)
	}

	description := models.UnknownDescription
	if len(raw.Weather) > 0 && raw.Weather[0].Description != "" {
		description = raw.Weather[0].Description
	}

	return models.ProviderResult{
		Weather: models.WeatherData{
			Temperature: raw.Main.Temp,
			Humidity:    raw.Main.Humidity,
			Description: description,
		},
		Raw: body,
	}, nil
}
