package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/rs/zerolog"
)

const WeatherBitName = "weatherbit.io"

type weatherBitResponse struct {
	Data []struct {
		Temp    float64 `json:"temp"`
		RH      float64 `json:"rh"`
		Weather struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"data"`
}

type ClientWeatherBit struct {
	apiKey string
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

func NewClientWeatherBit(apiKey, apiURL string, httpClient HTTPClient, logger zerolog.Logger) *ClientWeatherBit {
	return &ClientWeatherBit{
		apiKey: apiKey,
		apiURL: apiURL,
		client: httpClient,
		logger: logger.With().Str("component", "ClientWeatherBit").Logger(),
	}
}

func (c *ClientWeatherBit) Name() string { return WeatherBitName }

func (c *ClientWeatherBit) Fetch(ctx context.Context, city string) (models.ProviderResult, error) {
	body, err := getRaw(ctx, c.client, c.logger, c.apiURL, url.Values{
		"city": {city},
		"key":  {c.apiKey},
	})
	if err != nil {
		return models.ProviderResult{}, err
	}

	var raw weatherBitResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.ProviderResult{}, fmt.Errorf("decode %s response: %w", WeatherBitName, err)
	}
	if len(raw.Data) == 0 {
		return models.ProviderResult{}, models.ErrNoData
	}

	description := raw.Data[0].Weather.Description
	if description == "" {
		description = models.UnknownDescription
	}

	return models.ProviderResult{
		Weather: models.WeatherData{
			Temperature: raw.Data[0].Temp,
			Humidity:    raw.Data[0].RH,
			Description: description,
		},
		Raw: body,
	}, nil
}
