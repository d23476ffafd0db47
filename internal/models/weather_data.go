package models

import "encoding/json"

const UnknownDescription = "Unknown"

// WeatherData is the provider-independent weather reading.
type WeatherData struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
}

// ProviderResult pairs normalized data with the provider's raw payload.
type ProviderResult struct {
	Weather WeatherData
	Raw     json.RawMessage
}

func (r ProviderResult) Empty() bool {
	return r.Weather == (WeatherData{}) && len(r.Raw) == 0
}
