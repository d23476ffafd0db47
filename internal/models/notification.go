package models

type NotificationJob struct {
	Email            string `json:"email"`
	City             string `json:"city"`
	UnsubscribeToken string `json:"unsubscribeToken"`
	AppURL           string `json:"appUrl"`
}

type ConfirmationEmailData struct {
	Token  string
	AppURL string
}

type WeatherUpdateEmailData struct {
	City             string
	Weather          WeatherData
	UnsubscribeToken string
	AppURL           string
}
