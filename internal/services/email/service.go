package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/rs/zerolog"
)

const (
	confirmSubject = "Confirm your weather subscription"
	htmlHeaders    = "MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\""
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type Emailer interface {
	Send(to, subject, additionalHeaders, body string) error
}

// Service renders notification emails and hands them to the transport.
type Service struct {
	emailer Emailer
	logger  zerolog.Logger
}

func NewService(emailer Emailer, logger zerolog.Logger) *Service {
	return &Service{
		emailer: emailer,
		logger:  logger.With().Str("component", "EmailService").Logger(),
	}
}

func ConfirmURL(appURL, token string) string {
	return strings.TrimRight(appURL, "/") + "/api/confirm/" + token
}

func UnsubscribeURL(appURL, token string) string {
	return strings.TrimRight(appURL, "/") + "/api/unsubscribe/" + token
}

func (s *Service) SendConfirmation(ctx context.Context, to string, data models.ConfirmationEmailData) error {
	body, err := render("confirm_email.html", map[string]string{
		"ConfirmURL": ConfirmURL(data.AppURL, data.Token),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, to, confirmSubject, body)
}

func (s *Service) SendWeatherUpdate(ctx context.Context, to string, data models.WeatherUpdateEmailData) error {
	body, err := render("weather_update.html", struct {
		City           string
		Weather        models.WeatherData
		UnsubscribeURL string
	}{
		City:           data.City,
		Weather:        data.Weather,
		UnsubscribeURL: UnsubscribeURL(data.AppURL, data.UnsubscribeToken),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, to, "Weather Update for "+data.City, body)
}

func (s *Service) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		s.logger.Warn().
			Ctx(ctx).
			Str("to", to).
			Err(err).
			Msg("context done before sending email")
		return err
	}
	if err := s.emailer.Send(to, subject, htmlHeaders, body); err != nil {
		return fmt.Errorf("%w: send email: %w", models.ErrUpstream, err)
	}
	return nil
}

func render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return body.String(), nil
}
