package emailer

import (
	"net/smtp"
	"strings"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/config"
	"github.com/rs/zerolog"
)

type errorRecorder interface {
	TechnicalError(errorType string)
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPService wraps smtp.SendMail with structured logging and metrics.
type SMTPService struct {
	user     string
	host     string
	port     string
	password string
	From     string
	logger   zerolog.Logger
	m        errorRecorder
	sendMail sendMailFunc
}

// NewSMTPService creates an SMTPService with a scoped logger and metrics.
func NewSMTPService(cfg config.Email, logger zerolog.Logger, m errorRecorder) *SMTPService {
	logger = logger.With().Str("component", "SMTPService").Logger()
	return &SMTPService{
		user:     cfg.User,
		host:     cfg.Host,
		port:     cfg.Port,
		password: cfg.Password,
		From:     cfg.From,
		logger:   logger,
		m:        m,
		sendMail: smtp.SendMail,
	}
}

func buildMessage(from, to, subject, additionalHeaders, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	if additionalHeaders != "" {
		b.WriteString(additionalHeaders + "\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Send sends an email and records logs + metrics.
func (e *SMTPService) Send(to, subject, additionalHeaders, body string) error {
	start := time.Now()
	e.logger.Debug().
		Str("to", to).
		Str("subject", subject).
		Msg("sending email")

	// local relays such as mailhog run without auth
	var auth smtp.Auth
	if e.user != "" {
		auth = smtp.PlainAuth("", e.user, e.password, e.host)
	}

	msg := buildMessage(e.From, to, subject, additionalHeaders, body)
	err := e.sendMail(e.host+":"+e.port, auth, e.From, []string{to}, msg)
	duration := time.Since(start)

	if err != nil {
		e.logger.Error().
			Err(err).
			Str("to", to).
			Str("subject", subject).
			Dur("duration", duration).
			Msg("email send failed")
		e.m.TechnicalError("smtp_send_error")
		return err
	}

	e.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Dur("duration", duration).
		Msg("email sent successfully")
	return nil
}
