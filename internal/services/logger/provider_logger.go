package logger

import (
	"encoding/json"

	"go.uber.org/zap"
)

const (
	typeResponse = "response"
	typeError    = "error"
)

// ProviderLogger appends one JSON line per provider attempt.
type ProviderLogger struct {
	logger *zap.Logger
}

func NewProviderLogger(logger *zap.Logger) *ProviderLogger {
	return &ProviderLogger{logger: logger}
}

func (p *ProviderLogger) LogResponse(provider, city string, raw json.RawMessage) {
	data := zap.Reflect("data", raw)
	if !json.Valid(raw) {
		data = zap.ByteString("data", raw)
	}
	p.logger.Info("provider response",
		zap.String("provider", provider),
		zap.String("city", city),
		zap.String("type", typeResponse),
		data,
	)
}

func (p *ProviderLogger) LogFailure(provider, city string, err error) {
	p.logger.Warn("provider failure",
		zap.String("provider", provider),
		zap.String("city", city),
		zap.String("type", typeError),
		zap.Error(err),
	)
}

func (p *ProviderLogger) Sync() error {
	return p.logger.Sync()
}
