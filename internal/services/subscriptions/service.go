package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultCommitTimeout = 30 * time.Second

type SubscriptionRepository interface {
	FindByEmail(ctx context.Context, email string) (models.Subscription, error)
	FindByConfirmationToken(ctx context.Context, token string) (models.Subscription, error)
	FindByUnsubscribeToken(ctx context.Context, token string) (models.Subscription, error)
	Create(ctx context.Context, data models.NewSubscription) (models.Subscription, error)
	Update(ctx context.Context, id int64, upd models.SubscriptionUpdate) error
	Delete(ctx context.Context, id int64) error
}

type weatherGetter interface {
	GetByCity(ctx context.Context, city string) (models.WeatherData, error)
}

type ConfirmationEmailer interface {
	SendConfirmation(ctx context.Context, to string, data models.ConfirmationEmailData) error
}

// TokenGenerator returns a fresh unguessable token.
type TokenGenerator func() (string, error)

func UUIDTokens() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type Option func(*Service)

func WithTokenGenerator(gen TokenGenerator) Option {
	return func(s *Service) { s.newToken = gen }
}

func WithCommitTimeout(d time.Duration) Option {
	return func(s *Service) { s.commitTimeout = d }
}

// Service drives a subscription through unconfirmed, confirmed and deleted.
type Service struct {
	repo          SubscriptionRepository
	weather       weatherGetter
	emailer       ConfirmationEmailer
	appURL        string
	newToken      TokenGenerator
	commitTimeout time.Duration
	logger        zerolog.Logger
	m             *metrics.Metrics
}

func NewService(
	repo SubscriptionRepository,
	weather weatherGetter,
	emailer ConfirmationEmailer,
	appURL string,
	logger zerolog.Logger,
	m *metrics.Metrics,
	opts ...Option,
) *Service {
	s := &Service{
		repo:          repo,
		weather:       weather,
		emailer:       emailer,
		appURL:        appURL,
		newToken:      UUIDTokens,
		commitTimeout: defaultCommitTimeout,
		logger:        logger.With().Str("component", "SubscriptionService").Logger(),
		m:             m,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe creates an unconfirmed subscription and mails its confirmation link.
// If the email cannot be sent the row is removed and the send error is returned.
func (s *Service) Subscribe(ctx context.Context, data models.UserSubData) error {
	if !data.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", models.ErrValidation, data.Frequency)
	}

	_, err := s.repo.FindByEmail(ctx, data.Email)
	switch {
	case err == nil:
		s.m.BusinessError("subscription_exists")
		return models.ErrDuplicateSubscription
	case !errors.Is(err, models.ErrSubscriptionNotFound):
		return fmt.Errorf("lookup subscription: %w", err)
	}

	if _, err := s.weather.GetByCity(ctx, data.City); err != nil {
		s.logger.Info().
			Ctx(ctx).
			Str("city", data.City).
			Err(err).
			Msg("rejecting subscription for unresolvable city")
		s.m.BusinessError("city_not_found")
		return fmt.Errorf("%w: %w", models.ErrCityNotFound, err)
	}

	confirmToken, err := s.newToken()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	unsubToken, err := s.newToken()
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	// the caller going away must not leave a row without its email
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.commitTimeout)
	defer cancel()

	sub, err := s.repo.Create(commitCtx, models.NewSubscription{
		Email:             data.Email,
		City:              data.City,
		Frequency:         data.Frequency,
		ConfirmationToken: confirmToken,
		UnsubscribeToken:  unsubToken,
	})
	if errors.Is(err, models.ErrDuplicateKey) {
		s.m.BusinessError("subscription_exists")
		return models.ErrDuplicateSubscription
	}
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	err = s.emailer.SendConfirmation(commitCtx, data.Email, models.ConfirmationEmailData{
		Token:  confirmToken,
		AppURL: s.appURL,
	})
	if err != nil {
		s.rollback(ctx, sub, err)
		return err
	}

	s.m.SubscriptionsCreated.WithLabelValues(string(data.Frequency)).Inc()
	s.logger.Info().
		Ctx(ctx).
		Int64("id", sub.ID).
		Str("city", data.City).
		Str("frequency", string(data.Frequency)).
		Msg("subscription created, confirmation sent")
	return nil
}

// rollback deletes sub on its own deadline; the send may have used up the commit window.
func (s *Service) rollback(ctx context.Context, sub models.Subscription, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.commitTimeout)
	defer cancel()

	s.logger.Warn().
		Ctx(ctx).
		Int64("id", sub.ID).
		Err(cause).
		Msg("confirmation email failed, deleting subscription")

	if err := s.repo.Delete(ctx, sub.ID); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Int64("id", sub.ID).
			Err(err).
			Msg("compensating delete failed")
		s.m.TechnicalError("rollback_delete_error")
		return
	}
	s.m.SubscriptionsRolledBack.Inc()
}

func (s *Service) Confirm(ctx context.Context, token string) error {
	sub, err := s.repo.FindByConfirmationToken(ctx, token)
	if err != nil {
		return s.tokenError(err)
	}

	confirmed := true
	err = s.repo.Update(ctx, sub.ID, models.SubscriptionUpdate{
		Confirmed:              &confirmed,
		ClearConfirmationToken: true,
	})
	if err != nil {
		return s.tokenError(err)
	}

	s.m.SubscriptionsConfirmed.Inc()
	s.logger.Info().Ctx(ctx).Int64("id", sub.ID).Msg("subscription confirmed")
	return nil
}

func (s *Service) Unsubscribe(ctx context.Context, token string) error {
	sub, err := s.repo.FindByUnsubscribeToken(ctx, token)
	if err != nil {
		return s.tokenError(err)
	}

	if err := s.repo.Delete(ctx, sub.ID); err != nil {
		return s.tokenError(err)
	}

	s.m.SubscriptionsCanceled.Inc()
	s.logger.Info().Ctx(ctx).Int64("id", sub.ID).Msg("subscription deleted")
	return nil
}

// tokenError maps a store miss, including one caused by a racing delete, to ErrTokenNotFound.
func (s *Service) tokenError(err error) error {
	if errors.Is(err, models.ErrSubscriptionNotFound) {
		s.m.BusinessError("token_not_found")
		return models.ErrTokenNotFound
	}
	return err
}
