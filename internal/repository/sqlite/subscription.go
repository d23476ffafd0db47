package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nazarious-ucu/weather-updates/internal/metrics"
	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const selectColumns = `id, email, city, frequency, confirmed, confirmation_token,
	unsubscribe_token, created_at, updated_at`

// SubscriptionRepository handles CRUD operations on subscriptions with structured logging and metrics.
type SubscriptionRepository struct {
	DB  *sql.DB
	log zerolog.Logger
	m   *metrics.Metrics
	now func() time.Time
}

// NewSubscriptionRepository constructs a repository with logger context and metrics collector.
func NewSubscriptionRepository(
	db *sql.DB,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *SubscriptionRepository {
	logger = logger.With().Str("component", "SubscriptionRepository").Logger()
	return &SubscriptionRepository{
		DB:  db,
		log: logger,
		m:   m,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (models.Subscription, error) {
	var (
		sub   models.Subscription
		token sql.NullString
	)
	err := row.Scan(
		&sub.ID, &sub.Email, &sub.City, &sub.Frequency, &sub.Confirmed,
		&token, &sub.UnsubscribeToken, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return models.Subscription{}, err
	}
	if token.Valid {
		sub.ConfirmationToken = &token.String
	}
	return sub, nil
}

func (r *SubscriptionRepository) findOne(
	ctx context.Context,
	column, value string,
) (models.Subscription, error) {
	start := time.Now()
	//nolint:gosec // column is one of the fixed lookup columns below
	query := `SELECT ` + selectColumns + ` FROM subscriptions WHERE ` + column + ` = ?`

	sub, err := scanSubscription(r.DB.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		r.log.Debug().Ctx(ctx).
			Str("by", column).
			Msg("subscription not found")
		return models.Subscription{}, models.ErrSubscriptionNotFound
	}
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Str("by", column).
			Msg("failed to query subscription")
		r.m.TechnicalError("db_query_error")
		return models.Subscription{}, err
	}

	r.log.Debug().Ctx(ctx).
		Str("by", column).
		Int64("id", sub.ID).
		Dur("duration", time.Since(start)).
		Msg("subscription found")
	return sub, nil
}

func (r *SubscriptionRepository) FindByEmail(ctx context.Context, email string) (models.Subscription, error) {
	return r.findOne(ctx, "email", email)
}

func (r *SubscriptionRepository) FindByConfirmationToken(
	ctx context.Context,
	token string,
) (models.Subscription, error) {
	return r.findOne(ctx, "confirmation_token", token)
}

func (r *SubscriptionRepository) FindByUnsubscribeToken(
	ctx context.Context,
	token string,
) (models.Subscription, error) {
	return r.findOne(ctx, "unsubscribe_token", token)
}

// Create inserts an unconfirmed subscription. A unique violation yields models.ErrDuplicateKey.
func (r *SubscriptionRepository) Create(
	ctx context.Context,
	data models.NewSubscription,
) (models.Subscription, error) {
	start := time.Now()
	now := r.now()

	r.log.Info().Ctx(ctx).
		Str("email", data.Email).
		Str("city", data.City).
		Msg("inserting new subscription record")

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO subscriptions
		    (email, city, frequency, confirmed, confirmation_token, unsubscribe_token, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?, ?, ?)`,
		data.Email, data.City, string(data.Frequency),
		data.ConfirmationToken, data.UnsubscribeToken, now, now,
	)
	dur := time.Since(start)
	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warn().Ctx(ctx).
				Str("email", data.Email).
				Msg("subscription already exists, abort create")
			r.m.BusinessError("subscription_exists")
			return models.Subscription{}, models.ErrDuplicateKey
		}
		r.log.Error().Err(err).Ctx(ctx).
			Dur("duration", dur).
			Msg("failed to insert subscription")
		r.m.TechnicalError("db_insert_error")
		return models.Subscription{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		r.m.TechnicalError("db_insert_error")
		return models.Subscription{}, err
	}

	token := data.ConfirmationToken
	r.log.Info().Ctx(ctx).
		Int64("id", id).
		Str("email", data.Email).
		Dur("duration", dur).
		Msg("subscription created successfully")

	return models.Subscription{
		ID:                id,
		Email:             data.Email,
		City:              data.City,
		Frequency:         data.Frequency,
		Confirmed:         false,
		ConfirmationToken: &token,
		UnsubscribeToken:  data.UnsubscribeToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Update applies upd to the row id in a single statement.
func (r *SubscriptionRepository) Update(
	ctx context.Context,
	id int64,
	upd models.SubscriptionUpdate,
) error {
	if upd.Empty() {
		return fmt.Errorf("%w: empty update", models.ErrValidation)
	}
	start := time.Now()

	var (
		sets []string
		args []any
	)
	if upd.City != nil {
		sets = append(sets, "city = ?")
		args = append(args, *upd.City)
	}
	if upd.Frequency != nil {
		sets = append(sets, "frequency = ?")
		args = append(args, string(*upd.Frequency))
	}
	if upd.Confirmed != nil {
		sets = append(sets, "confirmed = ?")
		args = append(args, *upd.Confirmed)
	}
	switch {
	case upd.ClearConfirmationToken:
		sets = append(sets, "confirmation_token = NULL")
	case upd.ConfirmationToken != nil:
		sets = append(sets, "confirmation_token = ?")
		args = append(args, *upd.ConfirmationToken)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.now(), id)

	//nolint:gosec // clauses are built from fixed column names
	query := `UPDATE subscriptions SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicateKey
		}
		r.log.Error().Err(err).Ctx(ctx).
			Int64("id", id).
			Msg("failed to execute subscription update")
		r.m.TechnicalError("db_update_error")
		return err
	}

	return r.requireAffected(ctx, res, id, "update", time.Since(start))
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	res, err := r.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Int64("id", id).
			Msg("failed to delete subscription")
		r.m.TechnicalError("db_delete_error")
		return err
	}

	return r.requireAffected(ctx, res, id, "delete", time.Since(start))
}

func (r *SubscriptionRepository) requireAffected(
	ctx context.Context,
	res sql.Result,
	id int64,
	op string,
	dur time.Duration,
) error {
	count, err := res.RowsAffected()
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Int64("id", id).
			Msg("failed to get rows affected")
		r.m.TechnicalError("db_rows_error")
		return err
	}
	if count == 0 {
		return models.ErrSubscriptionNotFound
	}

	r.log.Info().Ctx(ctx).
		Int64("id", id).
		Str("op", op).
		Dur("duration", dur).
		Msg("subscription " + op + " completed")
	return nil
}

// GetConfirmedByFrequency retrieves all confirmed subscriptions with the given frequency.
func (r *SubscriptionRepository) GetConfirmedByFrequency(
	ctx context.Context, frequency models.Frequency,
) ([]models.Subscription, error) {
	start := time.Now()
	r.log.Debug().Ctx(ctx).Str("frequency", string(frequency)).Msg("querying confirmed subscriptions by frequency")

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+selectColumns+`
		FROM subscriptions
		WHERE confirmed = 1 AND frequency = ?
		ORDER BY id`, string(frequency),
	)
	if err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Str("frequency", string(frequency)).
			Msg("failed to query subscriptions by frequency")
		r.m.TechnicalError("db_query_error")
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error().Err(err).Ctx(ctx).
				Msg("failed to close rows after query")
			r.m.TechnicalError("db_rows_close_error")
		}
	}(rows)

	var subs []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			r.log.Error().Err(err).Ctx(ctx).
				Msg("failed to scan subscription row")
			r.m.TechnicalError("db_scan_error")
			return nil, err
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		r.log.Error().Err(err).Ctx(ctx).
			Msg("row iteration error")
		r.m.TechnicalError("db_rows_error")
		return nil, err
	}

	r.log.Info().Ctx(ctx).
		Str("frequency", string(frequency)).
		Int("count", len(subs)).
		Dur("duration", time.Since(start)).
		Msg("retrieved confirmed subscriptions")
	return subs, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
