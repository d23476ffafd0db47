package subscriptions_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Nazarious-ucu/weather-updates/internal/models"
	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory store enforcing the same uniqueness and
// token invariants as the sqlite schema.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]models.Subscription
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64]models.Subscription{}}
}

func (s *memStore) find(match func(models.Subscription) bool) (models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if match(r) {
			return r, nil
		}
	}
	return models.Subscription{}, models.ErrSubscriptionNotFound
}

func (s *memStore) FindByEmail(_ context.Context, email string) (models.Subscription, error) {
	return s.find(func(r models.Subscription) bool { return r.Email == email })
}

func (s *memStore) FindByConfirmationToken(_ context.Context, token string) (models.Subscription, error) {
	return s.find(func(r models.Subscription) bool {
		return r.ConfirmationToken != nil && *r.ConfirmationToken == token
	})
}

func (s *memStore) FindByUnsubscribeToken(_ context.Context, token string) (models.Subscription, error) {
	return s.find(func(r models.Subscription) bool { return r.UnsubscribeToken == token })
}

func (s *memStore) Create(_ context.Context, d models.NewSubscription) (models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Email == d.Email {
			return models.Subscription{}, models.ErrDuplicateKey
		}
	}
	s.nextID++
	token := d.ConfirmationToken
	row := models.Subscription{
		ID:                s.nextID,
		Email:             d.Email,
		City:              d.City,
		Frequency:         d.Frequency,
		ConfirmationToken: &token,
		UnsubscribeToken:  d.UnsubscribeToken,
	}
	s.rows[row.ID] = row
	return row, nil
}

func (s *memStore) Update(_ context.Context, id int64, upd models.SubscriptionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return models.ErrSubscriptionNotFound
	}
	if upd.Confirmed != nil {
		r.Confirmed = *upd.Confirmed
	}
	if upd.ClearConfirmationToken {
		r.ConfirmationToken = nil
	}
	if r.Confirmed != (r.ConfirmationToken == nil) {
		return errors.New("check constraint failed")
	}
	s.rows[id] = r
	return nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.rows[id]; !ok {
		return models.ErrSubscriptionNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// racingStore pretends the row was deleted between lookup and mutation.
type racingStore struct {
	*memStore
}

func (s racingStore) Update(context.Context, int64, models.SubscriptionUpdate) error {
	return models.ErrSubscriptionNotFound
}

func (s racingStore) Delete(context.Context, int64) error {
	return models.ErrSubscriptionNotFound
}

// dupOnCreateStore misses on lookup but reports a unique violation on insert.
type dupOnCreateStore struct {
	*memStore
}

func (s dupOnCreateStore) Create(context.Context, models.NewSubscription) (models.Subscription, error) {
	return models.Subscription{}, models.ErrDuplicateKey
}

type mockWeather struct {
	mock.Mock
}

func (m *mockWeather) GetByCity(ctx context.Context, city string) (models.WeatherData, error) {
	args := m.Called(ctx, city)
	data, ok := args.Get(0).(models.WeatherData)
	if !ok {
		return models.WeatherData{}, args.Error(1)
	}
	return data, args.Error(1)
}

type mockEmailer struct {
	mock.Mock
}

func (m *mockEmailer) SendConfirmation(ctx context.Context, to string, data models.ConfirmationEmailData) error {
	args := m.Called(ctx, to, data)
	return args.Error(0)
}

func sequentialTokens() func() (string, error) {
	var n atomic.Int64
	return func() (string, error) {
		return "tok-" + strconv.FormatInt(n.Add(1), 10), nil
	}
}
