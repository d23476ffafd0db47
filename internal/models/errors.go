package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream error")
)

var (
	ErrDuplicateSubscription = fmt.Errorf("%w: email already subscribed", ErrConflict)
	ErrCityNotFound          = fmt.Errorf("%w: city", ErrNotFound)
	ErrTokenNotFound         = fmt.Errorf("%w: token", ErrNotFound)
	ErrAllProvidersFailed    = fmt.Errorf("%w: all weather providers failed", ErrNotFound)

	// ErrNoData is returned by a provider that answered without usable data.
	ErrNoData = errors.New("provider returned no data")

	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrDuplicateKey         = errors.New("duplicate key")

	ErrCacheMiss = errors.New("cache miss")
)

type AllProvidersFailedError struct {
	City string
}

func (e *AllProvidersFailedError) Error() string {
	return "all weather providers failed for city: " + e.City
}

func (e *AllProvidersFailedError) Unwrap() error {
	return ErrAllProvidersFailed
}
