package models

import "time"

type Frequency string

const (
	FrequencyHourly Frequency = "hourly"
	FrequencyDaily  Frequency = "daily"
)

func (f Frequency) Valid() bool {
	return f == FrequencyHourly || f == FrequencyDaily
}

type State string

const (
	StateUnconfirmed State = "unconfirmed"
	StateConfirmed   State = "confirmed"
)

// Subscription is a stored subscriber row. ConfirmationToken is non-nil
// exactly while Confirmed is false.
type Subscription struct {
	ID                int64
	Email             string
	City              string
	Frequency         Frequency
	Confirmed         bool
	ConfirmationToken *string
	UnsubscribeToken  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s Subscription) State() State {
	if s.Confirmed {
		return StateConfirmed
	}
	return StateUnconfirmed
}

// NewSubscription carries the fields needed to persist an unconfirmed row.
type NewSubscription struct {
	Email             string
	City              string
	Frequency         Frequency
	ConfirmationToken string
	UnsubscribeToken  string
}

// SubscriptionUpdate is a partial update; nil fields are left untouched.
type SubscriptionUpdate struct {
	City                   *string
	Frequency              *Frequency
	Confirmed              *bool
	ConfirmationToken      *string
	ClearConfirmationToken bool
}

func (u SubscriptionUpdate) Empty() bool {
	return u.City == nil && u.Frequency == nil && u.Confirmed == nil &&
		u.ConfirmationToken == nil && !u.ClearConfirmationToken
}
