package types

import (
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/pkg/valueobjects"
	"github.com/google/uuid"
)

// SubscriptionStatus is the lifecycle state of a stored subscriber.
type SubscriptionStatus string

const (
	SubscriptionStatusPendingConfirmation SubscriptionStatus = "pending_confirmation"
)

// SubscriptionRequest is the inbound payload for POST /subscriptions.
// Fields are raw and untrusted; they are validated into a NewSubscriber.
type SubscriptionRequest struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
}

// NewSubscriber is a subscriber whose identity has already been validated.
type NewSubscriber struct {
	Email valueobjects.SubscriberEmail
	Name  valueobjects.SubscriberName
}

// NewSubscriberFrom builds a NewSubscriber from validated parts.
func NewSubscriberFrom(email valueobjects.SubscriberEmail, name valueobjects.SubscriberName) NewSubscriber {
	return NewSubscriber{Email: email, Name: name}
}

// ParseNewSubscriber validates a raw request. Name errors take precedence over email errors.
func ParseNewSubscriber(req SubscriptionRequest) (NewSubscriber, error) {
	name, err := valueobjects.ParseSubscriberName(req.Name)
	if err != nil {
		return NewSubscriber{}, err
	}
	email, err := valueobjects.ParseSubscriberEmail(req.Email)
	if err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriberFrom(email, name), nil
}

// Subscriber is the row handed to the subscription store.
type Subscriber struct {
	ID           uuid.UUID          `json:"id"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	SubscribedAt time.Time          `json:"subscribed_at"`
	Status       SubscriptionStatus `json:"status"`
}
