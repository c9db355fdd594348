package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/NomadCrew/nomad-crew-newsletter/pkg/valueobjects"
	"github.com/NomadCrew/nomad-crew-newsletter/store"
	"github.com/NomadCrew/nomad-crew-newsletter/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const confirmationSubject = "Welcome!"

// EmailSender is implemented by emailclient.Client and emailclient.ResendClient.
type EmailSender interface {
	SendEmail(ctx context.Context, recipient valueobjects.SubscriberEmail, subject, htmlContent, textContent string) error
}

// TokenGenerator produces the token embedded in confirmation links.
type TokenGenerator interface {
	Generate() string
}

// UUIDTokenGenerator issues 32 hex character tokens from random UUIDs.
type UUIDTokenGenerator struct{}

func (UUIDTokenGenerator) Generate() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Outcome is the terminal state of a subscription attempt.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota + 1
	// OutcomeRejected means the input failed validation. Nothing was stored or sent.
	OutcomeRejected
	// OutcomeFailed means persistence or dispatch failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SubscriptionResult carries the outcome and, unless it succeeded, the cause.
// Err is a *valueobjects.ValidationError for OutcomeRejected, and a
// *PersistenceError or *emailclient.DispatchError for OutcomeFailed.
type SubscriptionResult struct {
	Outcome Outcome
	Err     error
}

// PersistenceError wraps a failed insert.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist subscriber: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsDuplicate reports whether the insert hit the unique email constraint.
func (e *PersistenceError) IsDuplicate() bool {
	return errors.Is(e.Err, store.ErrConflict)
}

// SubscriptionService validates, stores and notifies new subscribers.
type SubscriptionService struct {
	store   store.SubscriptionStore
	sender  EmailSender
	baseURL string
	tokens  TokenGenerator
	now     func() time.Time
	log     *zap.SugaredLogger
}

// NewSubscriptionService wires the workflow. baseURL is the public address
// confirmation links point at.
func NewSubscriptionService(subscriptions store.SubscriptionStore, sender EmailSender, baseURL string) *SubscriptionService {
	return &SubscriptionService{
		store:   subscriptions,
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  UUIDTokenGenerator{},
		now:     time.Now,
		log:     logger.GetLogger(),
	}
}

// Subscribe runs the workflow exactly once. The row is written before the
// email is sent and is kept when sending fails.
func (s *SubscriptionService) Subscribe(ctx context.Context, rawName, rawEmail string) SubscriptionResult {
	newSubscriber, err := types.ParseNewSubscriber(types.SubscriptionRequest{Name: rawName, Email: rawEmail})
	if err != nil {
		var validationErr *valueobjects.ValidationError
		if errors.As(err, &validationErr) {
			s.log.Infow("Rejected subscription request", "field", validationErr.Field, "reason", validationErr.Reason)
		}
		return SubscriptionResult{Outcome: OutcomeRejected, Err: err}
	}

	maskedEmail := logger.MaskEmail(newSubscriber.Email.String())
	subscriber := &types.Subscriber{
		ID:           uuid.New(),
		Email:        newSubscriber.Email.String(),
		Name:         newSubscriber.Name.String(),
		SubscribedAt: s.now().UTC(),
		Status:       types.SubscriptionStatusPendingConfirmation,
	}

	if err := s.store.Insert(ctx, subscriber); err != nil {
		s.log.Errorw("Failed to save new subscriber",
			"subscriber_id", subscriber.ID,
			"email", maskedEmail,
			"error", err)
		return SubscriptionResult{Outcome: OutcomeFailed, Err: &PersistenceError{Err: err}}
	}

	// TODO: store the token in subscription_tokens and serve GET /subscriptions/confirm.
	link := s.confirmationLink(s.tokens.Generate())
	if err := s.sender.SendEmail(ctx, newSubscriber.Email, confirmationSubject, confirmationHTML(link), confirmationText(link)); err != nil {
		s.log.Errorw("Failed to send confirmation email",
			"subscriber_id", subscriber.ID,
			"email", maskedEmail,
			"error", err)
		return SubscriptionResult{Outcome: OutcomeFailed, Err: err}
	}

	s.log.Infow("New subscriber saved and confirmation email sent",
		"subscriber_id", subscriber.ID,
		"email", maskedEmail)
	return SubscriptionResult{Outcome: OutcomeSucceeded}
}

func (s *SubscriptionService) confirmationLink(token string) string {
	query := url.Values{"subscription_token": []string{token}}
	return s.baseURL + "/subscriptions/confirm?" + query.Encode()
}

func confirmationHTML(link string) string {
	return fmt.Sprintf(`Welcome to our newsletter!<br />Click <a href="%s">here</a> to confirm your subscription.`, link)
}

func confirmationText(link string) string {
	return fmt.Sprintf("Welcome to our newsletter!\nVisit %s to confirm your subscription.", link)
}
