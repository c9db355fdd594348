package handlers

import (
	"context"

	"github.com/NomadCrew/nomad-crew-newsletter/pkg/valueobjects"
	"github.com/NomadCrew/nomad-crew-newsletter/services"
	"github.com/NomadCrew/nomad-crew-newsletter/types"
	"github.com/stretchr/testify/mock"
)

// MockSubscriptionService implements SubscriptionServiceInterface for handler tests.
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Subscribe(ctx context.Context, rawName, rawEmail string) services.SubscriptionResult {
	args := m.Called(ctx, rawName, rawEmail)
	return args.Get(0).(services.SubscriptionResult)
}

// MockHealthService implements HealthServiceInterface for handler tests.
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	args := m.Called(ctx)
	return args.Get(0).(types.HealthCheck)
}

// MockSubscriptionStore backs a real services.SubscriptionService in handler tests.
type MockSubscriptionStore struct {
	mock.Mock
}

func (m *MockSubscriptionStore) Insert(ctx context.Context, sub *types.Subscriber) error {
	return m.Called(ctx, sub).Error(0)
}

// MockEmailSender records dispatch attempts.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, recipient valueobjects.SubscriberEmail, subject, htmlContent, textContent string) error {
	return m.Called(ctx, recipient, subject, htmlContent, textContent).Error(0)
}

