package handlers

import (
	"context"

	"github.com/NomadCrew/nomad-crew-newsletter/services"
	"github.com/NomadCrew/nomad-crew-newsletter/types"
)

// SubscriptionServiceInterface defines the subscription workflow used by handlers.
type SubscriptionServiceInterface interface {
	Subscribe(ctx context.Context, rawName, rawEmail string) services.SubscriptionResult
}

// HealthServiceInterface defines the health checks used by handlers.
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}
