package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/NomadCrew/nomad-crew-newsletter/errors"
	"github.com/NomadCrew/nomad-crew-newsletter/pkg/valueobjects"
	"github.com/NomadCrew/nomad-crew-newsletter/services"
	"github.com/NomadCrew/nomad-crew-newsletter/types"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler serves the public newsletter sign-up endpoint.
type SubscriptionHandler struct {
	subscriptionService SubscriptionServiceInterface
}

func NewSubscriptionHandler(subscriptionService SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Subscribe godoc
// @Summary      Subscribe to the newsletter
// @Description  Validates the subscriber, stores it as pending confirmation and sends a confirmation email
// @Tags         subscriptions
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        body  body      types.SubscriptionRequest  true  "Subscriber name and email"
// @Success      200   {object}  types.StatusResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      429   {object}  types.ErrorResponse
// @Failure      500   {object}  types.ErrorResponse
// @Router       /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req types.SubscriptionRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(errors.ValidationFailed("invalid_request_payload", "request body could not be parsed"))
		return
	}

	result := h.subscriptionService.Subscribe(c.Request.Context(), req.Name, req.Email)

	switch result.Outcome {
	case services.OutcomeSucceeded:
		c.JSON(http.StatusOK, types.StatusResponse{Status: string(types.SubscriptionStatusPendingConfirmation)})
	case services.OutcomeRejected:
		_ = c.Error(errors.ValidationFailed("validation_failed", validationDetail(result.Err)))
	default:
		var persistenceErr *services.PersistenceError
		if stderrors.As(result.Err, &persistenceErr) {
			_ = c.Error(errors.NewDatabaseError(result.Err))
			return
		}
		_ = c.Error(errors.EmailDeliveryFailed(result.Err))
	}
}

// validationDetail names the offending field and the rule it broke, never the
// submitted value.
func validationDetail(err error) string {
	var validationErr *valueobjects.ValidationError
	if stderrors.As(err, &validationErr) {
		return validationErr.Field + ": " + validationErr.Reason.Error()
	}
	return "invalid subscriber"
}
