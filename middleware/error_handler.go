package middleware

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/NomadCrew/nomad-crew-newsletter/errors"
	"github.com/NomadCrew/nomad-crew-newsletter/logger"
	"github.com/NomadCrew/nomad-crew-newsletter/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached with c.Error as a JSON
// types.ErrorResponse. Request input is never echoed back.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		err := last.Err

		var appError *errors.AppError
		if stderrors.As(err, &appError) {
			statusCode := appError.GetHTTPStatus()

			logErr := error(appError)
			if appError.Raw != nil {
				logErr = appError.Raw
			}
			logger.LogHTTPError(c, logErr, statusCode, string(appError.Type)+" error")

			response := types.ErrorResponse{
				Type:    string(appError.Type),
				Message: appError.Message,
				Code:    strconv.Itoa(statusCode),
			}
			// Details only for validation errors or in debug mode.
			if appError.Detail != "" && (gin.IsDebugging() || appError.Type == errors.ValidationError) {
				response.Details = appError.Detail
			}

			c.JSON(statusCode, response)
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Type:    string(errors.ValidationError),
				Message: "Failed to bind request",
				Code:    strconv.Itoa(http.StatusBadRequest),
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Type:    string(errors.ServerError),
			Message: "Internal Server Error",
			Code:    strconv.Itoa(http.StatusInternalServerError),
		})
	}
}
