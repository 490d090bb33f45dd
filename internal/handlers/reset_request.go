package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// ResetRequester defines the interface that the reset service must implement.
type ResetRequester interface {
	RequestReset(ctx context.Context, id string) (string, error)
}

// ResetRequestBody represents the JSON body for requesting a password reset
// swagger:model ResetRequestBody
type ResetRequestBody struct {
	// User identifier
	// required: true
	// default: u1
	ID string `json:"id"`
}

// ResetRequestResponse represents a successful reset request.
// The reset URL is returned directly in development mode only; in
// production it travels by mail.
// swagger:model ResetRequestResponse
type ResetRequestResponse struct {
	// Success message
	// default: Password reset link has been sent
	Message string `json:"message"`

	// Reset URL (development mode)
	ResetURL string `json:"reset_url,omitempty"`
}

// NewResetRequestHandler returns an HTTP handler for requesting a password reset.
// @Summary Request password reset
// @Description Issues a short-lived single-use reset token and mails the reset link (stubbed in development).
// @Tags auth
// @Accept json
// @Produce json
// @Param resetRequestBody body handlers.ResetRequestBody true "Reset request"
// @Success 200 {object} handlers.ResetRequestResponse "Reset link issued"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 422 {object} models.ErrorResponse "Invalid request body"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/auth/request-reset [post]
func NewResetRequestHandler(svc ResetRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetRequestBody

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid request body.", err.Error())
			return
		}
		if req.ID == "" {
			writeError(w, http.StatusUnprocessableEntity, "Invalid input.", "id is required")
			return
		}

		resetURL, err := svc.RequestReset(r.Context(), req.ID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found", "no user with this id")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to request password reset.", "unexpected error")
			}
			return
		}

		writeJSON(w, http.StatusOK, ResetRequestResponse{
			Message:  "Password reset link has been sent",
			ResetURL: resetURL,
		})
	}
}
