package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// ResetConfirmer defines the interface that the reset service must implement.
type ResetConfirmer interface {
	ConfirmReset(ctx context.Context, id, token, newPassword string) (*models.UserDB, error)
}

// ResetConfirmBody represents the JSON body for confirming a password
// reset. The token issued by request-reset must be presented.
// swagger:model ResetConfirmBody
type ResetConfirmBody struct {
	// User identifier
	// required: true
	// default: u1
	ID string `json:"id"`

	// Reset token from the reset link
	// required: true
	Token string `json:"token"`

	// New password
	// required: true
	// default: newsecret123
	NewPassword string `json:"new_password"`
}

// NewResetConfirmHandler returns an HTTP handler for confirming a password reset.
// @Summary Confirm password reset
// @Description Verifies the single-use reset token and stores the new password.
// @Tags auth
// @Accept json
// @Produce json
// @Param resetConfirmBody body handlers.ResetConfirmBody true "Reset confirmation"
// @Success 200 {object} models.UserDB "Password updated"
// @Failure 400 {object} models.ErrorResponse "Invalid or expired reset token"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 422 {object} models.ErrorResponse "Invalid request body"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/auth/reset-password [post]
func NewResetConfirmHandler(svc ResetConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetConfirmBody

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid request body.", err.Error())
			return
		}
		if req.ID == "" || req.Token == "" || req.NewPassword == "" {
			writeError(w, http.StatusUnprocessableEntity,
				"Invalid input.", "id, token and new_password are required")
			return
		}

		user, err := svc.ConfirmReset(r.Context(), req.ID, req.Token, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidResetToken):
				writeError(w, http.StatusBadRequest, "Failed to reset password.", "invalid or expired reset token")
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found", "no user with this id")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to reset password.", "unexpected error")
			}
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
