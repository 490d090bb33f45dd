package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// UserAdminUpdater defines the interface that the admin service must implement.
type UserAdminUpdater interface {
	UpdateUser(ctx context.Context, id string, email, password *string, isAdmin *bool) (*models.UserDB, error)
}

// AdminUpdateUserRequest represents the JSON body for an admin account
// update. Absent fields are left unchanged.
// swagger:model AdminUpdateUserRequest
type AdminUpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
}

// NewAdminUpdateUserHandler returns an HTTP handler for admin account edits.
// @Summary Update a user (admin)
// @Description Applies only the supplied fields. A supplied password is rehashed. Administrator only.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param adminUpdateUserRequest body handlers.AdminUpdateUserRequest true "Partial update"
// @Success 200 {object} models.UserDB "Updated user"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not an administrator"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 422 {object} models.ErrorResponse "Invalid request body"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/admin/users/{id} [put]
// @Security BearerAuth
func NewAdminUpdateUserHandler(tokenGetter AdminTokener, auth AdminAuthorizer, svc UserAdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !adminGate(w, r, tokenGetter, auth) {
			return
		}

		id := chi.URLParam(r, "id")

		var req AdminUpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid request body.", err.Error())
			return
		}

		user, err := svc.UpdateUser(r.Context(), id, req.Email, req.Password, req.IsAdmin)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found", "no user with this id")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to update user.", "unexpected error")
			}
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
