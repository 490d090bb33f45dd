package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// UserAdminDeleter defines the interface that the admin service must implement.
type UserAdminDeleter interface {
	DeleteUser(ctx context.Context, id string) error
}

// AdminDeleteUserResponse represents a successful account deletion
// swagger:model AdminDeleteUserResponse
type AdminDeleteUserResponse struct {
	// Success message
	// default: User deleted successfully
	Message string `json:"message"`
}

// NewAdminDeleteUserHandler returns an HTTP handler for admin account deletion.
// @Summary Delete a user (admin)
// @Description Deletes an account; its todos and their tag links are cascade-deleted. Administrator only.
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} handlers.AdminDeleteUserResponse "User deleted"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not an administrator"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/admin/users/{id} [delete]
// @Security BearerAuth
func NewAdminDeleteUserHandler(tokenGetter AdminTokener, auth AdminAuthorizer, svc UserAdminDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !adminGate(w, r, tokenGetter, auth) {
			return
		}

		id := chi.URLParam(r, "id")

		if err := svc.DeleteUser(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found", "no user with this id")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to delete user.", "unexpected error")
			}
			return
		}

		writeJSON(w, http.StatusOK, AdminDeleteUserResponse{Message: "User deleted successfully"})
	}
}
