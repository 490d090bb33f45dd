package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// AdminTokener extracts the bearer token from a request.
type AdminTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// AdminAuthorizer resolves the calling identity and enforces the
// administrator role against the store, not the token claim.
type AdminAuthorizer interface {
	CurrentAdmin(ctx context.Context, token string) (string, error)
}

// UserAdminLister defines the interface that the admin service must implement.
type UserAdminLister interface {
	ListUsers(ctx context.Context) ([]models.UserDB, error)
}

// adminGate runs the token extraction and admin check shared by the
// admin handlers. Returns false after writing the error response.
func adminGate(w http.ResponseWriter, r *http.Request, tokenGetter AdminTokener, auth AdminAuthorizer) bool {
	ctx := r.Context()

	tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Could not validate credentials", err.Error())
		return false
	}

	if _, err := auth.CurrentAdmin(ctx, tokenStr); err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "Administrator role required", "the caller is not an administrator")
		case errors.Is(err, services.ErrUnauthenticated):
			writeError(w, http.StatusUnauthorized, "Could not validate credentials", err.Error())
		default:
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Authorization failed.", "unexpected error")
		}
		return false
	}

	return true
}

// NewAdminListUsersHandler returns an HTTP handler listing all accounts.
// @Summary List users (admin)
// @Description Returns all accounts, newest first. Administrator only.
// @Tags admin
// @Produce json
// @Success 200 {array} models.UserDB "All users"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Not an administrator"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/admin/users [get]
// @Security BearerAuth
func NewAdminListUsersHandler(tokenGetter AdminTokener, auth AdminAuthorizer, svc UserAdminLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !adminGate(w, r, tokenGetter, auth) {
			return
		}

		users, err := svc.ListUsers(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to list users.", "unexpected error")
			return
		}

		writeJSON(w, http.StatusOK, users)
	}
}
