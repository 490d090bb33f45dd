package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
)

// VerifyTokener extracts the bearer token from a request.
type VerifyTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// UserAuthorizer resolves the calling identity from a bearer token.
type UserAuthorizer interface {
	CurrentUser(ctx context.Context, token string) (string, error)
}

// VerifyResponse represents a successful token verification
// swagger:model VerifyResponse
type VerifyResponse struct {
	// Status
	// default: ok
	Status string `json:"status"`

	// Authenticated user identifier
	// default: u1
	User string `json:"user"`
}

// NewVerifyHandler returns an HTTP handler that reports the identity
// behind a bearer token.
// @Summary Verify bearer token
// @Description Returns the user identifier carried by a valid token
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.VerifyResponse "Token is valid"
// @Failure 401 {object} models.ErrorResponse "Missing, malformed or expired token"
// @Router /api/auth/verify [get]
// @Security BearerAuth
func NewVerifyHandler(tokenGetter VerifyTokener, auth UserAuthorizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Could not validate credentials", err.Error())
			return
		}

		userID, err := auth.CurrentUser(ctx, tokenStr)
		if err != nil {
			logger.Log.Warnw("token verification failed", "err", err)
			writeError(w, http.StatusUnauthorized, "Could not validate credentials", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, VerifyResponse{
			Status: "ok",
			User:   userID,
		})
	}
}
