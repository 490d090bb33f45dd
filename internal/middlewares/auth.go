package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
)

// Tokener defines the minimal interface needed by the middleware.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	Validate(ctx context.Context, tokenString string) error
}

// AuthMiddleware returns a middleware that rejects requests without a
// valid bearer access token. Handlers behind it still resolve the
// claims themselves for ownership scoping.
func AuthMiddleware(tokener Tokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Warnw("authorization failed", "err", err)
				writeUnauthenticated(w, err)
				return
			}

			if err := tokener.Validate(ctx, tokenString); err != nil {
				logger.Log.Warnw("authorization failed", "err", err)
				writeUnauthenticated(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthenticated(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.NewErrorResponse("Could not validate credentials", err.Error()))
}
