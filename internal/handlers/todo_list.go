package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
)

// ListTodosTokener extracts the bearer token from a request.
type ListTodosTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// TodoLister defines the interface that the todo service must implement.
type TodoLister interface {
	List(ctx context.Context, userID string) ([]models.TodoDB, error)
}

// NewListTodosHandler returns an HTTP handler listing the caller's todos.
// @Summary List todos
// @Description Returns all todos owned by the caller, newest created first, with tag names aggregated alphabetically.
// @Tags todos
// @Produce json
// @Success 200 {array} models.TodoDB "Owned todos"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/todos [get]
// @Security BearerAuth
func NewListTodosHandler(tokenGetter ListTodosTokener, auth UserAuthorizer, svc TodoLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Could not validate credentials", err.Error())
			return
		}
		userID, err := auth.CurrentUser(ctx, tokenStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Could not validate credentials", err.Error())
			return
		}

		todos, err := svc.List(ctx, userID)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to list todos.", "unexpected error")
			return
		}

		writeJSON(w, http.StatusOK, todos)
	}
}
