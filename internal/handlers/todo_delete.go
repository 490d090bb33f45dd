package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// DeleteTodoTokener extracts the bearer token from a request.
type DeleteTodoTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// TodoDeleter defines the interface that the todo service must implement.
type TodoDeleter interface {
	Delete(ctx context.Context, userID string, id int64) error
}

// DeleteTodoResponse represents a successful deletion
// swagger:model DeleteTodoResponse
type DeleteTodoResponse struct {
	// Success message
	// default: Todo deleted successfully
	Message string `json:"message"`
}

// NewDeleteTodoHandler returns an HTTP handler for todo deletion.
// @Summary Delete a todo
// @Description Deletes a todo owned by the caller. Tag links are removed; tag rows persist.
// @Tags todos
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} handlers.DeleteTodoResponse "Todo deleted"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Todo not found"
// @Failure 422 {object} models.ErrorResponse "Invalid id"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/todos/{id} [delete]
// @Security BearerAuth
func NewDeleteTodoHandler(tokenGetter DeleteTodoTokener, auth UserAuthorizer, svc TodoDeleter) http.HandlerFunc {
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

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid todo id.", err.Error())
			return
		}

		if err := svc.Delete(ctx, userID, id); err != nil {
			switch {
			case errors.Is(err, services.ErrTodoNotFound):
				writeError(w, http.StatusNotFound, "Todo not found", "no todo with this id is owned by the caller")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to delete todo.", "unexpected error")
			}
			return
		}

		writeJSON(w, http.StatusOK, DeleteTodoResponse{Message: "Todo deleted successfully"})
	}
}
