package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// UpdateTodoTokener extracts the bearer token from a request.
type UpdateTodoTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// TodoUpdater defines the interface that the todo service must implement.
type TodoUpdater interface {
	Update(ctx context.Context, userID string, id int64, patch models.TodoPatch) (*models.TodoDB, error)
}

// UpdateTodoRequest represents the JSON body for a partial todo update.
// Absent fields are left unchanged; a present tags array fully replaces
// the todo's tag set.
// swagger:model UpdateTodoRequest
type UpdateTodoRequest struct {
	Title    *string    `json:"title"`
	Status   *string    `json:"status"`
	Deadline *time.Time `json:"deadline"`
	Content  *string    `json:"content"`
	Tags     *[]string  `json:"tags"`
}

// NewUpdateTodoHandler returns an HTTP handler for partial todo updates.
// @Summary Update a todo
// @Description Applies only the supplied fields; updated_at always refreshes. A supplied tag set replaces the existing links.
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param updateTodoRequest body handlers.UpdateTodoRequest true "Partial update"
// @Success 200 {object} models.TodoDB "Updated todo"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Todo not found"
// @Failure 422 {object} models.ErrorResponse "Invalid id or status"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/todos/{id} [put]
// @Security BearerAuth
func NewUpdateTodoHandler(tokenGetter UpdateTodoTokener, auth UserAuthorizer, svc TodoUpdater) http.HandlerFunc {
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

		var req UpdateTodoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid request body.", err.Error())
			return
		}

		patch := models.TodoPatch{
			Title:    req.Title,
			Status:   req.Status,
			Deadline: req.Deadline,
			Content:  req.Content,
		}
		if req.Tags != nil {
			patch.Tags = *req.Tags
			patch.HasTags = true
		}

		todo, err := svc.Update(ctx, userID, id, patch)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTodoNotFound):
				writeError(w, http.StatusNotFound, "Todo not found", "no todo with this id is owned by the caller")
			case errors.Is(err, services.ErrInvalidStatus):
				writeError(w, http.StatusUnprocessableEntity, "Failed to update todo.", err.Error())
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to update todo.", "unexpected error")
			}
			return
		}

		writeJSON(w, http.StatusOK, todo)
	}
}
