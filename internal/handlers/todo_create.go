package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// CreateTodoTokener extracts the bearer token from a request.
type CreateTodoTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// TodoCreator defines the interface that the todo service must implement.
type TodoCreator interface {
	Create(ctx context.Context, userID, title, status string, deadline time.Time, content string, tags []string) (*models.TodoDB, error)
}

// CreateTodoRequest represents the JSON body for todo creation
// swagger:model CreateTodoRequest
type CreateTodoRequest struct {
	// Title
	// required: true
	// default: Write report
	Title string `json:"title"`

	// Status, one of not-started, in-progress, done
	// required: true
	// default: not-started
	Status string `json:"status"`

	// Deadline
	// required: true
	Deadline time.Time `json:"deadline"`

	// Free-text content
	// default: quarterly numbers
	Content string `json:"content"`

	// Tag names, created lazily
	Tags []string `json:"tags"`
}

// NewCreateTodoHandler returns an HTTP handler for todo creation.
// @Summary Create a todo
// @Description Creates a todo owned by the caller, linking the given tags. Tags are created on first use.
// @Tags todos
// @Accept json
// @Produce json
// @Param createTodoRequest body handlers.CreateTodoRequest true "Todo creation request"
// @Success 200 {object} models.TodoDB "Created todo with its tags"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 422 {object} models.ErrorResponse "Missing fields or invalid status"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/todos [post]
// @Security BearerAuth
func NewCreateTodoHandler(tokenGetter CreateTodoTokener, auth UserAuthorizer, svc TodoCreator) http.HandlerFunc {
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

		var req CreateTodoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid request body.", err.Error())
			return
		}

		if req.Title == "" || req.Status == "" || req.Deadline.IsZero() {
			writeError(w, http.StatusUnprocessableEntity,
				"Invalid input.", "title, status and deadline are required")
			return
		}

		todo, err := svc.Create(ctx, userID, req.Title, req.Status, req.Deadline, req.Content, req.Tags)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidStatus):
				writeError(w, http.StatusUnprocessableEntity, "Failed to create todo.", err.Error())
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to create todo.", "unexpected error")
			}
			return
		}

		writeJSON(w, http.StatusOK, todo)
	}
}
