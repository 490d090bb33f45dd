package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// Registerer defines the interface that the auth service must implement.
type Registerer interface {
	Register(ctx context.Context, id, email, password string) (*models.UserDB, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// User identifier
	// required: true
	// default: u1
	ID string `json:"id"`

	// Email
	// required: true
	// default: u1@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new account with an ordinary role. Identifier and email must be unique; the password is hashed before storing.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 200 {object} models.UserDB "User successfully registered"
// @Failure 400 {object} models.ErrorResponse "User id or email already exists"
// @Failure 422 {object} models.ErrorResponse "Missing or malformed fields"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid request body.", err.Error())
			return
		}

		if req.ID == "" || req.Email == "" || req.Password == "" {
			writeError(w, http.StatusUnprocessableEntity,
				"Invalid input.", "id, email and password are required")
			return
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			writeError(w, http.StatusUnprocessableEntity,
				"Invalid input.", "email address is malformed")
			return
		}

		user, err := svc.Register(r.Context(), req.ID, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				writeError(w, http.StatusBadRequest,
					"Failed to register user.", "this user id or email is already in use")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError,
					"Failed to register user.", "unexpected error")
			}
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
