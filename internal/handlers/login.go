package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// default: u1@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
// swagger:model LoginResponse
type LoginResponse struct {
	// Signed bearer token
	// default: JWT_TOKEN
	AccessToken string `json:"access_token"`

	// Token type
	// default: bearer
	TokenType string `json:"token_type"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate by email and password and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} handlers.LoginResponse "Bearer token returned"
// @Failure 401 {object} models.ErrorResponse "Incorrect email or password"
// @Failure 422 {object} models.ErrorResponse "Invalid request body"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid request body.", err.Error())
			return
		}

		token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized,
					"Login failed.", "incorrect email or password")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError,
					"Login failed.", "unexpected error")
			}
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	}
}
