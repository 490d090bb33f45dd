package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/sbilibin2017/todo-tracker/internal/services"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name            string
		reqBody         LoginRequest
		mockSetup       func(m *MockLoginer)
		expectedCode    int
		expectedMessage string
		rawBody         string
	}{
		{
			name:    "success",
			reqBody: LoginRequest{Email: "john@example.com", Password: "secret"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "john@example.com", "secret").
					Return("signed-token", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "invalid credentials",
			reqBody: LoginRequest{Email: "john@example.com", Password: "wrong"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "john@example.com", "wrong").
					Return("", services.ErrInvalidCredentials)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Login failed.",
		},
		{
			name:    "internal server error",
			reqBody: LoginRequest{Email: "john@example.com", Password: "secret"},
			mockSetup: func(m *MockLoginer) {
				m.EXPECT().
					Login(gomock.Any(), "john@example.com", "secret").
					Return("", errors.New("database failure"))
			},
			expectedCode:    http.StatusInternalServerError,
			expectedMessage: "Login failed.",
		},
		{
			name:            "invalid json",
			rawBody:         "{not json",
			mockSetup:       func(m *MockLoginer) {},
			expectedCode:    http.StatusUnprocessableEntity,
			expectedMessage: "Invalid request body.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			tt.mockSetup(mockSvc)

			handler := NewLoginHandler(mockSvc)

			var body []byte
			if tt.rawBody != "" {
				body = []byte(tt.rawBody)
			} else {
				body, _ = json.Marshal(tt.reqBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedMessage != "" {
				var resp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMessage, resp.Detail.Message)
			} else {
				var resp LoginResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "signed-token", resp.AccessToken)
				assert.Equal(t, "bearer", resp.TokenType)
			}
		})
	}
}
