package handlers

import (
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

func TestVerifyHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		mockSetup    func(tk *MockVerifyTokener, auth *MockUserAuthorizer)
		expectedCode int
		expectedUser string
	}{
		{
			name: "valid token",
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("alice", nil)
			},
			expectedCode: http.StatusOK,
			expectedUser: "alice",
		},
		{
			name: "missing header",
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("", errors.New("authorization header missing"))
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "invalid token",
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("", services.ErrUnauthenticated)
			},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockVerifyTokener(ctrl)
			mockAuth := NewMockUserAuthorizer(ctrl)
			tt.mockSetup(mockTokener, mockAuth)

			handler := NewVerifyHandler(mockTokener, mockAuth)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				var resp VerifyResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "ok", resp.Status)
				assert.Equal(t, tt.expectedUser, resp.User)
			} else {
				var resp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "Could not validate credentials", resp.Detail.Message)
			}
		})
	}
}
