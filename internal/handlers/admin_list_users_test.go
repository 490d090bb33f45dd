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

func TestAdminListUsersHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := []models.UserDB{
		{ID: "bob", Email: "bob@example.com"},
		{ID: "root", Email: "root@example.com", IsAdmin: true},
	}

	tests := []struct {
		name            string
		mockSetup       func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminLister)
		expectedCode    int
		expectedMessage string
	}{
		{
			name: "success",
			mockSetup: func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminLister) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentAdmin(gomock.Any(), "tok").Return("root", nil)
				svc.EXPECT().ListUsers(gomock.Any()).Return(users, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			// A syntactically valid token whose subject is not an admin.
			name: "forbidden for ordinary user",
			mockSetup: func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminLister) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentAdmin(gomock.Any(), "tok").Return("", services.ErrForbidden)
			},
			expectedCode:    http.StatusForbidden,
			expectedMessage: "Administrator role required",
		},
		{
			name: "unauthenticated",
			mockSetup: func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminLister) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentAdmin(gomock.Any(), "tok").Return("", services.ErrUnauthenticated)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Could not validate credentials",
		},
		{
			name: "missing header",
			mockSetup: func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminLister) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("", errors.New("authorization header missing"))
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Could not validate credentials",
		},
		{
			name: "service error",
			mockSetup: func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminLister) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentAdmin(gomock.Any(), "tok").Return("root", nil)
				svc.EXPECT().ListUsers(gomock.Any()).Return(nil, errors.New("db error"))
			},
			expectedCode:    http.StatusInternalServerError,
			expectedMessage: "Failed to list users.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockVerifyTokener(ctrl)
			mockAuth := NewMockAdminAuthorizer(ctrl)
			mockSvc := NewMockUserAdminLister(ctrl)
			tt.mockSetup(mockTokener, mockAuth, mockSvc)

			handler := NewAdminListUsersHandler(mockTokener, mockAuth, mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedMessage != "" {
				var resp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMessage, resp.Detail.Message)
			} else {
				var got []models.UserDB
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Len(t, got, 2)
			}
		})
	}
}
