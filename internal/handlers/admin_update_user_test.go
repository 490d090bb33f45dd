package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/sbilibin2017/todo-tracker/internal/services"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestAdminUpdateUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	email := "new@example.com"
	isAdmin := true

	tests := []struct {
		name            string
		userID          string
		reqBody         AdminUpdateUserRequest
		mockSetup       func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminUpdater)
		expectedCode    int
		expectedMessage string
	}{
		{
			name:    "success",
			userID:  "bob",
			reqBody: AdminUpdateUserRequest{Email: &email, IsAdmin: &isAdmin},
			mockSetup: func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminUpdater) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentAdmin(gomock.Any(), "tok").Return("root", nil)
				svc.EXPECT().
					UpdateUser(gomock.Any(), "bob", &email, nil, &isAdmin).
					Return(&models.UserDB{ID: "bob", Email: email, IsAdmin: true}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "user not found",
			userID:  "ghost",
			reqBody: AdminUpdateUserRequest{Email: &email},
			mockSetup: func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminUpdater) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentAdmin(gomock.Any(), "tok").Return("root", nil)
				svc.EXPECT().
					UpdateUser(gomock.Any(), "ghost", &email, nil, nil).
					Return(nil, services.ErrUserNotFound)
			},
			expectedCode:    http.StatusNotFound,
			expectedMessage: "User not found",
		},
		{
			name:   "forbidden",
			userID: "bob",
			mockSetup: func(tk *MockVerifyTokener, auth *MockAdminAuthorizer, svc *MockUserAdminUpdater) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentAdmin(gomock.Any(), "tok").Return("", services.ErrForbidden)
			},
			expectedCode:    http.StatusForbidden,
			expectedMessage: "Administrator role required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockVerifyTokener(ctrl)
			mockAuth := NewMockAdminAuthorizer(ctrl)
			mockSvc := NewMockUserAdminUpdater(ctrl)
			tt.mockSetup(mockTokener, mockAuth, mockSvc)

			router := chi.NewRouter()
			router.Put("/api/admin/users/{id}", NewAdminUpdateUserHandler(mockTokener, mockAuth, mockSvc))

			body, _ := json.Marshal(tt.reqBody)
			req := httptest.NewRequest(http.MethodPut, "/api/admin/users/"+tt.userID, bytes.NewReader(body))
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedMessage != "" {
				var resp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMessage, resp.Detail.Message)
			} else {
				var user models.UserDB
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
				assert.Equal(t, tt.userID, user.ID)
			}
		})
	}
}
