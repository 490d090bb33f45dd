package handlers

import (
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

func TestDeleteTodoHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name            string
		todoID          string
		mockSetup       func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoDeleter)
		expectedCode    int
		expectedMessage string
	}{
		{
			name:   "success",
			todoID: "5",
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoDeleter) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("alice", nil)
				svc.EXPECT().Delete(gomock.Any(), "alice", int64(5)).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "not found",
			todoID: "99",
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoDeleter) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("alice", nil)
				svc.EXPECT().Delete(gomock.Any(), "alice", int64(99)).Return(services.ErrTodoNotFound)
			},
			expectedCode:    http.StatusNotFound,
			expectedMessage: "Todo not found",
		},
		{
			name:   "invalid id",
			todoID: "abc",
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoDeleter) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("alice", nil)
			},
			expectedCode:    http.StatusUnprocessableEntity,
			expectedMessage: "Invalid todo id.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockVerifyTokener(ctrl)
			mockAuth := NewMockUserAuthorizer(ctrl)
			mockSvc := NewMockTodoDeleter(ctrl)
			tt.mockSetup(mockTokener, mockAuth, mockSvc)

			router := chi.NewRouter()
			router.Delete("/api/todos/{id}", NewDeleteTodoHandler(mockTokener, mockAuth, mockSvc))

			req := httptest.NewRequest(http.MethodDelete, "/api/todos/"+tt.todoID, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedMessage != "" {
				var resp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMessage, resp.Detail.Message)
			} else {
				var resp DeleteTodoResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "Todo deleted successfully", resp.Message)
			}
		})
	}
}
