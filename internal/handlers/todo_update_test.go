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

func TestUpdateTodoHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	title := "renamed"

	tests := []struct {
		name            string
		todoID          string
		reqBody         UpdateTodoRequest
		mockSetup       func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoUpdater)
		expectedCode    int
		expectedMessage string
	}{
		{
			name:    "success",
			todoID:  "5",
			reqBody: UpdateTodoRequest{Title: &title},
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoUpdater) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("alice", nil)
				svc.EXPECT().
					Update(gomock.Any(), "alice", int64(5), gomock.Any()).
					DoAndReturn(func(_ interface{}, _ string, _ int64, patch models.TodoPatch) (*models.TodoDB, error) {
						assert.Equal(t, &title, patch.Title)
						assert.False(t, patch.HasTags)
						return &models.TodoDB{ID: 5, Title: title}, nil
					})
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "tags replace flag set",
			todoID:  "5",
			reqBody: UpdateTodoRequest{Tags: &[]string{"a", "b"}},
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoUpdater) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("alice", nil)
				svc.EXPECT().
					Update(gomock.Any(), "alice", int64(5), gomock.Any()).
					DoAndReturn(func(_ interface{}, _ string, _ int64, patch models.TodoPatch) (*models.TodoDB, error) {
						assert.True(t, patch.HasTags)
						assert.Equal(t, []string{"a", "b"}, patch.Tags)
						return &models.TodoDB{ID: 5, Tags: []string{"a", "b"}}, nil
					})
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "not found",
			todoID:  "99",
			reqBody: UpdateTodoRequest{Title: &title},
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoUpdater) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("alice", nil)
				svc.EXPECT().
					Update(gomock.Any(), "alice", int64(99), gomock.Any()).
					Return(nil, services.ErrTodoNotFound)
			},
			expectedCode:    http.StatusNotFound,
			expectedMessage: "Todo not found",
		},
		{
			name:   "invalid id",
			todoID: "abc",
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoUpdater) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("alice", nil)
			},
			expectedCode:    http.StatusUnprocessableEntity,
			expectedMessage: "Invalid todo id.",
		},
		{
			name:   "unauthorized",
			todoID: "5",
			mockSetup: func(tk *MockVerifyTokener, auth *MockUserAuthorizer, svc *MockTodoUpdater) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tok", nil)
				auth.EXPECT().CurrentUser(gomock.Any(), "tok").Return("", services.ErrUnauthenticated)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Could not validate credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockVerifyTokener(ctrl)
			mockAuth := NewMockUserAuthorizer(ctrl)
			mockSvc := NewMockTodoUpdater(ctrl)
			tt.mockSetup(mockTokener, mockAuth, mockSvc)

			router := chi.NewRouter()
			router.Put("/api/todos/{id}", NewUpdateTodoHandler(mockTokener, mockAuth, mockSvc))

			body, _ := json.Marshal(tt.reqBody)
			req := httptest.NewRequest(http.MethodPut, "/api/todos/"+tt.todoID, bytes.NewReader(body))
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedMessage != "" {
				var resp models.ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedMessage, resp.Detail.Message)
			}
		})
	}
}
