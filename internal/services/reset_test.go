package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/sbilibin2017/todo-tracker/internal/services"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

const frontendURL = "http://localhost:5173"

func TestPasswordResetService_RequestReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{ID: "alice", Email: "alice@example.com"}

	tests := []struct {
		name      string
		mockSetup func(r *services.MockResetUserReader, j *services.MockResetTokener, s *services.MockResetTokenStore, m *services.MockMailer)
		wantURL   string
		wantErr   error
	}{
		{
			name: "success",
			mockSetup: func(r *services.MockResetUserReader, j *services.MockResetTokener, s *services.MockResetTokenStore, m *services.MockMailer) {
				r.EXPECT().GetByID(gomock.Any(), "alice").Return(user, nil)
				j.EXPECT().GenerateReset(gomock.Any(), "alice").Return("tok123", nil)
				s.EXPECT().Save(gomock.Any(), "alice", "tok123").Return(nil)
				m.EXPECT().
					SendPasswordReset(gomock.Any(), "alice@example.com", frontendURL+"/reset-password?id=alice&token=tok123").
					Return(nil)
			},
			wantURL: frontendURL + "/reset-password?id=alice&token=tok123",
		},
		{
			name: "mail failure does not invalidate the token",
			mockSetup: func(r *services.MockResetUserReader, j *services.MockResetTokener, s *services.MockResetTokenStore, m *services.MockMailer) {
				r.EXPECT().GetByID(gomock.Any(), "alice").Return(user, nil)
				j.EXPECT().GenerateReset(gomock.Any(), "alice").Return("tok123", nil)
				s.EXPECT().Save(gomock.Any(), "alice", "tok123").Return(nil)
				m.EXPECT().
					SendPasswordReset(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("smtp unreachable"))
			},
			wantURL: frontendURL + "/reset-password?id=alice&token=tok123",
		},
		{
			name: "unknown user",
			mockSetup: func(r *services.MockResetUserReader, j *services.MockResetTokener, s *services.MockResetTokenStore, m *services.MockMailer) {
				r.EXPECT().GetByID(gomock.Any(), "alice").Return(nil, nil)
			},
			wantErr: services.ErrUserNotFound,
		},
		{
			name: "store failure",
			mockSetup: func(r *services.MockResetUserReader, j *services.MockResetTokener, s *services.MockResetTokenStore, m *services.MockMailer) {
				r.EXPECT().GetByID(gomock.Any(), "alice").Return(user, nil)
				j.EXPECT().GenerateReset(gomock.Any(), "alice").Return("tok123", nil)
				s.EXPECT().Save(gomock.Any(), "alice", "tok123").Return(errors.New("redis down"))
			},
			wantErr: errors.New("redis down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockResetUserReader(ctrl)
			mockWriter := services.NewMockResetUserWriter(ctrl)
			mockJWT := services.NewMockResetTokener(ctrl)
			mockStore := services.NewMockResetTokenStore(ctrl)
			mockMailer := services.NewMockMailer(ctrl)
			tt.mockSetup(mockReader, mockJWT, mockStore, mockMailer)

			svc := services.NewPasswordResetService(mockReader, mockWriter, mockJWT, mockStore, mockMailer, frontendURL)

			gotURL, err := svc.RequestReset(context.Background(), "alice")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, gotURL)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantURL, gotURL)
			}
		})
	}
}

func TestPasswordResetService_ConfirmReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		mockSetup func(w *services.MockResetUserWriter, j *services.MockResetTokener, s *services.MockResetTokenStore)
		wantErr   error
	}{
		{
			name: "success",
			mockSetup: func(w *services.MockResetUserWriter, j *services.MockResetTokener, s *services.MockResetTokenStore) {
				j.EXPECT().GetResetSubject(gomock.Any(), "tok123").Return("alice", nil)
				s.EXPECT().Consume(gomock.Any(), "alice").Return("tok123", nil)
				w.EXPECT().
					Update(gomock.Any(), "alice", gomock.Any()).
					DoAndReturn(func(_ context.Context, id string, patch models.UserPatch) (*models.UserDB, error) {
						assert.NotNil(t, patch.HashedPassword)
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*patch.HashedPassword), []byte("newpass")))
						return &models.UserDB{ID: id}, nil
					})
			},
		},
		{
			name: "token signature invalid",
			mockSetup: func(w *services.MockResetUserWriter, j *services.MockResetTokener, s *services.MockResetTokenStore) {
				j.EXPECT().GetResetSubject(gomock.Any(), "tok123").Return("", errors.New("signature invalid"))
			},
			wantErr: services.ErrInvalidResetToken,
		},
		{
			name: "token belongs to another user",
			mockSetup: func(w *services.MockResetUserWriter, j *services.MockResetTokener, s *services.MockResetTokenStore) {
				j.EXPECT().GetResetSubject(gomock.Any(), "tok123").Return("mallory", nil)
			},
			wantErr: services.ErrInvalidResetToken,
		},
		{
			name: "token already consumed",
			mockSetup: func(w *services.MockResetUserWriter, j *services.MockResetTokener, s *services.MockResetTokenStore) {
				j.EXPECT().GetResetSubject(gomock.Any(), "tok123").Return("alice", nil)
				s.EXPECT().Consume(gomock.Any(), "alice").Return("", errors.New("reset token not found"))
			},
			wantErr: services.ErrInvalidResetToken,
		},
		{
			name: "stored token mismatched",
			mockSetup: func(w *services.MockResetUserWriter, j *services.MockResetTokener, s *services.MockResetTokenStore) {
				j.EXPECT().GetResetSubject(gomock.Any(), "tok123").Return("alice", nil)
				s.EXPECT().Consume(gomock.Any(), "alice").Return("earlier-token", nil)
			},
			wantErr: services.ErrInvalidResetToken,
		},
		{
			name: "user deleted between request and confirm",
			mockSetup: func(w *services.MockResetUserWriter, j *services.MockResetTokener, s *services.MockResetTokenStore) {
				j.EXPECT().GetResetSubject(gomock.Any(), "tok123").Return("alice", nil)
				s.EXPECT().Consume(gomock.Any(), "alice").Return("tok123", nil)
				w.EXPECT().Update(gomock.Any(), "alice", gomock.Any()).Return(nil, sql.ErrNoRows)
			},
			wantErr: services.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockResetUserReader(ctrl)
			mockWriter := services.NewMockResetUserWriter(ctrl)
			mockJWT := services.NewMockResetTokener(ctrl)
			mockStore := services.NewMockResetTokenStore(ctrl)
			mockMailer := services.NewMockMailer(ctrl)
			tt.mockSetup(mockWriter, mockJWT, mockStore)

			svc := services.NewPasswordResetService(mockReader, mockWriter, mockJWT, mockStore, mockMailer, frontendURL)

			user, err := svc.ConfirmReset(context.Background(), "alice", "tok123", "newpass")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
			}
		})
	}
}
