package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
)

// ErrInvalidResetToken is returned when the presented reset token does
// not verify, does not belong to the user, or was already consumed.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// ResetUserReader defines the read operations the reset service needs.
type ResetUserReader interface {
	GetByID(ctx context.Context, id string) (*models.UserDB, error)
}

// ResetUserWriter defines the write operations the reset service needs.
type ResetUserWriter interface {
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.UserDB, error)
}

// ResetTokener issues reset tokens and recovers their subject.
type ResetTokener interface {
	GenerateReset(ctx context.Context, userID string) (string, error)
	GetResetSubject(ctx context.Context, tokenString string) (string, error)
}

// ResetTokenStore keeps the single-use copy of each issued reset token.
type ResetTokenStore interface {
	Save(ctx context.Context, userID, token string) error
	Consume(ctx context.Context, userID string) (string, error)
}

// Mailer delivers the reset link to the user.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

// PasswordResetService handles self-service password recovery. The
// confirm step requires verified possession of the previously issued
// reset token; an identifier alone is not enough.
type PasswordResetService struct {
	reader      ResetUserReader
	writer      ResetUserWriter
	jwt         ResetTokener
	tokenStore  ResetTokenStore
	mailer      Mailer
	frontendURL string
}

// NewPasswordResetService creates a new PasswordResetService instance.
func NewPasswordResetService(
	reader ResetUserReader,
	writer ResetUserWriter,
	jwt ResetTokener,
	tokenStore ResetTokenStore,
	mailer Mailer,
	frontendURL string,
) *PasswordResetService {
	return &PasswordResetService{
		reader:      reader,
		writer:      writer,
		jwt:         jwt,
		tokenStore:  tokenStore,
		mailer:      mailer,
		frontendURL: frontendURL,
	}
}

// RequestReset issues a short-lived reset token for the user, stores
// its single-use copy, and hands the reset link to the mailer. The link
// is also returned to the caller, which is development behavior only.
func (svc *PasswordResetService) RequestReset(ctx context.Context, id string) (string, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user for reset", "user_id", id, "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	token, err := svc.jwt.GenerateReset(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to generate reset token", "user_id", id, "err", err)
		return "", err
	}

	if err := svc.tokenStore.Save(ctx, id, token); err != nil {
		logger.Log.Errorw("failed to store reset token", "user_id", id, "err", err)
		return "", err
	}

	resetURL := fmt.Sprintf("%s/reset-password?id=%s&token=%s",
		svc.frontendURL, url.QueryEscape(id), url.QueryEscape(token))

	if err := svc.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		// Mail delivery is stubbed in development; a failure here must
		// not invalidate the issued token.
		logger.Log.Errorw("failed to send reset mail", "user_id", id, "err", err)
	}

	return resetURL, nil
}

// ConfirmReset verifies the presented token against both its signature
// and the stored single-use copy, then rehashes and stores the new
// password. The stored copy is consumed even if later steps fail.
func (svc *PasswordResetService) ConfirmReset(ctx context.Context, id, token, newPassword string) (*models.UserDB, error) {
	subject, err := svc.jwt.GetResetSubject(ctx, token)
	if err != nil || subject != id {
		logger.Log.Warnw("reset token verification failed", "user_id", id, "err", err)
		return nil, ErrInvalidResetToken
	}

	stored, err := svc.tokenStore.Consume(ctx, id)
	if err != nil || stored != token {
		logger.Log.Warnw("reset token not found or mismatched", "user_id", id, "err", err)
		return nil, ErrInvalidResetToken
	}

	digest, err := hashPassword(newPassword)
	if err != nil {
		logger.Log.Errorw("failed to hash new password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Update(ctx, id, models.UserPatch{HashedPassword: &digest})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Log.Errorw("failed to store new password", "user_id", id, "err", err)
		return nil, err
	}

	return user, nil
}
