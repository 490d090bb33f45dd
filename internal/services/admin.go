package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
)

// UserLister defines the read operations the admin service needs.
type UserLister interface {
	List(ctx context.Context) ([]models.UserDB, error)
}

// UserEditor defines the write operations the admin service needs.
type UserEditor interface {
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.UserDB, error)
	Delete(ctx context.Context, id string) error
}

// AdminService handles privileged account management.
type AdminService struct {
	lister UserLister
	editor UserEditor
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(lister UserLister, editor UserEditor) *AdminService {
	return &AdminService{
		lister: lister,
		editor: editor,
	}
}

// ListUsers returns all accounts, newest first.
func (svc *AdminService) ListUsers(ctx context.Context) ([]models.UserDB, error) {
	users, err := svc.lister.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}
	return users, nil
}

// UpdateUser applies the supplied fields to an account. A supplied
// password is rehashed before storage.
func (svc *AdminService) UpdateUser(ctx context.Context, id string, email, password *string, isAdmin *bool) (*models.UserDB, error) {
	patch := models.UserPatch{
		Email:   email,
		IsAdmin: isAdmin,
	}

	if password != nil {
		digest, err := hashPassword(*password)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return nil, err
		}
		patch.HashedPassword = &digest
	}

	user, err := svc.editor.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Log.Errorw("failed to update user", "user_id", id, "err", err)
		return nil, err
	}

	return user, nil
}

// DeleteUser removes an account; todos owned by it are cascade-deleted.
func (svc *AdminService) DeleteUser(ctx context.Context, id string) error {
	if err := svc.editor.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		logger.Log.Errorw("failed to delete user", "user_id", id, "err", err)
		return err
	}
	return nil
}
