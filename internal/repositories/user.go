package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
)

const userColumns = "id, email, hashed_password, is_admin, created_at"

// UserReadRepository handles user read operations.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByID returns the user with the given ID, or nil if absent.
func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user with the given email, or nil if absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDOrEmail returns a user matching either the ID or the email,
// or nil if neither is taken. Used for the registration conflict check.
func (r *UserReadRepository) GetByIDOrEmail(ctx context.Context, id, email string) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 OR email = $2
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users, newest first.
func (r *UserReadRepository) List(ctx context.Context) ([]models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
	`

	var users []models.UserDB
	err := r.db.SelectContext(ctx, &users, query)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"result_count", len(users),
		"error", err,
	)

	return users, err
}

// UserWriteRepository handles user write operations.
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

func (r *UserWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new user with an ordinary role and returns the stored row.
func (r *UserWriteRepository) Save(ctx context.Context, id, email, hashedPassword string) (*models.UserDB, error) {
	query := `
		INSERT INTO users (id, email, hashed_password, is_admin, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
		RETURNING ` + userColumns + `
	`
	args := []any{id, email, hashedPassword}

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, email},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies the non-nil patch fields in a single parameterized
// statement and returns the updated row. Returns sql.ErrNoRows if the
// user does not exist.
func (r *UserWriteRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.UserDB, error) {
	query := `
		UPDATE users
		SET email = COALESCE($2::TEXT, email),
		    hashed_password = COALESCE($3::TEXT, hashed_password),
		    is_admin = COALESCE($4::BOOLEAN, is_admin)
		WHERE id = $1
		RETURNING ` + userColumns + `
	`
	args := []any{id, patch.Email, patch.HashedPassword, patch.IsAdmin}

	var user models.UserDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &user, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user. Owned todos and their tag links are removed by
// the foreign key cascades. Returns sql.ErrNoRows if the user is absent.
func (r *UserWriteRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM users
		WHERE id = $1
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
