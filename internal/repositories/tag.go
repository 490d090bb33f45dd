package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
)

// TagWriteRepository handles lazy tag creation and todo-tag links.
type TagWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTagWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TagWriteRepository {
	return &TagWriteRepository{db: db, txGetter: txGetter}
}

func (r *TagWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// withSavepoint runs fn against the active transaction inside a
// savepoint, rolling back to it on failure so the error does not put
// the whole transaction into an aborted state. Without a transaction
// fn runs directly against the pool.
func (r *TagWriteRepository) withSavepoint(ctx context.Context, fn func(ex sqlx.ExtContext) error) error {
	var tx *sqlx.Tx
	if r.txGetter != nil {
		tx = r.txGetter(ctx)
	}
	if tx == nil {
		return fn(r.db)
	}

	if _, err := tx.ExecContext(ctx, "SAVEPOINT tag_write"); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT tag_write"); rbErr != nil {
			logger.Log.Errorw("failed to roll back to savepoint", "error", rbErr)
		}
		return err
	}
	_, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT tag_write")
	return err
}

// Upsert inserts the tag if absent and returns its id in either case.
// The no-op DO UPDATE makes RETURNING yield the existing row, so
// concurrent first-use of the same name cannot race.
func (r *TagWriteRepository) Upsert(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO tags (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE
		SET name = EXCLUDED.name
		RETURNING id
	`

	var id int64
	err := r.withSavepoint(ctx, func(ex sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, ex, &id, query, name)
	})

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{name},
		"result", id,
		"error", err,
	)

	return id, err
}

// Link associates a todo with a tag. Re-linking an existing pair is a no-op.
func (r *TagWriteRepository) Link(ctx context.Context, todoID, tagID int64) error {
	query := `
		INSERT INTO todo_tags (todo_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (todo_id, tag_id) DO NOTHING
	`

	err := r.withSavepoint(ctx, func(ex sqlx.ExtContext) error {
		_, execErr := ex.ExecContext(ctx, query, todoID, tagID)
		return execErr
	})

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{todoID, tagID},
		"error", err,
	)

	return err
}

// UnlinkAll removes every tag link for a todo. Tag rows are kept.
func (r *TagWriteRepository) UnlinkAll(ctx context.Context, todoID int64) error {
	query := `
		DELETE FROM todo_tags
		WHERE todo_id = $1
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, todoID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{todoID},
		"result", rowsAffected,
		"error", err,
	)

	return err
}
