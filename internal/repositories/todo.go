package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
)

// todoRow is the scan target for todo queries with aggregated tags.
// Tags arrive comma-joined in alphabetical order.
type todoRow struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	Status    string    `db:"status"`
	Deadline  time.Time `db:"deadline"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	Tags      string    `db:"tags"`
}

func (row todoRow) toModel() models.TodoDB {
	tags := []string{}
	if row.Tags != "" {
		tags = strings.Split(row.Tags, ",")
	}
	return models.TodoDB{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Status:    row.Status,
		Deadline:  row.Deadline,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Tags:      tags,
	}
}

// TodoReadRepository handles todo read operations. Reads join the
// per-request transaction when one is present so they observe writes
// made earlier in the same request.
type TodoReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTodoReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TodoReadRepository {
	return &TodoReadRepository{db: db, txGetter: txGetter}
}

func (r *TodoReadRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// ListByUserID returns all todos owned by userID, newest created first,
// each with its tag names aggregated alphabetically.
func (r *TodoReadRepository) ListByUserID(ctx context.Context, userID string) ([]models.TodoDB, error) {
	const query = `
		SELECT t.id, t.user_id, t.title, t.status, t.deadline, t.content,
		       t.created_at, t.updated_at,
		       COALESCE(string_agg(tg.name, ',' ORDER BY tg.name), '') AS tags
		FROM todos t
		LEFT JOIN todo_tags tt ON tt.todo_id = t.id
		LEFT JOIN tags tg ON tg.id = tt.tag_id
		WHERE t.user_id = $1
		GROUP BY t.id
		ORDER BY t.created_at DESC
	`

	var rows []todoRow
	err := sqlx.SelectContext(ctx, r.executor(ctx), &rows, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result_count", len(rows),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	todos := make([]models.TodoDB, 0, len(rows))
	for _, row := range rows {
		todos = append(todos, row.toModel())
	}
	return todos, nil
}

// GetByID returns the todo with the given id owned by userID, or nil
// if no such todo is owned by that user.
func (r *TodoReadRepository) GetByID(ctx context.Context, userID string, id int64) (*models.TodoDB, error) {
	const query = `
		SELECT t.id, t.user_id, t.title, t.status, t.deadline, t.content,
		       t.created_at, t.updated_at,
		       COALESCE(string_agg(tg.name, ',' ORDER BY tg.name), '') AS tags
		FROM todos t
		LEFT JOIN todo_tags tt ON tt.todo_id = t.id
		LEFT JOIN tags tg ON tg.id = tt.tag_id
		WHERE t.id = $1 AND t.user_id = $2
		GROUP BY t.id
	`

	var row todoRow
	err := sqlx.GetContext(ctx, r.executor(ctx), &row, query, id, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	todo := row.toModel()
	return &todo, nil
}

// TodoWriteRepository handles todo write operations.
type TodoWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTodoWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TodoWriteRepository {
	return &TodoWriteRepository{db: db, txGetter: txGetter}
}

func (r *TodoWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a todo row and returns it without tags.
func (r *TodoWriteRepository) Save(ctx context.Context, userID, title, status string, deadline time.Time, content string) (*models.TodoDB, error) {
	query := `
		INSERT INTO todos (user_id, title, status, deadline, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, user_id, title, status, deadline, content, created_at, updated_at
	`
	args := []any{userID, title, status, deadline, content}

	var todo models.TodoDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &todo, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// Update applies the non-nil patch fields in a single parameterized
// statement, always refreshing updated_at. Returns sql.ErrNoRows if no
// todo with that id is owned by userID.
func (r *TodoWriteRepository) Update(ctx context.Context, userID string, id int64, patch models.TodoPatch) (*models.TodoDB, error) {
	query := `
		UPDATE todos
		SET title = COALESCE($3::TEXT, title),
		    status = COALESCE($4::TEXT, status),
		    deadline = COALESCE($5::TIMESTAMPTZ, deadline),
		    content = COALESCE($6::TEXT, content),
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, status, deadline, content, created_at, updated_at
	`
	args := []any{id, userID, patch.Title, patch.Status, patch.Deadline, patch.Content}

	var todo models.TodoDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &todo, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, userID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// Delete removes a todo owned by userID. Tag links are removed by the
// foreign key cascade; tag rows persist. Returns sql.ErrNoRows if no
// todo with that id is owned by that user.
func (r *TodoWriteRepository) Delete(ctx context.Context, userID string, id int64) error {
	query := `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, id, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id, userID},
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
