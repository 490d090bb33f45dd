package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	hashed_password TEXT NOT NULL,
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tags (
	id SERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id SERIAL PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'not-started'
		CHECK (status IN ('not-started', 'in-progress', 'done')),
	deadline TIMESTAMPTZ NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS todo_tags (
	todo_id INTEGER REFERENCES todos(id) ON DELETE CASCADE,
	tag_id INTEGER REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (todo_id, tag_id)
);
`

// schemaInitAttempts bounds startup schema initialization.
const schemaInitAttempts = 3

// InitSchema creates the tables if they do not exist, retrying with
// exponential backoff before giving up. Failure here is fatal to startup.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	var err error
	backoff := time.Second

	for attempt := 1; attempt <= schemaInitAttempts; attempt++ {
		logger.Log.Infow("initializing database schema", "attempt", attempt, "max_attempts", schemaInitAttempts)

		_, err = db.ExecContext(ctx, schemaDDL)
		if err == nil {
			logger.Log.Info("database schema initialized")
			return nil
		}

		logger.Log.Errorw("schema initialization failed", "attempt", attempt, "error", err)

		if attempt < schemaInitAttempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
	}

	return err
}
