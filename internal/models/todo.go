package models

import "time"

// Todo statuses. The database enforces the same set with a CHECK constraint.
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// ValidStatus reports whether s is one of the allowed todo statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// TodoDB represents a todo record in the database together with its
// aggregated tag names.
type TodoDB struct {
	ID        int64     `json:"id" db:"id"`                 // Surrogate primary key
	UserID    string    `json:"user_id" db:"user_id"`       // Owning user
	Title     string    `json:"title" db:"title"`           // Title
	Status    string    `json:"status" db:"status"`         // One of the Status* constants
	Deadline  time.Time `json:"deadline" db:"deadline"`     // Deadline timestamp
	Content   string    `json:"content" db:"content"`       // Free-text content
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Creation timestamp
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // Last update timestamp
	Tags      []string  `json:"tags" db:"-"`                // Aggregated tag names, alphabetical
}

// TodoPatch carries optional field updates for a todo.
// Nil fields are left unchanged; a non-nil Tags fully replaces the tag set.
type TodoPatch struct {
	Title    *string
	Status   *string
	Deadline *time.Time
	Content  *string
	Tags     []string
	HasTags  bool // distinguishes "tags: []" (clear) from tags absent
}
