package models

import "time"

// UserDB represents a user record in the database.
// The password hash is never serialized to API responses.
type UserDB struct {
	ID             string    `json:"id" db:"id"`                 // Caller-supplied identifier, primary key
	Email          string    `json:"email" db:"email"`           // Unique email
	HashedPassword string    `json:"-" db:"hashed_password"`     // bcrypt digest
	IsAdmin        bool      `json:"is_admin" db:"is_admin"`     // Administrator role flag
	CreatedAt      time.Time `json:"created_at" db:"created_at"` // Creation timestamp
}

// UserPatch carries optional field updates for a user.
// Nil fields are left unchanged by the update statement.
type UserPatch struct {
	Email          *string
	HashedPassword *string
	IsAdmin        *bool
}
