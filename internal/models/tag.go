package models

// TagDB represents a tag record in the database. Tags are created
// lazily on first reference and never deleted; orphan tags are expected.
type TagDB struct {
	ID   int64  `json:"id" db:"id"`     // Surrogate primary key
	Name string `json:"name" db:"name"` // Unique name
}
