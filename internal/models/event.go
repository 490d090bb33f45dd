package models

// TodoEvent is published to Kafka after every successful todo mutation.
type TodoEvent struct {
	EventID   string `json:"event_id"`  // Unique event identifier
	UserID    string `json:"user_id"`   // Owner of the todo
	TodoID    int64  `json:"todo_id"`   // Affected todo
	Action    string `json:"action"`    // created | updated | deleted
	Timestamp int64  `json:"timestamp"` // Unix seconds
}
