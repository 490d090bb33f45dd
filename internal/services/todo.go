package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
	"github.com/segmentio/kafka-go"
)

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrInvalidStatus = errors.New("status must be one of not-started, in-progress, done")
)

// TodoReader defines todo read operations.
type TodoReader interface {
	ListByUserID(ctx context.Context, userID string) ([]models.TodoDB, error)
	GetByID(ctx context.Context, userID string, id int64) (*models.TodoDB, error)
}

// TodoWriter defines todo write operations.
type TodoWriter interface {
	Save(ctx context.Context, userID, title, status string, deadline time.Time, content string) (*models.TodoDB, error)
	Update(ctx context.Context, userID string, id int64, patch models.TodoPatch) (*models.TodoDB, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// TagWriter defines lazy tag creation and link operations.
type TagWriter interface {
	Upsert(ctx context.Context, name string) (int64, error)
	Link(ctx context.Context, todoID, tagID int64) error
	UnlinkAll(ctx context.Context, todoID int64) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TodoService handles owner-scoped todo CRUD and event publishing.
type TodoService struct {
	reader      TodoReader
	writer      TodoWriter
	tagWriter   TagWriter
	kafkaWriter KafkaWriter
}

// NewTodoService creates a new TodoService. kafkaWriter may be nil,
// in which case event publishing is skipped.
func NewTodoService(reader TodoReader, writer TodoWriter, tagWriter TagWriter, kafkaWriter KafkaWriter) *TodoService {
	return &TodoService{
		reader:      reader,
		writer:      writer,
		tagWriter:   tagWriter,
		kafkaWriter: kafkaWriter,
	}
}

// publishEvent publishes a todo lifecycle event to Kafka.
func (s *TodoService) publishEvent(ctx context.Context, userID string, todoID int64, action string) {
	if s.kafkaWriter == nil {
		return
	}

	event := models.TodoEvent{
		EventID:   uuid.NewString(),
		UserID:    userID,
		TodoID:    todoID,
		Action:    action,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal todo event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish todo event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("todo event published", "event_id", event.EventID, "action", action, "todo_id", todoID)
	}
}

// applyTags upserts and links each tag name, skipping individual
// failures rather than aborting the whole operation. Returns the names
// that were successfully linked, sorted alphabetically to match the
// aggregation order used by reads.
func (s *TodoService) applyTags(ctx context.Context, todoID int64, tags []string) []string {
	applied := make([]string, 0, len(tags))
	for _, name := range tags {
		tagID, err := s.tagWriter.Upsert(ctx, name)
		if err != nil {
			logger.Log.Errorw("failed to upsert tag, skipping", "tag", name, "todo_id", todoID, "error", err)
			continue
		}
		if err := s.tagWriter.Link(ctx, todoID, tagID); err != nil {
			logger.Log.Errorw("failed to link tag, skipping", "tag", name, "todo_id", todoID, "error", err)
			continue
		}
		applied = append(applied, name)
	}
	sort.Strings(applied)
	return applied
}

// Create inserts a todo with its tags and publishes a created event.
func (s *TodoService) Create(ctx context.Context, userID, title, status string, deadline time.Time, content string, tags []string) (*models.TodoDB, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	todo, err := s.writer.Save(ctx, userID, title, status, deadline, content)
	if err != nil {
		logger.Log.Errorw("failed to save todo", "user_id", userID, "error", err)
		return nil, err
	}

	todo.Tags = s.applyTags(ctx, todo.ID, tags)

	s.publishEvent(ctx, userID, todo.ID, "created")
	return todo, nil
}

// List returns all todos owned by userID, newest created first.
func (s *TodoService) List(ctx context.Context, userID string) ([]models.TodoDB, error) {
	todos, err := s.reader.ListByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list todos", "user_id", userID, "error", err)
		return nil, err
	}
	return todos, nil
}

// Update applies the supplied fields to a todo owned by userID. A
// supplied tag set fully replaces the existing links; tag rows persist.
func (s *TodoService) Update(ctx context.Context, userID string, id int64, patch models.TodoPatch) (*models.TodoDB, error) {
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, ErrInvalidStatus
	}

	_, err := s.writer.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		logger.Log.Errorw("failed to update todo", "user_id", userID, "todo_id", id, "error", err)
		return nil, err
	}

	if patch.HasTags {
		if err := s.tagWriter.UnlinkAll(ctx, id); err != nil {
			logger.Log.Errorw("failed to clear tag links", "todo_id", id, "error", err)
			return nil, err
		}
		s.applyTags(ctx, id, patch.Tags)
	}

	todo, err := s.reader.GetByID(ctx, userID, id)
	if err != nil {
		logger.Log.Errorw("failed to reload todo", "user_id", userID, "todo_id", id, "error", err)
		return nil, err
	}
	if todo == nil {
		return nil, ErrTodoNotFound
	}

	s.publishEvent(ctx, userID, id, "updated")
	return todo, nil
}

// Delete removes a todo owned by userID and publishes a deleted event.
func (s *TodoService) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.writer.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTodoNotFound
		}
		logger.Log.Errorw("failed to delete todo", "user_id", userID, "todo_id", id, "error", err)
		return err
	}

	s.publishEvent(ctx, userID, id, "deleted")
	return nil
}
