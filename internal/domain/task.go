package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task status values with special query semantics. Status is otherwise a
// free-form caller-supplied string.
const (
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
)

// Common validation errors
var (
	ErrEmptyTaskID    = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwner = errors.New("task owner email cannot be empty")
)

// Task represents a single todo item owned by exactly one user.
//
// Clients historically wrote arbitrary fields alongside the known ones, so
// the entity keeps everything it does not model explicitly in Extra and
// flattens it back out on the wire. The owner email is immutable after
// creation: no operation rewrites it.
type Task struct {
	ID        uuid.UUID
	Email     string
	Title     string
	Status    string
	Date      string
	Extra     map[string]any
	CreatedAt time.Time
}

// NewTask builds a Task from a decoded request body, assigning a fresh ID
// and creation timestamp. Returns an error if validation fails.
func NewTask(email, title, status, date string, extra map[string]any) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		Email:     email,
		Title:     title,
		Status:    status,
		Date:      date,
		Extra:     extra,
		CreatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Email == "" {
		return ErrEmptyTaskOwner
	}
	return nil
}

// MarshalJSON flattens the task into a single JSON object: the known fields
// plus every caller-supplied extra field, matching what clients stored.
// CreatedAt is internal bookkeeping (aggregation encounter order) and is
// not exposed.
func (t *Task) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+5)
	for k, v := range t.Extra {
		out[k] = v
	}
	out["_id"] = t.ID
	out["email"] = t.Email
	out["title"] = t.Title
	out["status"] = t.Status
	out["date"] = t.Date
	return json.Marshal(out)
}

// UnmarshalJSON splits an arbitrary JSON object into the known task fields
// and the Extra map. A client-sent "_id" is discarded; IDs are always
// server-generated.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Email = popString(raw, "email")
	t.Title = popString(raw, "title")
	t.Status = popString(raw, "status")
	t.Date = popString(raw, "date")
	delete(raw, "_id")

	if len(raw) > 0 {
		t.Extra = raw
	} else {
		t.Extra = nil
	}
	return nil
}

// popString removes key from raw and returns its value when it is a string.
// Non-string values stay in raw so they survive as extra fields instead of
// being silently dropped.
func popString(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	delete(raw, key)
	return s
}
