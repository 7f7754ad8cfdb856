package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyNotificationID    = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationOwner = errors.New("notification owner email cannot be empty")
)

// Notification is a pull-only message for a single user. Notifications are
// created by their owner, never updated, and only removed in bulk.
type Notification struct {
	ID        uuid.UUID
	Email     string
	Payload   map[string]any
	CreatedAt time.Time
}

// NewNotification builds a Notification owned by email, carrying the
// caller-supplied payload fields. Returns an error if validation fails.
func NewNotification(email string, payload map[string]any) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		Email:     email,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}
	if n.Email == "" {
		return ErrEmptyNotificationOwner
	}
	return nil
}

// MarshalJSON flattens the notification into its payload fields plus the
// identity columns.
func (n *Notification) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Payload)+2)
	for k, v := range n.Payload {
		out[k] = v
	}
	out["_id"] = n.ID
	out["email"] = n.Email
	return json.Marshal(out)
}

// UnmarshalJSON keeps every body field as payload except the identity
// columns, which are server-controlled.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.Email = popString(raw, "email")
	delete(raw, "_id")

	if len(raw) > 0 {
		n.Payload = raw
	} else {
		n.Payload = nil
	}
	return nil
}
