package store

import (
	"context"

	"github.com/mnhdev/todo-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
// Notifications are append-only per owner and removed only in bulk; there
// is no single-notification delete and no update.
type NotificationStore interface {
	// Create saves a new notification to the store.
	// Returns validation errors from the domain Notification if data is invalid.
	Create(ctx context.Context, notification *domain.Notification) (InsertResult, error)

	// ListByOwner returns all of email's notifications in insertion order.
	ListByOwner(ctx context.Context, email string) ([]*domain.Notification, error)

	// DeleteAllForOwner removes every notification owned by email and
	// reports how many were removed. Other owners' rows are never touched.
	DeleteAllForOwner(ctx context.Context, email string) (DeleteResult, error)
}
