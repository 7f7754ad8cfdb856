package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/mnhdev/todo-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every read and mutation except RunningSummary is scoped by the owner
// email: an id belonging to another owner behaves exactly like a missing
// id. Callers pass the verified identity, never a client-supplied value.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) (InsertResult, error)

	// ListActive returns all of email's tasks whose status is not
	// "completed", ordered by status descending then date ascending.
	ListActive(ctx context.Context, email string) ([]*domain.Task, error)

	// ListCompleted returns all of email's tasks whose status is
	// "completed". No particular order is guaranteed.
	ListCompleted(ctx context.Context, email string) ([]*domain.Task, error)

	// RunningSummary aggregates tasks with status "running" across ALL
	// owners: a count plus the titles joined with ", " in insertion order.
	// An empty aggregation yields {Count: 0, Titles: ""}.
	RunningSummary(ctx context.Context) (*RunningSummary, error)

	// GetByID retrieves one task by id, additionally filtered by owner.
	// Returns ErrTaskNotFound if the id does not exist or belongs to a
	// different owner.
	GetByID(ctx context.Context, id uuid.UUID, email string) (*domain.Task, error)

	// Update applies a partial field merge to the task matched by id and
	// owner. Known fields update their columns; unknown fields merge into
	// the extra document. A foreign or missing id matches zero rows.
	Update(ctx context.Context, id uuid.UUID, email string, fields map[string]any) (UpdateResult, error)

	// Delete physically removes the task matched by id and owner.
	Delete(ctx context.Context, id uuid.UUID, email string) (DeleteResult, error)

	// Search returns the ids of email's tasks whose title contains the
	// given substring, case-insensitively. An empty substring matches all.
	Search(ctx context.Context, email, title string) ([]uuid.UUID, error)
}
