package store

import (
	"context"

	"github.com/mnhdev/todo-api/internal/domain"
)

// UserStore defines the interface for user profile persistence.
// Profiles are created once per email and never updated or deleted.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) (InsertResult, error)

	// GetByEmail retrieves a user by their email address (case-sensitive).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
