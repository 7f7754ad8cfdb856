package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mnhdev/todo-api/internal/domain"
	"github.com/mnhdev/todo-api/internal/platform/logger"
	"github.com/mnhdev/todo-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) (store.InsertResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()))
		return store.InsertResult{}, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	extra, err := marshalDoc(user.Extra)
	if err != nil {
		return store.InsertResult{}, fmt.Errorf("failed to encode user extra fields: %w", err)
	}

	query := `
		INSERT INTO users (id, email, name, role, extra, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		extra,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The registration endpoint checks first, but two concurrent
			// registrations for one email can still collide here.
			return store.InsertResult{}, store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("email", user.Email))
		return store.InsertResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("email", user.Email))

	return store.InsertResult{Acknowledged: true, InsertedID: user.ID}, nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, email, name, role, extra, created_at
		FROM users
		WHERE email = $1
	`

	var user domain.User
	var extra []byte
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&extra,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email",
			slog.String("error", err.Error()),
			slog.String("email", email))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	doc, err := unmarshalDoc(extra)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user extra fields: %w", err)
	}
	user.Extra = doc

	return &user, nil
}
