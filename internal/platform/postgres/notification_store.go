package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mnhdev/todo-api/internal/domain"
	"github.com/mnhdev/todo-api/internal/platform/logger"
	"github.com/mnhdev/todo-api/internal/store"
)

// PostgresNotificationStore implements the store.NotificationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a new PostgreSQL implementation of
// the NotificationStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

// Ensure PostgresNotificationStore implements store.NotificationStore interface
var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Create implements store.NotificationStore.Create
func (s *PostgresNotificationStore) Create(ctx context.Context, notification *domain.Notification) (store.InsertResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := notification.Validate(); err != nil {
		log.Warn("notification validation failed during create",
			slog.String("error", err.Error()))
		return store.InsertResult{}, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	payload, err := marshalDoc(notification.Payload)
	if err != nil {
		return store.InsertResult{}, fmt.Errorf("failed to encode notification payload: %w", err)
	}

	query := `
		INSERT INTO notifications (id, email, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = s.db.ExecContext(ctx, query,
		notification.ID,
		notification.Email,
		payload,
		notification.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create notification",
			slog.String("error", err.Error()),
			slog.String("email", notification.Email))
		return store.InsertResult{}, fmt.Errorf("failed to create notification: %w", err)
	}

	log.Info("notification created",
		slog.String("notification_id", notification.ID.String()),
		slog.String("email", notification.Email))

	return store.InsertResult{Acknowledged: true, InsertedID: notification.ID}, nil
}

// ListByOwner implements store.NotificationStore.ListByOwner
func (s *PostgresNotificationStore) ListByOwner(ctx context.Context, email string) ([]*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, email, payload, created_at
		FROM notifications
		WHERE email = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		log.Error("failed to query notifications",
			slog.String("error", err.Error()),
			slog.String("email", email))
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.Email, &payload, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		doc, err := unmarshalDoc(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode notification payload: %w", err)
		}
		n.Payload = doc
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}

	return notifications, nil
}

// DeleteAllForOwner implements store.NotificationStore.DeleteAllForOwner
func (s *PostgresNotificationStore) DeleteAllForOwner(ctx context.Context, email string) (store.DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE email = $1`, email)
	if err != nil {
		log.Error("failed to delete notifications",
			slog.String("error", err.Error()),
			slog.String("email", email))
		return store.DeleteResult{}, fmt.Errorf("failed to delete notifications: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("notifications cleared",
		slog.String("email", email),
		slog.Int64("deleted", affected))

	return store.DeleteResult{Acknowledged: true, DeletedCount: affected}, nil
}
