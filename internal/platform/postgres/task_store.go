package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mnhdev/todo-api/internal/domain"
	"github.com/mnhdev/todo-api/internal/platform/logger"
	"github.com/mnhdev/todo-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = "id, email, title, status, date, extra, created_at"

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) (store.InsertResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.InsertResult{}, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	extra, err := marshalDoc(task.Extra)
	if err != nil {
		return store.InsertResult{}, fmt.Errorf("failed to encode task extra fields: %w", err)
	}

	query := `
		INSERT INTO tasks (id, email, title, status, date, extra, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		task.ID,
		task.Email,
		task.Title,
		task.Status,
		task.Date,
		extra,
		task.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("email", task.Email))
		return store.InsertResult{}, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("email", task.Email),
		slog.String("status", task.Status))

	return store.InsertResult{Acknowledged: true, InsertedID: task.ID}, nil
}

// ListActive implements store.TaskStore.ListActive.
// Non-completed tasks come back grouped by status descending, then in
// chronological date order within each status.
func (s *PostgresTaskStore) ListActive(ctx context.Context, email string) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE email = $1 AND status <> $2
		ORDER BY status DESC, date ASC
	`
	return s.queryTasks(ctx, query, email, domain.TaskStatusCompleted)
}

// ListCompleted implements store.TaskStore.ListCompleted
func (s *PostgresTaskStore) ListCompleted(ctx context.Context, email string) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE email = $1 AND status = $2
	`
	return s.queryTasks(ctx, query, email, domain.TaskStatusCompleted)
}

// RunningSummary implements store.TaskStore.RunningSummary.
// The aggregation is deliberately unscoped: it counts running tasks across
// every owner. Titles join in insertion order, made explicit with the
// created_at ordering inside the aggregate.
func (s *PostgresTaskStore) RunningSummary(ctx context.Context) (*store.RunningSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*), COALESCE(STRING_AGG(title, ', ' ORDER BY created_at), '')
		FROM tasks
		WHERE status = $1
	`

	var summary store.RunningSummary
	err := s.db.QueryRowContext(ctx, query, domain.TaskStatusRunning).
		Scan(&summary.Count, &summary.Titles)
	if err != nil {
		log.Error("failed to aggregate running tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to aggregate running tasks: %w", err)
	}

	return &summary, nil
}

// GetByID implements store.TaskStore.GetByID.
// The owner filter makes a foreign id indistinguishable from a missing one.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID, email string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND email = $2
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update.
// Known fields become column assignments; everything else merges into the
// extra document. The owner column is never writable, and the owner filter
// in the WHERE clause means a foreign id matches zero rows.
func (s *PostgresTaskStore) Update(ctx context.Context, id uuid.UUID, email string, fields map[string]any) (store.UpdateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	setClauses, args, err := buildTaskUpdate(fields)
	if err != nil {
		return store.UpdateResult{}, err
	}

	if len(setClauses) == 0 {
		// Nothing to write; still report whether the target row exists so
		// the client sees the same matched count a real update would have.
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1 AND email = $2)`,
			id, email).Scan(&exists)
		if err != nil {
			return store.UpdateResult{}, fmt.Errorf("failed to check task existence: %w", err)
		}
		result := store.UpdateResult{Acknowledged: true}
		if exists {
			result.MatchedCount = 1
		}
		return result, nil
	}

	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d AND email = $%d`,
		strings.Join(setClauses, ", "),
		len(args)+1,
		len(args)+2,
	)
	args = append(args, id, email)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.UpdateResult{}, fmt.Errorf("failed to update task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("task updated",
		slog.String("task_id", id.String()),
		slog.Int64("matched", affected))

	return store.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  affected,
		ModifiedCount: affected,
	}, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID, email string) (store.DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND email = $2`, id, email)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.DeleteResult{}, fmt.Errorf("failed to delete task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("task deleted",
		slog.String("task_id", id.String()),
		slog.Int64("deleted", affected))

	return store.DeleteResult{Acknowledged: true, DeletedCount: affected}, nil
}

// Search implements store.TaskStore.Search.
// ILIKE with an escaped pattern gives the case-insensitive substring
// semantics; an empty search term degenerates to %% and matches everything.
func (s *PostgresTaskStore) Search(ctx context.Context, email, title string) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id
		FROM tasks
		WHERE email = $1 AND title ILIKE $2 ESCAPE '\'
	`

	rows, err := s.db.QueryContext(ctx, query, email, "%"+escapeLike(title)+"%")
	if err != nil {
		log.Error("failed to search tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task ids: %w", err)
	}

	return ids, nil
}

// queryTasks runs a multi-row task query and scans the results.
func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var extra []byte

	if err := row.Scan(
		&task.ID,
		&task.Email,
		&task.Title,
		&task.Status,
		&task.Date,
		&extra,
		&task.CreatedAt,
	); err != nil {
		return nil, err
	}

	doc, err := unmarshalDoc(extra)
	if err != nil {
		return nil, fmt.Errorf("failed to decode task extra fields: %w", err)
	}
	task.Extra = doc

	return &task, nil
}

// taskUpdateColumns are the task fields stored as real columns and directly
// assignable through a partial update. The owner email is deliberately
// absent: ownership is immutable after creation.
var taskUpdateColumns = []string{"title", "status", "date"}

// buildTaskUpdate turns a partial field merge into SET clauses and their
// arguments. String values for known columns become column assignments in a
// fixed order; every other field is folded into a single jsonb merge so
// arbitrary client fields survive the way they did in the document store.
func buildTaskUpdate(fields map[string]any) ([]string, []any, error) {
	patch := make(map[string]any, len(fields))
	for k, v := range fields {
		patch[k] = v
	}

	// Server-controlled fields are silently dropped, matching how the
	// entity decoder treats them on create.
	delete(patch, "_id")
	delete(patch, "email")

	var setClauses []string
	var args []any

	for _, col := range taskUpdateColumns {
		v, ok := patch[col]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			// Non-string values for column-backed fields keep their shape
			// inside the extra document instead of failing the whole merge.
			continue
		}
		delete(patch, col)
		args = append(args, s)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if len(patch) > 0 {
		encoded, err := marshalDoc(patch)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode update fields: %w", err)
		}
		args = append(args, encoded)
		setClauses = append(setClauses, fmt.Sprintf("extra = extra || $%d::jsonb", len(args)))
	}

	return setClauses, args, nil
}

// escapeLike escapes the LIKE/ILIKE metacharacters in a user-supplied
// search term so it matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
