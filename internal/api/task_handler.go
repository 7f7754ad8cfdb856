package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mnhdev/todo-api/internal/api/shared"
	"github.com/mnhdev/todo-api/internal/domain"
	"github.com/mnhdev/todo-api/internal/store"
)

// TaskHandler handles task CRUD, query and search requests. Every route it
// serves sits behind the access guard; each handler then re-checks that the
// request's target owner equals the verified identity before touching data.
type TaskHandler struct {
	taskStore store.TaskStore
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	return &TaskHandler{taskStore: taskStore}
}

// CreateTask handles POST /api/v1/create-task.
// The body's owner email must match the verified identity; a task cannot be
// planted under someone else's account.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req domain.Task
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if !requireOwner(w, r, identity, req.Email) {
		return
	}

	task, err := domain.NewTask(req.Email, req.Title, req.Status, req.Date, req.Extra)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	result, err := h.taskStore.Create(r.Context(), task)
	if err != nil {
		slog.Error("failed to create task", "error", err, "email", identity)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ListTasks handles GET /api/v1/tasks.
// Active tasks only: everything whose status is not "completed", grouped by
// status descending and chronological within each status.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireOwner(w, r, identity, r.URL.Query().Get("email")) {
		return
	}

	tasks, err := h.taskStore.ListActive(r.Context(), identity)
	if err != nil {
		slog.Error("failed to list tasks", "error", err, "email", identity)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// ListCompletedTasks handles GET /api/v1/completed-tasks.
func (h *TaskHandler) ListCompletedTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireOwner(w, r, identity, r.URL.Query().Get("email")) {
		return
	}

	tasks, err := h.taskStore.ListCompleted(r.Context(), identity)
	if err != nil {
		slog.Error("failed to list completed tasks", "error", err, "email", identity)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list completed tasks")
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// RunningTasks handles GET /api/v1/running-tasks.
// This is the one deliberately unscoped read: a dashboard summary of
// running tasks across every user. An empty aggregation responds
// {"count":0,"titles":""} rather than an empty body.
func (h *TaskHandler) RunningTasks(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}

	summary, err := h.taskStore.RunningSummary(r.Context())
	if err != nil {
		slog.Error("failed to summarize running tasks", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to summarize running tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// GetTask handles GET /api/v1/single-task/{id}.
// A task that does not exist, or exists under another owner, responds with
// a JSON null body rather than a 404, matching what clients expect from the
// original findOne semantics.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireOwner(w, r, identity, r.URL.Query().Get("email")) {
		return
	}

	id, err := getPathID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), id, identity)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithJSON(w, r, http.StatusOK, nil)
			return
		}
		slog.Error("failed to get task", "error", err, "task_id", id)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PATCH /api/v1/update-tasks/{id}.
// Partial merge: every body field is applied to the matched task. The match
// is scoped to the verified identity, so a foreign id reports zero matched
// rows instead of mutating another user's task.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	var fields map[string]any
	if err := shared.DecodeJSON(r, &fields); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := h.taskStore.Update(r.Context(), id, identity, fields)
	if err != nil {
		slog.Error("failed to update task", "error", err, "task_id", id)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// DeleteTask handles DELETE /api/v1/delete-tasks/{id}.
// Physical removal, scoped to the verified identity.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	result, err := h.taskStore.Delete(r.Context(), id, identity)
	if err != nil {
		slog.Error("failed to delete task", "error", err, "task_id", id)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// SearchTasks handles GET /api/v1/search.
// Case-insensitive substring match over the caller's own task titles,
// projected down to identifiers only. An empty search term matches all.
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireOwner(w, r, identity, r.URL.Query().Get("email")) {
		return
	}

	ids, err := h.taskStore.Search(r.Context(), identity, r.URL.Query().Get("search"))
	if err != nil {
		slog.Error("failed to search tasks", "error", err, "email", identity)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to search tasks")
		return
	}

	refs := make([]TaskRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, TaskRef{ID: id})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, refs)
}
