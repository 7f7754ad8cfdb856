package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mnhdev/todo-api/internal/api/shared"
	"github.com/mnhdev/todo-api/internal/domain"
	"github.com/mnhdev/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIdentity = "ada@example.com"

// authedRequest builds a request carrying a verified identity, as if the
// access guard had already run.
func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(shared.WithIdentity(req.Context(), testIdentity))
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	t.Run("stores task for the verified owner", func(t *testing.T) {
		t.Parallel()

		insertedID := uuid.New()
		taskStore := &mockTaskStore{
			createFunc: func(ctx context.Context, task *domain.Task) (store.InsertResult, error) {
				assert.Equal(t, testIdentity, task.Email)
				assert.Equal(t, "write report", task.Title)
				assert.Equal(t, domain.TaskStatusRunning, task.Status)
				assert.Equal(t, map[string]any{"priority": "high"}, task.Extra)
				return store.InsertResult{Acknowledged: true, InsertedID: insertedID}, nil
			},
		}
		handler := NewTaskHandler(taskStore)

		body := `{"email":"ada@example.com","title":"write report","status":"running","date":"2023-05-01","priority":"high"}`
		rr := httptest.NewRecorder()
		handler.CreateTask(rr, authedRequest(http.MethodPost, "/api/v1/create-task", body))

		assert.Equal(t, http.StatusOK, rr.Code)
		got := decodeBody(t, rr)
		assert.Equal(t, true, got["acknowledged"])
		assert.Equal(t, insertedID.String(), got["insertedId"])
	})

	t.Run("rejects a task planted under another owner", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(&mockTaskStore{})

		body := `{"email":"mallory@example.com","title":"theirs"}`
		rr := httptest.NewRecorder()
		handler.CreateTask(rr, authedRequest(http.MethodPost, "/api/v1/create-task", body))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Forbidden Access", decodeBody(t, rr)["message"])
	})

	t.Run("rejects an unauthenticated request", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(&mockTaskStore{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/create-task", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		handler.CreateTask(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Unauthorized access", decodeBody(t, rr)["message"])
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	t.Run("returns active tasks with extra fields flattened", func(t *testing.T) {
		t.Parallel()

		taskID := uuid.New()
		taskStore := &mockTaskStore{
			listActiveFunc: func(ctx context.Context, email string) ([]*domain.Task, error) {
				assert.Equal(t, testIdentity, email)
				return []*domain.Task{{
					ID:     taskID,
					Email:  email,
					Title:  "write report",
					Status: domain.TaskStatusRunning,
					Date:   "2023-05-01",
					Extra:  map[string]any{"priority": "high"},
				}}, nil
			},
		}
		handler := NewTaskHandler(taskStore)

		rr := httptest.NewRecorder()
		handler.ListTasks(rr, authedRequest(http.MethodGet, "/api/v1/tasks?email=ada%40example.com", ""))

		assert.Equal(t, http.StatusOK, rr.Code)

		var got []map[string]any
		require.NoError(t, jsonUnmarshal(rr, &got))
		require.Len(t, got, 1)
		assert.Equal(t, taskID.String(), got[0]["_id"])
		assert.Equal(t, "write report", got[0]["title"])
		assert.Equal(t, "high", got[0]["priority"])
	})

	t.Run("empty result is an empty array, not null", func(t *testing.T) {
		t.Parallel()

		taskStore := &mockTaskStore{
			listActiveFunc: func(ctx context.Context, email string) ([]*domain.Task, error) {
				return nil, nil
			},
		}
		handler := NewTaskHandler(taskStore)

		rr := httptest.NewRecorder()
		handler.ListTasks(rr, authedRequest(http.MethodGet, "/api/v1/tasks?email=ada%40example.com", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	})

	t.Run("rejects a query for another owner's tasks", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(&mockTaskStore{})

		rr := httptest.NewRecorder()
		handler.ListTasks(rr, authedRequest(http.MethodGet, "/api/v1/tasks?email=mallory%40example.com", ""))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Forbidden Access", decodeBody(t, rr)["message"])
	})
}

func TestRunningTasks(t *testing.T) {
	t.Parallel()

	t.Run("returns the cross-user summary", func(t *testing.T) {
		t.Parallel()

		taskStore := &mockTaskStore{
			runningSummaryFunc: func(ctx context.Context) (*store.RunningSummary, error) {
				return &store.RunningSummary{Count: 2, Titles: "write report, review code"}, nil
			},
		}
		handler := NewTaskHandler(taskStore)

		rr := httptest.NewRecorder()
		handler.RunningTasks(rr, authedRequest(http.MethodGet, "/api/v1/running-tasks", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		got := decodeBody(t, rr)
		assert.Equal(t, float64(2), got["count"])
		assert.Equal(t, "write report, review code", got["titles"])
	})

	t.Run("empty aggregation keeps the shape", func(t *testing.T) {
		t.Parallel()

		taskStore := &mockTaskStore{
			runningSummaryFunc: func(ctx context.Context) (*store.RunningSummary, error) {
				return &store.RunningSummary{}, nil
			},
		}
		handler := NewTaskHandler(taskStore)

		rr := httptest.NewRecorder()
		handler.RunningTasks(rr, authedRequest(http.MethodGet, "/api/v1/running-tasks", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		got := decodeBody(t, rr)
		assert.Equal(t, float64(0), got["count"])
		assert.Equal(t, "", got["titles"])
	})
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	t.Run("returns the matched task", func(t *testing.T) {
		t.Parallel()

		taskStore := &mockTaskStore{
			getByIDFunc: func(ctx context.Context, id uuid.UUID, email string) (*domain.Task, error) {
				assert.Equal(t, taskID, id)
				assert.Equal(t, testIdentity, email)
				return &domain.Task{ID: id, Email: email, Title: "write report"}, nil
			},
		}
		router := newGuardedRouter(testIdentity, http.MethodGet, "/single-task/{id}", NewTaskHandler(taskStore).GetTask)

		req := httptest.NewRequest(http.MethodGet, "/single-task/"+taskID.String()+"?email=ada%40example.com", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		got := decodeBody(t, rr)
		assert.Equal(t, taskID.String(), got["_id"])
		assert.Equal(t, "write report", got["title"])
	})

	t.Run("missing or foreign id responds with null", func(t *testing.T) {
		t.Parallel()

		taskStore := &mockTaskStore{
			getByIDFunc: func(ctx context.Context, id uuid.UUID, email string) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}
		router := newGuardedRouter(testIdentity, http.MethodGet, "/single-task/{id}", NewTaskHandler(taskStore).GetTask)

		req := httptest.NewRequest(http.MethodGet, "/single-task/"+uuid.NewString()+"?email=ada%40example.com", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
	})

	t.Run("rejects an unparseable id", func(t *testing.T) {
		t.Parallel()

		router := newGuardedRouter(testIdentity, http.MethodGet, "/single-task/{id}", NewTaskHandler(&mockTaskStore{}).GetTask)

		req := httptest.NewRequest(http.MethodGet, "/single-task/not-a-uuid?email=ada%40example.com", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid task id", decodeBody(t, rr)["message"])
	})
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	t.Run("forwards the partial field merge", func(t *testing.T) {
		t.Parallel()

		taskStore := &mockTaskStore{
			updateFunc: func(ctx context.Context, id uuid.UUID, email string, fields map[string]any) (store.UpdateResult, error) {
				assert.Equal(t, taskID, id)
				assert.Equal(t, testIdentity, email)
				assert.Equal(t, map[string]any{"status": "completed", "priority": "low"}, fields)
				return store.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
			},
		}
		router := newGuardedRouter(testIdentity, http.MethodPatch, "/update-tasks/{id}", NewTaskHandler(taskStore).UpdateTask)

		req := httptest.NewRequest(http.MethodPatch, "/update-tasks/"+taskID.String(),
			strings.NewReader(`{"status":"completed","priority":"low"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		got := decodeBody(t, rr)
		assert.Equal(t, float64(1), got["matchedCount"])
		assert.Equal(t, float64(1), got["modifiedCount"])
	})

	t.Run("foreign id reports zero matched rows", func(t *testing.T) {
		t.Parallel()

		taskStore := &mockTaskStore{
			updateFunc: func(ctx context.Context, id uuid.UUID, email string, fields map[string]any) (store.UpdateResult, error) {
				return store.UpdateResult{Acknowledged: true}, nil
			},
		}
		router := newGuardedRouter(testIdentity, http.MethodPatch, "/update-tasks/{id}", NewTaskHandler(taskStore).UpdateTask)

		req := httptest.NewRequest(http.MethodPatch, "/update-tasks/"+uuid.NewString(), strings.NewReader(`{"status":"completed"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		got := decodeBody(t, rr)
		assert.Equal(t, float64(0), got["matchedCount"])
		assert.Equal(t, float64(0), got["modifiedCount"])
	})
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()

	taskStore := &mockTaskStore{
		deleteFunc: func(ctx context.Context, id uuid.UUID, email string) (store.DeleteResult, error) {
			assert.Equal(t, taskID, id)
			assert.Equal(t, testIdentity, email)
			return store.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		},
	}
	router := newGuardedRouter(testIdentity, http.MethodDelete, "/delete-tasks/{id}", NewTaskHandler(taskStore).DeleteTask)

	req := httptest.NewRequest(http.MethodDelete, "/delete-tasks/"+taskID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody(t, rr)
	assert.Equal(t, true, got["acknowledged"])
	assert.Equal(t, float64(1), got["deletedCount"])
}

func TestSearchTasks(t *testing.T) {
	t.Parallel()

	t.Run("projects matches down to identifiers", func(t *testing.T) {
		t.Parallel()

		ids := []uuid.UUID{uuid.New(), uuid.New()}
		taskStore := &mockTaskStore{
			searchFunc: func(ctx context.Context, email, title string) ([]uuid.UUID, error) {
				assert.Equal(t, testIdentity, email)
				assert.Equal(t, "report", title)
				return ids, nil
			},
		}
		handler := NewTaskHandler(taskStore)

		rr := httptest.NewRecorder()
		handler.SearchTasks(rr, authedRequest(http.MethodGet, "/api/v1/search?email=ada%40example.com&search=report", ""))

		assert.Equal(t, http.StatusOK, rr.Code)

		var got []map[string]any
		require.NoError(t, jsonUnmarshal(rr, &got))
		require.Len(t, got, 2)
		assert.Equal(t, ids[0].String(), got[0]["_id"])
		assert.Equal(t, ids[1].String(), got[1]["_id"])
		assert.NotContains(t, got[0], "title", "projection carries ids only")
	})

	t.Run("no matches is an empty array", func(t *testing.T) {
		t.Parallel()

		taskStore := &mockTaskStore{
			searchFunc: func(ctx context.Context, email, title string) ([]uuid.UUID, error) {
				return nil, nil
			},
		}
		handler := NewTaskHandler(taskStore)

		rr := httptest.NewRecorder()
		handler.SearchTasks(rr, authedRequest(http.MethodGet, "/api/v1/search?email=ada%40example.com&search=nothing", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	})

	t.Run("rejects searching another owner's tasks", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(&mockTaskStore{})

		rr := httptest.NewRecorder()
		handler.SearchTasks(rr, authedRequest(http.MethodGet, "/api/v1/search?email=mallory%40example.com&search=report", ""))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
