package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mnhdev/todo-api/internal/api/shared"
	"github.com/mnhdev/todo-api/internal/domain"
	"github.com/mnhdev/todo-api/internal/service/auth"
	"github.com/mnhdev/todo-api/internal/store"
	"github.com/stretchr/testify/require"
)

// mockTokenService implements auth.TokenService with function fields so each
// test can inject exactly the behavior it needs.
type mockTokenService struct {
	issueTokenFunc  func(ctx context.Context, email string) (string, error)
	verifyTokenFunc func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *mockTokenService) IssueToken(ctx context.Context, email string) (string, error) {
	return m.issueTokenFunc(ctx, email)
}

func (m *mockTokenService) VerifyToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return m.verifyTokenFunc(ctx, tokenString)
}

// mockUserStore implements store.UserStore with function fields.
type mockUserStore struct {
	createFunc     func(ctx context.Context, user *domain.User) (store.InsertResult, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) (store.InsertResult, error) {
	return m.createFunc(ctx, user)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

// mockTaskStore implements store.TaskStore with function fields.
type mockTaskStore struct {
	createFunc         func(ctx context.Context, task *domain.Task) (store.InsertResult, error)
	listActiveFunc     func(ctx context.Context, email string) ([]*domain.Task, error)
	listCompletedFunc  func(ctx context.Context, email string) ([]*domain.Task, error)
	runningSummaryFunc func(ctx context.Context) (*store.RunningSummary, error)
	getByIDFunc        func(ctx context.Context, id uuid.UUID, email string) (*domain.Task, error)
	updateFunc         func(ctx context.Context, id uuid.UUID, email string, fields map[string]any) (store.UpdateResult, error)
	deleteFunc         func(ctx context.Context, id uuid.UUID, email string) (store.DeleteResult, error)
	searchFunc         func(ctx context.Context, email, title string) ([]uuid.UUID, error)
}

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) (store.InsertResult, error) {
	return m.createFunc(ctx, task)
}

func (m *mockTaskStore) ListActive(ctx context.Context, email string) ([]*domain.Task, error) {
	return m.listActiveFunc(ctx, email)
}

func (m *mockTaskStore) ListCompleted(ctx context.Context, email string) ([]*domain.Task, error) {
	return m.listCompletedFunc(ctx, email)
}

func (m *mockTaskStore) RunningSummary(ctx context.Context) (*store.RunningSummary, error) {
	return m.runningSummaryFunc(ctx)
}

func (m *mockTaskStore) GetByID(ctx context.Context, id uuid.UUID, email string) (*domain.Task, error) {
	return m.getByIDFunc(ctx, id, email)
}

func (m *mockTaskStore) Update(ctx context.Context, id uuid.UUID, email string, fields map[string]any) (store.UpdateResult, error) {
	return m.updateFunc(ctx, id, email, fields)
}

func (m *mockTaskStore) Delete(ctx context.Context, id uuid.UUID, email string) (store.DeleteResult, error) {
	return m.deleteFunc(ctx, id, email)
}

func (m *mockTaskStore) Search(ctx context.Context, email, title string) ([]uuid.UUID, error) {
	return m.searchFunc(ctx, email, title)
}

// mockNotificationStore implements store.NotificationStore with function fields.
type mockNotificationStore struct {
	createFunc            func(ctx context.Context, notification *domain.Notification) (store.InsertResult, error)
	listByOwnerFunc       func(ctx context.Context, email string) ([]*domain.Notification, error)
	deleteAllForOwnerFunc func(ctx context.Context, email string) (store.DeleteResult, error)
}

func (m *mockNotificationStore) Create(ctx context.Context, notification *domain.Notification) (store.InsertResult, error) {
	return m.createFunc(ctx, notification)
}

func (m *mockNotificationStore) ListByOwner(ctx context.Context, email string) ([]*domain.Notification, error) {
	return m.listByOwnerFunc(ctx, email)
}

func (m *mockNotificationStore) DeleteAllForOwner(ctx context.Context, email string) (store.DeleteResult, error) {
	return m.deleteAllForOwnerFunc(ctx, email)
}

// identityMiddleware injects a verified identity the way the access guard
// would, so handlers under test see an authenticated request.
func identityMiddleware(email string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.WithIdentity(r.Context(), email)))
		})
	}
}

// newGuardedRouter wires a handler function onto a chi router behind an
// injected identity, matching how the server mounts guarded routes.
func newGuardedRouter(identity, method, pattern string, handlerFn http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(identityMiddleware(identity))
	r.Method(method, pattern, handlerFn)
	return r
}

// decodeBody unmarshals a recorded response body into a generic map.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// jsonUnmarshal decodes a recorded response body into v.
func jsonUnmarshal(rr *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rr.Body.Bytes(), v)
}
