package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mnhdev/todo-api/internal/api/shared"
	"github.com/mnhdev/todo-api/internal/domain"
	"github.com/mnhdev/todo-api/internal/store"
)

// UserHandler handles user registration. Registration precedes login, so
// this endpoint is deliberately outside the access guard.
type UserHandler struct {
	userStore store.UserStore
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userStore store.UserStore) *UserHandler {
	return &UserHandler{userStore: userStore}
}

// CreateUser handles POST /api/v1/create-user.
// Registration is an idempotent upsert keyed by email: an existing profile
// is greeted instead of duplicated, with insertedId null marking the no-op.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.User
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	existing, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, WelcomeResponse{
			Message: existing.WelcomeMessage(),
		})
		return
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		slog.Error("failed to look up user", "error", err, "email", req.Email)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := domain.NewUser(req.Email, req.Name, req.Role, req.Extra)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	result, err := h.userStore.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			// Lost a race with a concurrent registration for the same
			// email; idempotent semantics still hold.
			shared.RespondWithJSON(w, r, http.StatusOK, WelcomeResponse{
				Message: user.WelcomeMessage(),
			})
			return
		}
		slog.Error("failed to create user", "error", err, "email", req.Email)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
