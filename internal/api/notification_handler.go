package api

import (
	"log/slog"
	"net/http"

	"github.com/mnhdev/todo-api/internal/api/shared"
	"github.com/mnhdev/todo-api/internal/domain"
	"github.com/mnhdev/todo-api/internal/store"
)

// NotificationHandler handles per-user notification requests: create, list
// and bulk-clear. Notifications are pull-only; nothing is pushed.
type NotificationHandler struct {
	notificationStore store.NotificationStore
}

// NewNotificationHandler creates a new NotificationHandler with the given dependencies.
func NewNotificationHandler(notificationStore store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notificationStore: notificationStore}
}

// SetNotification handles POST /api/v1/set-notifications.
func (h *NotificationHandler) SetNotification(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireOwner(w, r, identity, r.URL.Query().Get("email")) {
		return
	}

	var req domain.Notification
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// A body-supplied owner must agree with the identity; absent one, the
	// notification lands under the verified caller.
	if req.Email != "" && !requireOwner(w, r, identity, req.Email) {
		return
	}

	notification, err := domain.NewNotification(identity, req.Payload)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid notification data: "+err.Error())
		return
	}

	result, err := h.notificationStore.Create(r.Context(), notification)
	if err != nil {
		slog.Error("failed to create notification", "error", err, "email", identity)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ListNotifications handles GET /api/v1/notifications.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireOwner(w, r, identity, r.URL.Query().Get("email")) {
		return
	}

	notifications, err := h.notificationStore.ListByOwner(r.Context(), identity)
	if err != nil {
		slog.Error("failed to list notifications", "error", err, "email", identity)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}

// RemoveNotifications handles DELETE /api/v1/remove-notifications.
// Bulk clear for the verified identity only; there is no single delete.
func (h *NotificationHandler) RemoveNotifications(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	if !requireOwner(w, r, identity, r.URL.Query().Get("email")) {
		return
	}

	result, err := h.notificationStore.DeleteAllForOwner(r.Context(), identity)
	if err != nil {
		slog.Error("failed to clear notifications", "error", err, "email", identity)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to clear notifications")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
