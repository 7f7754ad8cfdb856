package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mnhdev/todo-api/internal/api/shared"
)

// requireIdentity extracts the verified identity set by the access guard.
// Writes a 401 and returns false when it is absent, which only happens if a
// route was wired without the guard.
func requireIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := shared.Identity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized access")
		return "", false
	}
	return identity, true
}

// requireOwner enforces the ownership scoping rule: the request's target
// email must equal the verified identity. Mismatch is rejected outright,
// never filtered silently. Returns false after writing the 403.
func requireOwner(w http.ResponseWriter, r *http.Request, identity, email string) bool {
	if email != identity {
		shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden Access")
		return false
	}
	return true
}

// getPathID extracts and parses the {id} path parameter.
func getPathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
