package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mnhdev/todo-api/internal/api/shared"
	"github.com/mnhdev/todo-api/internal/service/auth"
)

// AuthHandler handles session establishment and teardown. There is no
// password exchange: presenting an email yields a signed session cookie,
// and logout simply clears it. The cookie is the entire session state.
type AuthHandler struct {
	tokenService auth.TokenService
	cookieName   string
	validator    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(tokenService auth.TokenService, cookieName string) *AuthHandler {
	return &AuthHandler{
		tokenService: tokenService,
		cookieName:   cookieName,
		validator:    validator.New(),
	}
}

// IssueToken handles POST /api/v1/auth/jwt.
// It signs a session token for the submitted email and sets it as the
// session cookie. A body without an email is a 400; the upstream behavior
// of leaving the request hanging was a bug, not a contract.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.tokenService.IssueToken(r.Context(), req.Email)
	if err != nil {
		slog.Error("failed to issue session token", "error", err, "email", req.Email)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to issue session token")
		return
	}

	// No Max-Age: a session-scoped browser cookie bounded by the token's
	// own 24h signature expiry. SameSite=None because the frontend lives
	// on a different origin.
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	shared.RespondWithJSON(w, r, http.StatusOK, shared.SuccessResponse{Success: true})
}

// Logout handles POST /api/v1/user/logout.
// It unconditionally clears the session cookie, whether or not a session
// existed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	shared.RespondWithJSON(w, r, http.StatusOK, shared.SuccessResponse{Success: true})
}
