package middleware

import (
	"errors"
	"net/http"

	"github.com/mnhdev/todo-api/internal/api/shared"
	"github.com/mnhdev/todo-api/internal/service/auth"
)

// AuthMiddleware is the access guard: it gates every task, notification and
// search route behind the session cookie, verifying the token and attaching
// the identity claim to the request context. Login, logout, registration
// and the liveness route bypass it.
type AuthMiddleware struct {
	tokenService auth.TokenService
	cookieName   string
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		cookieName:   cookieName,
	}
}

// Authenticate validates the session token from the request cookie and adds
// the verified email identity to the request context for authorized requests.
//
// A missing cookie and a failing token are distinct conditions with distinct
// client messages; both stop the request before any handler runs.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil {
			if errors.Is(err, http.ErrNoCookie) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized access")
				return
			}
			shared.RespondWithError(w, r, http.StatusInternalServerError, err.Error())
			return
		}

		claims, err := m.tokenService.VerifyToken(r.Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken),
				errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "You are not authorized")
			default:
				shared.RespondWithError(w, r, http.StatusInternalServerError, err.Error())
			}
			return
		}

		ctx := shared.WithIdentity(r.Context(), claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
