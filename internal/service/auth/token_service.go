package auth

import (
	"context"
	"time"
)

// TokenService defines operations for managing the signed session credential.
// The token is the whole session: no server-side session state exists, so
// its signature expiry is the only invalidation besides an explicit logout.
type TokenService interface {
	// IssueToken creates a signed session token carrying the user's email
	// identity claim with a fixed lifetime.
	// Returns the token string or an error if signing fails.
	IssueToken(ctx context.Context, email string) (string, error)

	// VerifyToken validates the provided token string and extracts the
	// identity claim. Returns ErrExpiredToken or ErrInvalidToken on
	// failure. A missing token is the caller's condition to detect; this
	// method is only ever handed a token that was actually presented.
	VerifyToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified contents of a session token.
type Claims struct {
	// Email is the identity claim: the authoritative caller identity for
	// every ownership check downstream.
	Email string `json:"email"`

	// Standard registered JWT claims
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
