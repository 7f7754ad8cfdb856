package api

import "github.com/google/uuid"

// Common request/response structures

// LoginRequest defines the payload for the token-issuance endpoint. Bodies
// may carry arbitrary extra profile fields; only the email identity claim
// matters here and the rest is ignored.
type LoginRequest struct {
	Email string `json:"email" validate:"required"`
}

// WelcomeResponse is returned when an already-registered email registers
// again. InsertedID stays null to signal that no new record was created.
type WelcomeResponse struct {
	Message    string     `json:"message"`
	InsertedID *uuid.UUID `json:"insertedId"`
}

// TaskRef is the projection returned by the search endpoint: record
// identifiers only, nothing else.
type TaskRef struct {
	ID uuid.UUID `json:"_id"`
}
