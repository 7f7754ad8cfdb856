package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID = errors.New("user ID cannot be empty")
	ErrEmptyEmail  = errors.New("email cannot be empty")
)

// User represents a registered user profile. Registration is an idempotent
// upsert keyed by email: a profile is created once and never updated or
// deleted through this API. There is no stored credential; identity is
// proven by the signed session token alone.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      string
	Extra     map[string]any
	CreatedAt time.Time
}

// NewUser builds a User from a decoded registration body, assigning a fresh
// ID and creation timestamp. Returns an error if validation fails.
func NewUser(email, name, role string, extra map[string]any) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Role:      role,
		Extra:     extra,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	return nil
}

// WelcomeMessage is the greeting returned when an already-registered email
// registers again. The wording (including the missing space before "user.")
// is kept byte-for-byte for client compatibility.
func (u *User) WelcomeMessage() string {
	if u.Role != "" {
		return "Welcome back " + u.Name + " as " + u.Role
	}
	return "Welcome back " + u.Name + "user."
}

// MarshalJSON flattens the user profile the same way tasks are flattened.
func (u *User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+4)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["_id"] = u.ID
	out["email"] = u.Email
	out["name"] = u.Name
	if u.Role != "" {
		out["role"] = u.Role
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits a registration body into the known profile fields
// and the Extra map.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.Email = popString(raw, "email")
	u.Name = popString(raw, "name")
	u.Role = popString(raw, "role")
	delete(raw, "_id")

	if len(raw) > 0 {
		u.Extra = raw
	} else {
		u.Extra = nil
	}
	return nil
}
