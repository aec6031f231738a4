package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is what a token asserts: who, under which stable id, with which role.
type Identity struct {
	Username string
	UserID   uuid.UUID
	Role     Role
}

// Credential is the stored login record behind an Identity.
type Credential struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity returns the identity a token for c should carry.
func (c *Credential) Identity() Identity {
	return Identity{Username: c.Username, UserID: c.ID, Role: c.Role}
}

// Token is a signed bearer token and the instant it stops being valid.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims is the verified content of a token. Role is kept as the raw claim
// string; normalisation happens in the validator.
type Claims struct {
	Subject   string
	UserID    string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
