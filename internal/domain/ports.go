package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Secondary Ports (Infrastructure)
// ============================================================================

// UserMapper resolves the identifier stored in an auth cookie back to a user
type UserMapper interface {
	GetUserFromIdentifier(ctx context.Context, id uuid.UUID) (*User, error)
}

// CredentialValidator checks a username/password pair and returns the user's identifier
type CredentialValidator interface {
	ValidateUser(ctx context.Context, username, password string) (uuid.UUID, error)
}

// ============================================================================
// Entities
// ============================================================================

// User is the authenticated identity handed to request handlers
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ============================================================================
// Request/Response Types
// ============================================================================

// LoginRequest represents a forms login submission
type LoginRequest struct {
	Username   string `json:"username" form:"username" binding:"required"`
	Password   string `json:"password" form:"password" binding:"required"`
	RememberMe bool   `json:"remember_me" form:"-"` // forms post "on"; read separately
}
