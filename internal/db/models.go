package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/siteframe/internal/domain"
)

// User is a stored forms login account
type User struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewUser creates a new User with a generated UUID
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:        uuid.New().String(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}
}

// ToDomain converts the stored row to the identity handed to handlers
func (u *User) ToDomain() (*domain.User, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, domain.WrapDatabaseOperation("parse user id", err)
	}
	return &domain.User{ID: id, Username: u.Username, CreatedAt: u.CreatedAt}, nil
}
