package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/siteframe/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Init(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestInit_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	first, err := Init(path)
	if err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if _, err := first.CreateUser(context.Background(), "alice", "password123"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	first.Close()

	second, err := Init(path)
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	defer second.Close()

	count, err := second.CountUsers(context.Background())
	if err != nil || count != 1 {
		t.Errorf("CountUsers() = %d, %v, want 1", count, err)
	}

	var version int
	if err := second.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("schema_version: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("schema version = %d, want %d", version, len(migrations))
	}
}

func TestCreateUser(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	user, err := database.CreateUser(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Password == "password123" {
		t.Error("expected the password to be hashed")
	}
	if _, err := uuid.Parse(user.ID); err != nil {
		t.Errorf("expected a UUID id, got %q", user.ID)
	}

	if _, err := database.CreateUser(ctx, "ALICE", "another-password"); !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected duplicate username to fail, got %v", err)
	}
}

func TestGetUser(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	created, err := database.CreateUser(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	byName, err := database.GetUser(ctx, "alice")
	if err != nil || byName.ID != created.ID {
		t.Fatalf("GetUser() = %+v, %v", byName, err)
	}

	id := uuid.MustParse(created.ID)
	byID, err := database.GetUserByID(ctx, id)
	if err != nil || byID.Username != "alice" {
		t.Fatalf("GetUserByID() = %+v, %v", byID, err)
	}

	if _, err := database.GetUser(ctx, "bob"); !domain.IsNotFoundError(err) {
		t.Errorf("expected not found error, got %v", err)
	}
	if _, err := database.GetUserByID(ctx, uuid.New()); !domain.IsNotFoundError(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestGetUserFromIdentifier(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	created, err := database.CreateUser(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	var mapper domain.UserMapper = database
	user, err := mapper.GetUserFromIdentifier(ctx, uuid.MustParse(created.ID))
	if err != nil {
		t.Fatalf("GetUserFromIdentifier: %v", err)
	}
	if user.Username != "alice" || user.ID.String() != created.ID {
		t.Errorf("unexpected user: %+v", user)
	}
	if time.Since(user.CreatedAt) > time.Minute {
		t.Errorf("unexpected CreatedAt: %v", user.CreatedAt)
	}
}

func TestValidateUser(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	created, err := database.CreateUser(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid credentials", "alice", "password123", false},
		{"username is case insensitive", "Alice", "password123", false},
		{"wrong password", "alice", "password124", true},
		{"unknown user", "bob", "password123", true},
		{"empty password", "alice", "", true},
	}

	var validator domain.CredentialValidator = database
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := validator.ValidateUser(ctx, tt.username, tt.password)
			if tt.wantErr {
				if !domain.IsAuthError(err) {
					t.Errorf("expected auth error, got %v", err)
				}
				return
			}
			if err != nil || id.String() != created.ID {
				t.Errorf("ValidateUser() = %v, %v, want %s", id, err, created.ID)
			}
		})
	}
}

func TestValidateUser_UnknownUserHashCost(t *testing.T) {
	database := newTestDB(t)

	user, err := database.CreateUser(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	stored, err := bcrypt.Cost([]byte(user.Password))
	if err != nil {
		t.Fatalf("Cost(stored): %v", err)
	}
	dummy, err := bcrypt.Cost(dummyHash)
	if err != nil {
		t.Fatalf("Cost(dummyHash): %v", err)
	}
	if dummy != stored {
		t.Errorf("dummyHash cost = %d, stored hash cost = %d", dummy, stored)
	}
	if stored != passwordCost {
		t.Errorf("stored hash cost = %d, want %d", stored, passwordCost)
	}
}
