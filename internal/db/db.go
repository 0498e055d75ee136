package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siteframe/internal/domain"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
	dbPath string
}

// Init initializes the database connection and runs migrations
func Init(dbPath string) (*DB, error) {
	// Ensure data directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}

	db := &DB{sqlDB, dbPath}

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// GetDBPath returns the database file path
func (db *DB) GetDBPath() string {
	return db.dbPath
}

// CreateUser stores a new user with a bcrypt hash of password
func (db *DB) CreateUser(ctx context.Context, username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return nil, domain.WrapValidationError("password", err)
	}

	user := NewUser(username, string(hash))
	_, err = db.ExecContext(ctx,
		"INSERT INTO users (id, username, password, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, user.Password, user.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, domain.WrapDatabaseOperation("create user", err)
	}

	return user, nil
}

// GetUser retrieves a user by username
func (db *DB) GetUser(ctx context.Context, username string) (*User, error) {
	user := &User{}
	err := db.QueryRowContext(ctx,
		"SELECT id, username, password, created_at FROM users WHERE username = ? COLLATE NOCASE",
		username,
	).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapUserNotFound(username, nil)
	}
	if err != nil {
		return nil, domain.WrapDatabaseOperation("get user", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by identifier
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user := &User{}
	err := db.QueryRowContext(ctx,
		"SELECT id, username, password, created_at FROM users WHERE id = ?",
		id.String(),
	).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapUserNotFound(id.String(), nil)
	}
	if err != nil {
		return nil, domain.WrapDatabaseOperation("get user", err)
	}
	return user, nil
}

// GetUserFromIdentifier maps an auth cookie subject to a user
func (db *DB) GetUserFromIdentifier(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := db.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToDomain()
}

// ValidateUser checks a username/password pair and returns the user's identifier
func (db *DB) ValidateUser(ctx context.Context, username, password string) (uuid.UUID, error) {
	user, err := db.GetUser(ctx, username)
	if err != nil {
		if domain.IsNotFoundError(err) {
			// Burn the same time as a real comparison
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return uuid.Nil, domain.ErrAuthFailed
		}
		return uuid.Nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return uuid.Nil, domain.ErrAuthFailed
	}

	id, err := uuid.Parse(user.ID)
	if err != nil {
		return uuid.Nil, domain.WrapDatabaseOperation("parse user id", err)
	}
	return id, nil
}

// CountUsers returns the number of stored users
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, domain.WrapDatabaseOperation("count users", err)
	}
	return count, nil
}

// HealthCheck pings the database within timeout
func (db *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}

// passwordCost is shared by stored hashes and dummyHash so unknown users
// take as long to reject as known ones
const passwordCost = bcrypt.DefaultCost

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("siteframe-dummy-password"), passwordCost)

func isUniqueConstraintError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
