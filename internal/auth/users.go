package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// User errors returned by the store. Handlers map these to 4xx.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// User is a registered account. The password hash never leaves the store.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// UserStore manages user accounts with bcrypt-hashed passwords.
type UserStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewUserStore creates a new user store.
func NewUserStore(db *sql.DB, log zerolog.Logger) *UserStore {
	return &UserStore{
		db:  db,
		log: log.With().Str("component", "user_store").Logger(),
	}
}

// Register creates a new account. The password is stored as a bcrypt hash.
func (s *UserStore) Register(username, password string) (User, error) {
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	_, err = s.db.Exec(
		"INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Username, string(hash), user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUsernameTaken
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Str("username", username).Msg("user registered")
	return user, nil
}

// Authenticate verifies a username/password pair and returns the account.
func (s *UserStore) Authenticate(username, password string) (User, error) {
	var (
		user User
		hash string
	)
	err := s.db.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?", username,
	).Scan(&user.ID, &user.Username, &hash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ByID returns the account with the given id.
func (s *UserStore) ByID(id string) (User, bool, error) {
	var user User
	err := s.db.QueryRow(
		"SELECT id, username, created_at FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("failed to query user: %w", err)
	}
	return user, true, nil
}

// isUniqueViolation detects uniqueness constraint failures without tying the
// store to a driver-specific error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
