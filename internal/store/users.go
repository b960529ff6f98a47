package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// UserStore owns user accounts and credential verification.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a new account. Existence check and insert are one atomic
// step: the UNIQUE constraint on username decides races between concurrent
// signups, so exactly one of two identical signups succeeds.
func (s *UserStore) Create(ctx context.Context, username, password, email string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, email) VALUES (?, ?, ?)`,
		username, string(hash), email)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.username") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// ValidateCredentials returns the stored account when username and password
// match, and ErrInvalidCredentials otherwise. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *UserStore) ValidateCredentials(ctx context.Context, username, password string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, email, created_at FROM users WHERE username = ?`,
		username)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}
