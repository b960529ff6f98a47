package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// startAttempts bounds token regeneration on the (negligible) chance a
// freshly generated token already exists.
const startAttempts = 3

// SessionStore maps opaque session tokens to authenticated usernames. Tokens
// stay valid until explicitly ended; there is no expiry.
type SessionStore interface {
	Start(ctx context.Context, username string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	End(ctx context.Context, token string) error
}

// SessionStoreDB implements SessionStore against the shared SQLite database.
type SessionStoreDB struct {
	db *sql.DB
}

func NewSessionStoreDB(db *sql.DB) *SessionStoreDB {
	return &SessionStoreDB{db: db}
}

// Start generates an unguessable token, binds it to username, and returns
// it. The token is a version-4 UUID, 122 bits of crypto/rand entropy; the
// primary key on token keeps it unique among active sessions.
func (s *SessionStoreDB) Start(ctx context.Context, username string) (string, error) {
	for i := 0; i < startAttempts; i++ {
		token := uuid.NewString()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO sessions (token, username) VALUES (?, ?)`, token, username)
		if err == nil {
			return token, nil
		}
		if strings.Contains(err.Error(), "UNIQUE constraint failed: sessions.token") {
			continue
		}
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return "", fmt.Errorf("%w: could not generate a unique session token", ErrStorage)
}

// Lookup resolves a token to its bound username. An empty token
// short-circuits to ErrNotFound without touching storage.
func (s *SessionStoreDB) Lookup(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotFound
	}
	var username string
	err := s.db.QueryRowContext(ctx,
		`SELECT username FROM sessions WHERE token = ?`, token).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return username, nil
}

// End deletes the token. Ending an absent or already-ended token is not an
// error.
func (s *SessionStoreDB) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
