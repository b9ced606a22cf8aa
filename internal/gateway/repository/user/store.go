package user

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"stride/internal/gateway/entity"
)

var (
	ErrInvalidCredentials = fmt.Errorf("user: invalid email or password")
	ErrUnknownToken       = fmt.Errorf("user: unknown token")
)

// Store keeps accounts and bearer tokens in a local SQLite database.
type Store struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", strings.TrimSpace(path))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("user: store is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`)
	})
	return s.schemaErr
}

// EnsureUser inserts an account if the email is not registered yet.
func (s *Store) EnsureUser(email, password string) (entity.UserID, error) {
	if err := s.ensureSchema(); err != nil {
		return "", err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("user: email is required")
	}

	var id string
	err := s.db.QueryRow(`SELECT id FROM users WHERE email = ?`, email).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		id = uuid.NewString()
		if _, err := s.db.Exec(`INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)`,
			id, email, hashPassword(password)); err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	}
	return entity.NormalizeUserID(id), nil
}

// Login checks credentials and mints a bearer token for the session.
func (s *Store) Login(email, password string) (string, entity.UserID, error) {
	if err := s.ensureSchema(); err != nil {
		return "", "", err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var id, stored string
	err := s.db.QueryRow(`SELECT id, password_hash FROM users WHERE email = ?`, email).Scan(&id, &stored)
	switch {
	case err == sql.ErrNoRows:
		return "", "", ErrInvalidCredentials
	case err != nil:
		return "", "", err
	}
	if stored != hashPassword(password) {
		return "", "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	if _, err := s.db.Exec(`INSERT INTO sessions (token, user_id) VALUES (?, ?)`, token, id); err != nil {
		return "", "", err
	}
	return token, entity.NormalizeUserID(id), nil
}

// ByToken resolves a bearer token to its user.
func (s *Store) ByToken(token string) (entity.UserID, error) {
	if err := s.ensureSchema(); err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnknownToken
	}

	var id string
	err := s.db.QueryRow(`SELECT user_id FROM sessions WHERE token = ?`, token).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		return "", ErrUnknownToken
	case err != nil:
		return "", err
	}
	return entity.NormalizeUserID(id), nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
