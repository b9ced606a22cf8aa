package history

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"

	"stride/internal/gateway/entity"
)

// PostgresStore persists chat turns in a chat_messages table.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("history: store is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS chat_messages (
  id SERIAL PRIMARY KEY,
  user_id TEXT NOT NULL,
  user_text TEXT NOT NULL DEFAULT '',
  bot_text TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_chat_messages_user_id ON chat_messages (user_id, id);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Get(userID entity.UserID) ([]Entry, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
SELECT user_text, bot_text FROM (
  SELECT id, user_text, bot_text FROM chat_messages
  WHERE user_id = $1 ORDER BY id DESC LIMIT $2
) recent ORDER BY id ASC`, userID.String(), Window)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0, Window)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.User, &e.Bot); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) Append(userID entity.UserID, e Entry) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO chat_messages (user_id, user_text, bot_text) VALUES ($1, $2, $3)`,
		userID.String(), e.User, e.Bot)
	return err
}
