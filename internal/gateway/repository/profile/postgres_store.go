package profile

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"stride/internal/gateway/entity"
	"stride/internal/schema"
)

// PostgresStore persists profiles as JSONB rows with a small read cache.
type PostgresStore struct {
	db    *sql.DB
	cache *lru.Cache[string, schema.Profile]

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
	cache, err := lru.New[string, schema.Profile](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db, cache: cache}, nil
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("profile: store is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS user_profiles (
  user_id TEXT PRIMARY KEY,
  data JSONB NOT NULL DEFAULT '{}'::jsonb,
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Get(userID entity.UserID) (schema.Profile, error) {
	if err := s.ensureSchema(); err != nil {
		return schema.Profile{}, err
	}
	id := userID.String()
	if p, ok := s.cache.Get(id); ok {
		return p, nil
	}

	var raw []byte
	err := s.db.QueryRow(`SELECT data FROM user_profiles WHERE user_id = $1`, id).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		p := schema.NewProfile(id)
		if err := s.Put(p); err != nil {
			return schema.Profile{}, err
		}
		return p, nil
	case err != nil:
		return schema.Profile{}, err
	}

	var p schema.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return schema.Profile{}, fmt.Errorf("profile: decode row for %s: %w", id, err)
	}
	s.cache.Add(id, p)
	return p, nil
}

func (s *PostgresStore) Put(p schema.Profile) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	if p.UserID == "" {
		return fmt.Errorf("profile: missing user id")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO user_profiles (user_id, data, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id)
DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`, p.UserID, raw)
	if err != nil {
		return err
	}
	s.cache.Add(p.UserID, p)
	return nil
}
