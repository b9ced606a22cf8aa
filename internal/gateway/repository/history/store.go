package history

import (
	"os"
	"strings"
)

// NewFromEnv selects the Postgres backend when HISTORY_STORE_PG_DSN is set
// and reachable, falling back to the per-user file backend otherwise.
func NewFromEnv(dir string) Repository {
	dsn := strings.TrimSpace(os.Getenv("HISTORY_STORE_PG_DSN"))
	if dsn == "" {
		return NewFileStore(dir)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return NewFileStore(dir)
	}
	return s
}
