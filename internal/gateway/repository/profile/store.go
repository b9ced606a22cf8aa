package profile

import (
	"os"
	"strings"
)

// NewFromEnv selects the Postgres backend when PROFILE_STORE_PG_DSN is set
// and reachable, falling back to the single-file JSON backend otherwise.
func NewFromEnv(path string) Repository {
	dsn := strings.TrimSpace(os.Getenv("PROFILE_STORE_PG_DSN"))
	if dsn == "" {
		return NewFileStore(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return NewFileStore(path)
	}
	return s
}
