package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore archives turn logs to a local directory when no S3 endpoint is
// configured.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Put(_ context.Context, name string, payload []byte) error {
	if s == nil {
		return fmt.Errorf("archive: store is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("archive: empty object name")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name+".json"), payload, 0o644)
}
