package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"stride/internal/gateway/entity"
)

// FileStore keeps one JSON log per user under dir. The file holds the full
// log; Get windows it on read.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Get(userID entity.UserID) ([]Entry, error) {
	if s == nil {
		return nil, fmt.Errorf("history: store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.loadLocked(userID)
	if err != nil {
		return nil, err
	}
	return window(entries), nil
}

func (s *FileStore) Append(userID entity.UserID, e Entry) error {
	if s == nil {
		return fmt.Errorf("history: store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.loadLocked(userID)
	if err != nil {
		return err
	}
	entries = append(entries, e)
	return s.saveLocked(userID, entries)
}

func (s *FileStore) loadLocked(userID entity.UserID) ([]Entry, error) {
	path := s.path(userID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// Corrupt log: reset to empty and persist the reset.
		entries = []Entry{}
		if err := s.saveLocked(userID, entries); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *FileStore) saveLocked(userID entity.UserID, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	path := s.path(userID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *FileStore) path(userID entity.UserID) string {
	return filepath.Join(s.dir, sanitizeID(userID.String())+"_history.json")
}

func sanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func window(entries []Entry) []Entry {
	if len(entries) <= Window {
		return entries
	}
	return entries[len(entries)-Window:]
}
