package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"stride/internal/gateway/entity"
	"stride/internal/schema"
)

// FileStore keeps all profiles in a single JSON file keyed by user ID.
type FileStore struct {
	path string

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]schema.Profile
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		byID: make(map[string]schema.Profile),
	}
}

func (s *FileStore) Get(userID entity.UserID) (schema.Profile, error) {
	if s == nil {
		return schema.Profile{}, fmt.Errorf("profile: store is nil")
	}
	s.ensureLoaded()

	id := userID.String()
	s.mu.RLock()
	p, ok := s.byID[id]
	s.mu.RUnlock()
	if ok {
		return p, nil
	}

	// First access: create the schema default and persist it immediately.
	p = schema.NewProfile(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byID[id]; ok {
		return existing, nil
	}
	s.byID[id] = p
	if err := s.saveLocked(); err != nil {
		return schema.Profile{}, err
	}
	return p, nil
}

func (s *FileStore) Put(p schema.Profile) error {
	if s == nil {
		return fmt.Errorf("profile: store is nil")
	}
	if p.UserID == "" {
		return fmt.Errorf("profile: missing user id")
	}
	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[p.UserID] = p
	return s.saveLocked()
}

func (s *FileStore) ensureLoaded() {
	s.loadOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		data, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var byID map[string]schema.Profile
		if err := json.Unmarshal(data, &byID); err != nil {
			fmt.Printf("failed to unmarshal profile store: %v\n", err)
			return
		}
		for id, p := range byID {
			s.byID[id] = p
		}
	})
}

func (s *FileStore) saveLocked() error {
	data, err := json.MarshalIndent(s.byID, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
