package artifactstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"stride/internal/gateway/entity"
)

// Complete is the absorbing terminal value for CurrentStep.
const Complete = "complete"

// State is one user's artifact-building progress. Data holds the last
// confirmed assistant-produced text per step, not the raw user input.
type State struct {
	UserID      string            `json:"user_id"`
	CurrentStep string            `json:"current_step"`
	Data        map[string]string `json:"data"`
}

// Repository persists workflow state per user. Get creates a fresh state at
// the given initial step on first access.
type Repository interface {
	Get(userID entity.UserID, initialStep string) (State, error)
	Put(st State) error
}

// FileStore keeps all workflow states in a single JSON file keyed by user ID.
type FileStore struct {
	path string

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]State
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		byID: make(map[string]State),
	}
}

func (s *FileStore) Get(userID entity.UserID, initialStep string) (State, error) {
	if s == nil {
		return State{}, fmt.Errorf("artifactstate: store is nil")
	}
	s.ensureLoaded()

	id := userID.String()
	s.mu.RLock()
	st, ok := s.byID[id]
	s.mu.RUnlock()
	if ok {
		if st.Data == nil {
			st.Data = make(map[string]string)
		}
		return st, nil
	}

	st = State{
		UserID:      id,
		CurrentStep: initialStep,
		Data:        make(map[string]string),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byID[id]; ok {
		return existing, nil
	}
	s.byID[id] = st
	if err := s.saveLocked(); err != nil {
		return State{}, err
	}
	return st, nil
}

func (s *FileStore) Put(st State) error {
	if s == nil {
		return fmt.Errorf("artifactstate: store is nil")
	}
	if st.UserID == "" {
		return fmt.Errorf("artifactstate: missing user id")
	}
	s.ensureLoaded()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[st.UserID] = st
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
		var byID map[string]State
		if err := json.Unmarshal(data, &byID); err != nil {
			fmt.Printf("failed to unmarshal artifact state store: %v\n", err)
			return
		}
		for id, st := range byID {
			s.byID[id] = st
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
