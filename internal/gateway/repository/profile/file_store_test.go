package profile

import (
	"path/filepath"
	"testing"
)

func TestFileStoreCreatesDefaultOnFirstGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s := NewFileStore(path)

	p, err := s.Get("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.UserID != "u1" {
		t.Fatalf("user id = %q, want u1", p.UserID)
	}
	if p.Name != "" || p.Age != 0 {
		t.Fatalf("fresh profile not empty: %+v", p)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")

	s := NewFileStore(path)
	p, err := s.Get("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	p.Name = "Alex"
	p.Age = 30
	if err := s.Put(p); err != nil {
		t.Fatalf("put: %v", err)
	}

	// A second store over the same file sees the saved profile.
	s2 := NewFileStore(path)
	got, err := s2.Get("u1")
	if err != nil {
		t.Fatalf("get from second store: %v", err)
	}
	if got.Name != "Alex" || got.Age != 30 {
		t.Fatalf("reloaded profile = %+v", got)
	}
}

func TestFileStorePutRequiresUserID(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "profiles.json"))

	p, _ := s.Get("u1")
	p.UserID = ""
	if err := s.Put(p); err == nil {
		t.Fatalf("put without user id succeeded")
	}
}

func TestFileStoreIsolatesUsers(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "profiles.json"))

	a, _ := s.Get("alice")
	a.Name = "Alice"
	if err := s.Put(a); err != nil {
		t.Fatalf("put: %v", err)
	}

	b, err := s.Get("bob")
	if err != nil {
		t.Fatalf("get bob: %v", err)
	}
	if b.Name != "" {
		t.Fatalf("bob inherited alice's name: %+v", b)
	}
}
