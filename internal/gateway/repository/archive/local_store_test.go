package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHashName(t *testing.T) {
	ts := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	a := HashName("how should I train?", ts)
	if len(a) != 16 {
		t.Fatalf("name length = %d, want 16", len(a))
	}
	if b := HashName("how should I train?", ts); b != a {
		t.Fatalf("same input produced different names: %q vs %q", a, b)
	}
	if c := HashName("how should I train?", ts.Add(time.Second)); c == a {
		t.Fatalf("different timestamps produced the same name")
	}
	if d := HashName("different message", ts); d == a {
		t.Fatalf("different inputs produced the same name")
	}
}

func TestLocalStorePut(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	s := NewLocalStore(dir)

	if err := s.Put(context.Background(), "abc123", []byte(`{"message":"hi"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "abc123.json"))
	if err != nil {
		t.Fatalf("read archived object: %v", err)
	}
	if string(data) != `{"message":"hi"}` {
		t.Fatalf("payload = %q", string(data))
	}
}

func TestLocalStorePutRejectsEmptyName(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	if err := s.Put(context.Background(), "  ", []byte("x")); err == nil {
		t.Fatalf("put with empty name succeeded")
	}
}
