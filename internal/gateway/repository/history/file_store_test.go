package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreAppendAndGet(t *testing.T) {
	s := NewFileStore(t.TempDir())

	entries, err := s.Get("u1")
	if err != nil {
		t.Fatalf("get fresh: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("fresh log has entries: %+v", entries)
	}

	if err := s.Append("u1", Entry{User: "hi", Bot: "hello"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	entries, err = s.Get("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(entries) != 1 || entries[0].User != "hi" || entries[0].Bot != "hello" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestFileStoreWindowsOnRead(t *testing.T) {
	s := NewFileStore(t.TempDir())

	for i := 0; i < Window+5; i++ {
		if err := s.Append("u1", Entry{User: fmt.Sprintf("msg %d", i), Bot: "ok"}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err := s.Get("u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(entries) != Window {
		t.Fatalf("window = %d entries, want %d", len(entries), Window)
	}
	if entries[0].User != "msg 5" {
		t.Fatalf("oldest windowed entry = %q, want msg 5", entries[0].User)
	}
	if entries[Window-1].User != fmt.Sprintf("msg %d", Window+4) {
		t.Fatalf("newest entry = %q", entries[Window-1].User)
	}
}

func TestFileStoreResetsCorruptLog(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	path := filepath.Join(dir, "u1_history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	entries, err := s.Get("u1")
	if err != nil {
		t.Fatalf("get corrupt: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("corrupt log yielded entries: %+v", entries)
	}

	// The reset is persisted: the file now parses as an empty log.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read reset file: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("reset file = %q, want []", string(data))
	}

	if err := s.Append("u1", Entry{User: "hi", Bot: "hello"}); err != nil {
		t.Fatalf("append after reset: %v", err)
	}
}

func TestFileStoreSanitizesUserIDs(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	if err := s.Append("user@example.com/..", Entry{User: "hi", Bot: "hello"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*_history.json"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("history files = %v, want exactly one inside dir", matches)
	}
	if filepath.Base(matches[0]) != "user_example.com_.._history.json" {
		t.Fatalf("sanitized file name = %q", filepath.Base(matches[0]))
	}
}
