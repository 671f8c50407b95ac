package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	snapshot := [][]*bool{{boolPtr(true), nil}, {boolPtr(false), boolPtr(true)}}
	if err := s.Save(ctx, "quiz-1", "preserved", snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "quiz-1", "current_attempts", 2); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "quiz-2", "current_attempts", 7); err != nil {
		t.Fatalf("save: %v", err)
	}

	var restored [][]*bool
	if err := s.Read(ctx, "quiz-1", "preserved", &restored); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(restored) != 2 || restored[0][1] != nil || !*restored[0][0] || *restored[1][0] {
		t.Fatalf("restored snapshot = %v", restored)
	}

	var attempts int
	if err := s.Read(ctx, "quiz-1", "current_attempts", &attempts); err != nil || attempts != 2 {
		t.Fatalf("attempts = %d (%v), want 2", attempts, err)
	}
	if err := s.Read(ctx, "quiz-2", "current_attempts", &attempts); err != nil || attempts != 7 {
		t.Fatalf("attempts = %d (%v), want 7", attempts, err)
	}
}

func TestFileStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var out int
	if err := s.Read(ctx, "nope", "current_attempts", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing exoname: %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, "quiz", "a", 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Read(ctx, "quiz", "b", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing attr: %v, want ErrNotFound", err)
	}
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Save(ctx, "quiz-1", "current_attempts", 3); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "quiz-2", "current_attempts", 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(ctx, "quiz-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	var out int
	if err := s.Read(ctx, "quiz-1", "current_attempts", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("read after clear: %v, want ErrNotFound", err)
	}
	// other quizzes untouched
	if err := s.Read(ctx, "quiz-2", "current_attempts", &out); err != nil || out != 1 {
		t.Fatalf("quiz-2 = %d (%v), want 1", out, err)
	}
	// clearing the unknown is a no-op
	if err := s.Clear(ctx, "never-seen"); err != nil {
		t.Fatalf("clear unknown: %v", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out int
	if err := s.Read(ctx, "quiz", "current_attempts", &out); err == nil {
		t.Fatal("corrupt store must surface a read error for the caller to default on")
	}
	// saving starts the document over instead of wedging forever
	if err := s.Save(ctx, "quiz", "current_attempts", 1); err != nil {
		t.Fatalf("save over corrupt store: %v", err)
	}
	if err := s.Read(ctx, "quiz", "current_attempts", &out); err != nil || out != 1 {
		t.Fatalf("read after recovery = %d (%v), want 1", out, err)
	}
}

func TestDefaultPathEnvOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "elsewhere", "store.json")
	t.Setenv(EnvStorePath, custom)

	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if p != custom {
		t.Fatalf("path = %q, want %q", p, custom)
	}

	s, err := NewFileStore("")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if s.Path() != custom {
		t.Fatalf("store path = %q, want %q", s.Path(), custom)
	}
	// parent directory is created eagerly
	if _, err := os.Stat(filepath.Dir(custom)); err != nil {
		t.Fatalf("store dir: %v", err)
	}
}

func boolPtr(b bool) *bool { return &b }
