package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvStorePath overrides the default store location.
const EnvStorePath = "EXOGRADE_STORE"

// FileStore keeps the whole state in a single JSON document, shaped
// {exoname: {attr: value}}. Every save is a read-merge-write of the full
// file: fine at the scale of one learner and a few dozen quizzes, and a
// crash mid-write at worst loses durability, never in-memory correctness.
type FileStore struct{ path string }

// DefaultPath resolves $EXOGRADE_STORE, falling back to a dotfile in the
// user's home directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvStorePath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve store path: %w", err)
	}
	return filepath.Join(home, ".exograde.storage"), nil
}

// NewFileStore opens (and if needed creates the parent directory of) the
// store at path; an empty path means DefaultPath.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

type document map[string]map[string]json.RawMessage

func (s *FileStore) load() (document, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

func (s *FileStore) Read(_ context.Context, exoname, attr string, out any) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	attrs, ok := doc[exoname]
	if !ok {
		return ErrNotFound
	}
	raw, ok := attrs[attr]
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s.%s: %w", exoname, attr, err)
	}
	return nil
}

func (s *FileStore) Save(_ context.Context, exoname, attr string, value any) error {
	doc, err := s.load()
	if err != nil {
		// a corrupt store must not wedge saving forever; start over
		doc = document{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s.%s: %w", exoname, attr, err)
	}
	if doc[exoname] == nil {
		doc[exoname] = map[string]json.RawMessage{}
	}
	doc[exoname][attr] = raw
	return s.write(doc)
}

func (s *FileStore) Clear(_ context.Context, exoname string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc[exoname]; !ok {
		return nil
	}
	delete(doc, exoname)
	return s.write(doc)
}
