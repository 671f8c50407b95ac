// Package storage persists per-quiz state (attempt counters, selection
// snapshots, submission history) keyed by exoname then attribute name.
//
// Stores report failures explicitly; deciding to fall back to a default
// value is the caller's job, which keeps the "never block grading"
// behavior while leaving failure paths testable. No backend coordinates
// concurrent writers: one learner, one process.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the exoname or attribute has never been
// saved. Callers typically substitute a default.
var ErrNotFound = errors.New("storage: not found")

// Store is a small durable key-value contract. Values are JSON-encoded;
// Read unmarshals into out.
type Store interface {
	Read(ctx context.Context, exoname, attr string, out any) error
	Save(ctx context.Context, exoname, attr string, value any) error
	Clear(ctx context.Context, exoname string) error
}
