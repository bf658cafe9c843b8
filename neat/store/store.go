// Package store persists genomes of an evolution run.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/baldhumanity/neat-dag/neat"
)

// ErrNotInitialized is returned by store operations called before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// Store saves and loads genomes keyed by run id and genome id. Genomes go
// through neat.EncodeGenome, so a loaded genome never aliases a saved one.
type Store interface {
	Init(ctx context.Context) error
	SaveGenome(ctx context.Context, runID string, genome *neat.Genome) error
	GetGenome(ctx context.Context, runID string, id int) (*neat.Genome, bool, error)
	// ListGenomes returns every genome of the run ordered by genome id.
	ListGenomes(ctx context.Context, runID string) ([]*neat.Genome, error)
	DeleteRun(ctx context.Context, runID string) error
	Close() error
}

// NewStore creates an uninitialised store of the given kind: "memory" (or
// empty) or "sqlite", which requires sqlitePath.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}
