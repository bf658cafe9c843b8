package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/baldhumanity/neat-dag/neat"
)

// MemoryStore keeps encoded genomes in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]map[int][]byte
	started bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.runs = make(map[string]map[int][]byte)
		s.started = true
	}
	return nil
}

func (s *MemoryStore) SaveGenome(_ context.Context, runID string, genome *neat.Genome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotInitialized
	}
	run := s.runs[runID]
	if run == nil {
		run = make(map[int][]byte)
		s.runs[runID] = run
	}
	run[genome.ID] = neat.EncodeGenome(genome)
	return nil
}

func (s *MemoryStore) GetGenome(_ context.Context, runID string, id int) (*neat.Genome, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, false, ErrNotInitialized
	}
	payload, ok := s.runs[runID][id]
	if !ok {
		return nil, false, nil
	}
	genome, err := neat.DecodeGenome(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode genome %d of run %s: %w", id, runID, err)
	}
	return genome, true, nil
}

func (s *MemoryStore) ListGenomes(_ context.Context, runID string) ([]*neat.Genome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotInitialized
	}
	run := s.runs[runID]
	ids := make([]int, 0, len(run))
	for id := range run {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	genomes := make([]*neat.Genome, 0, len(ids))
	for _, id := range ids {
		genome, err := neat.DecodeGenome(run[id])
		if err != nil {
			return nil, fmt.Errorf("decode genome %d of run %s: %w", id, runID, err)
		}
		genomes = append(genomes, genome)
	}
	return genomes, nil
}

func (s *MemoryStore) DeleteRun(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotInitialized
	}
	delete(s.runs, runID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
