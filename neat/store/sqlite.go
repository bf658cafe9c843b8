package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/baldhumanity/neat-dag/neat"
)

// SQLiteStore keeps encoded genomes in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	logger.Info("genome store opened", slog.String("backend", "sqlite"), slog.String("path", s.path))
	s.db = db
	return nil
}

func (s *SQLiteStore) SaveGenome(ctx context.Context, runID string, genome *neat.Genome) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO genomes (run_id, genome_id, fitness, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, genome_id) DO UPDATE SET
			fitness = excluded.fitness,
			payload = excluded.payload
	`, runID, genome.ID, genome.Fitness, neat.EncodeGenome(genome))
	return err
}

func (s *SQLiteStore) GetGenome(ctx context.Context, runID string, id int) (*neat.Genome, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM genomes WHERE run_id = ? AND genome_id = ?`, runID, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	genome, err := neat.DecodeGenome(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode genome %d of run %s: %w", id, runID, err)
	}
	return genome, true, nil
}

func (s *SQLiteStore) ListGenomes(ctx context.Context, runID string) ([]*neat.Genome, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT genome_id, payload FROM genomes WHERE run_id = ? ORDER BY genome_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genomes []*neat.Genome
	for rows.Next() {
		var (
			id      int
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		genome, err := neat.DecodeGenome(payload)
		if err != nil {
			return nil, fmt.Errorf("decode genome %d of run %s: %w", id, runID, err)
		}
		genomes = append(genomes, genome)
	}
	return genomes, rows.Err()
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, runID string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM genomes WHERE run_id = ?`, runID)
	return err
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS genomes (
			run_id TEXT NOT NULL,
			genome_id INTEGER NOT NULL,
			fitness REAL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, genome_id)
		);
	`)
	return err
}
