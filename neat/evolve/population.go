// Package evolve is a population loop around the neat core: it seeds a
// population from a base genome, evaluates it in parallel, groups it into
// species by compatibility distance and breeds the next generation.
package evolve

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/baldhumanity/neat-dag/neat"
	"github.com/baldhumanity/neat-dag/neat/nn"
)

// ErrExtinct is returned by RunGeneration when every species died out and
// ResetOnExtinction is off.
var ErrExtinct = errors.New("population extinct")

// Population holds the state of the evolutionary process.
type Population struct {
	Config       *neat.Config
	Innovations  *neat.InnovationAuthority
	Mutator      *neat.Mutator
	Population   map[int]*neat.Genome // genome id -> genome
	SpeciesSet   *SpeciesSet
	Reproduction *Reproduction
	Generation   int
	BestGenome   *neat.Genome // Best genome found so far
}

// NewPopulation seeds a population from the configured base genome.
func NewPopulation(config *neat.Config, rng *rand.Rand) (*Population, error) {
	p, err := newPopulation(config, neat.NewInnovationAuthority(), rng)
	if err != nil {
		return nil, err
	}
	if err := p.reset(); err != nil {
		return nil, err
	}
	return p, nil
}

// RestorePopulation resumes a population from a checkpoint. Species are
// rebuilt on the next generation.
func RestorePopulation(config *neat.Config, cp *neat.Checkpoint, rng *rand.Rand) (*Population, error) {
	p, err := newPopulation(config, neat.RestoreInnovationAuthority(cp.Innovations), rng)
	if err != nil {
		return nil, err
	}
	p.Generation = cp.Generation
	for _, g := range cp.Genomes {
		p.Population[g.ID] = g
	}
	return p, nil
}

func newPopulation(config *neat.Config, innovations *neat.InnovationAuthority, rng *rand.Rand) (*Population, error) {
	stagnation, err := NewStagnation(&config.Evolution)
	if err != nil {
		return nil, fmt.Errorf("failed to create stagnation manager: %w", err)
	}
	mutator := neat.NewMutator(&config.Mutation, innovations, rng)
	return &Population{
		Config:       config,
		Innovations:  innovations,
		Mutator:      mutator,
		Population:   make(map[int]*neat.Genome),
		SpeciesSet:   NewSpeciesSet(&config.Compatibility),
		Reproduction: NewReproduction(&config.Evolution, mutator, stagnation),
	}, nil
}

// reset replaces the population with fresh copies of a new base genome and
// forgets every species.
func (p *Population) reset() error {
	activation, err := p.Config.Genome.ActivationFunc()
	if err != nil {
		return err
	}
	seed, err := p.Innovations.NewBaseGenome(activation, p.Config.Genome.LayerSizes(), nil)
	if err != nil {
		return fmt.Errorf("failed to create base genome: %w", err)
	}
	p.Population = p.Reproduction.CreateNewPopulation(seed, p.Config.Evolution.PopSize)
	p.SpeciesSet = NewSpeciesSet(&p.Config.Compatibility)
	return nil
}

// Genomes returns the current population ordered by genome id.
func (p *Population) Genomes() []*neat.Genome {
	return sortedGenomes(p.Population)
}

// Checkpoint captures the state needed to resume the run.
func (p *Population) Checkpoint() *neat.Checkpoint {
	return &neat.Checkpoint{
		Generation:  p.Generation,
		Innovations: p.Innovations.State(),
		Genomes:     p.Genomes(),
	}
}

// RunGeneration executes a single generation: evaluate, track the best
// genome, speciate and reproduce. It returns the best genome once it reaches
// the fitness threshold, otherwise nil.
func (p *Population) RunGeneration(fitness nn.FitnessFunc) (*neat.Genome, error) {
	p.Generation++
	start := time.Now()
	cfg := &p.Config.Evolution

	if err := nn.EvaluateGenomes(p.Genomes(), cfg.Workers, fitness); err != nil {
		return nil, fmt.Errorf("fitness evaluation failed in generation %d: %w", p.Generation, err)
	}

	if best := p.findBestGenome(); best != nil && (p.BestGenome == nil || best.Fitness > p.BestGenome.Fitness) {
		p.BestGenome = best.Clone()
		logger.Info("new best genome",
			slog.Int("generation", p.Generation),
			slog.Int("genome", best.ID),
			slog.Float64("fitness", best.Fitness),
		)
	}
	if !cfg.NoFitnessTermination && p.BestGenome != nil && p.BestGenome.Fitness >= cfg.FitnessThreshold {
		return p.BestGenome, nil
	}

	p.SpeciesSet.Speciate(p.Population, p.Generation)

	next, err := p.Reproduction.Reproduce(p.SpeciesSet, cfg.PopSize, p.Generation)
	if err != nil {
		return nil, fmt.Errorf("reproduction failed in generation %d: %w", p.Generation, err)
	}
	if len(next) == 0 {
		if !cfg.ResetOnExtinction {
			return nil, fmt.Errorf("generation %d: %w", p.Generation, ErrExtinct)
		}
		logger.Warn("population extinct, resetting", slog.Int("generation", p.Generation))
		return nil, p.reset()
	}
	p.Population = next

	logger.Info("generation finished",
		slog.Int("generation", p.Generation),
		slog.Int("species", len(p.SpeciesSet.Species)),
		slog.Int("population", len(p.Population)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil, nil
}

// findBestGenome returns the fittest genome, preferring the lowest genome id on ties.
func (p *Population) findBestGenome() *neat.Genome {
	var best *neat.Genome
	for _, g := range p.Genomes() {
		if best == nil || g.Fitness > best.Fitness {
			best = g
		}
	}
	return best
}
