package evolve

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/baldhumanity/neat-dag/neat"
)

// Stagnation manages the detection of stagnant species.
type Stagnation struct {
	Config             *neat.EvolutionConfig
	SpeciesFitnessFunc func([]float64) float64
}

// NewStagnation creates a new stagnation manager.
func NewStagnation(config *neat.EvolutionConfig) (*Stagnation, error) {
	fn, ok := neat.StatFunctions[config.SpeciesFitnessFunc]
	if !ok {
		return nil, fmt.Errorf("invalid species_fitness_func in config: %s", config.SpeciesFitnessFunc)
	}
	return &Stagnation{Config: config, SpeciesFitnessFunc: fn}, nil
}

// StagnationInfo holds the results of the stagnation update for a single species.
type StagnationInfo struct {
	SpeciesID  int
	Species    *Species
	IsStagnant bool
}

// Update computes every species' fitness, appends it to the species' history
// and marks species that have not improved for MaxStagnation generations.
// The SpeciesElitism fittest species are never marked, and marking stops
// once only SpeciesElitism species would remain. The result is ordered by
// ascending species fitness.
func (s *Stagnation) Update(speciesSet *SpeciesSet, generation int) []StagnationInfo {
	if len(speciesSet.Species) == 0 {
		return nil
	}

	ordered := make([]*Species, 0, len(speciesSet.Species))
	for _, sid := range sortedKeys(speciesSet.Species) {
		sp := speciesSet.Species[sid]
		previousMax := math.Inf(-1)
		if len(sp.FitnessHistory) > 0 {
			previousMax = neat.MaxFloat(sp.FitnessHistory)
		}

		if fitnesses := sp.GetFitnesses(); len(fitnesses) > 0 {
			sp.Fitness = s.SpeciesFitnessFunc(fitnesses)
		} else {
			sp.Fitness = math.Inf(-1)
		}
		sp.FitnessHistory = append(sp.FitnessHistory, sp.Fitness)
		sp.AdjustedFitness = 0
		if sp.Fitness > previousMax {
			sp.LastImproved = generation
		}
		ordered = append(ordered, sp)
	}

	// least fit first
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Fitness < ordered[j].Fitness
	})

	result := make([]StagnationInfo, len(ordered))
	nonStagnant := len(ordered)
	for i, sp := range ordered {
		stagnantFor := generation - sp.LastImproved
		elite := len(ordered)-i <= s.Config.SpeciesElitism
		isStagnant := stagnantFor >= s.Config.MaxStagnation && !elite && nonStagnant > s.Config.SpeciesElitism
		if isStagnant {
			nonStagnant--
		} else if stagnantFor >= s.Config.MaxStagnation {
			logger.Debug("species spared by elitism",
				slog.Int("species", sp.Key),
				slog.Float64("fitness", sp.Fitness),
				slog.Int("stagnant_for", stagnantFor),
			)
		}
		result[i] = StagnationInfo{SpeciesID: sp.Key, Species: sp, IsStagnant: isStagnant}
	}
	return result
}
