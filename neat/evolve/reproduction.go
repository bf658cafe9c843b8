package evolve

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/baldhumanity/neat-dag/neat"
)

// Reproduction creates new genomes, either from a seed genome or through
// crossover and mutation of the surviving members of each species.
type Reproduction struct {
	Config     *neat.EvolutionConfig
	Mutator    *neat.Mutator
	Stagnation *Stagnation
	Ancestors  map[int][]int // genome id -> parent ids
	Rand       *rand.Rand
}

// NewReproduction creates a new reproduction manager.
func NewReproduction(config *neat.EvolutionConfig, mutator *neat.Mutator, stagnation *Stagnation) *Reproduction {
	return &Reproduction{
		Config:     config,
		Mutator:    mutator,
		Stagnation: stagnation,
		Ancestors:  make(map[int][]int),
		Rand:       mutator.Rand,
	}
}

// CreateNewPopulation creates popSize copies of the seed genome, each with a
// fresh genome id and freshly drawn weights. Sharing the seed's neuron ids and
// innovation numbers keeps the whole initial population alignable.
func (r *Reproduction) CreateNewPopulation(seed *neat.Genome, popSize int) map[int]*neat.Genome {
	genomes := make(map[int]*neat.Genome, popSize)
	for i := 0; i < popSize; i++ {
		g := seed.Clone()
		g.ID = r.Mutator.Innovations.NextGenomeID()
		g.Fitness = 0
		r.Mutator.RandomizeWeights(g)
		genomes[g.ID] = g
		r.Ancestors[g.ID] = nil
	}
	return genomes
}

// Reproduce creates the next generation from the current species.
// Stagnant species are dropped, the survivors receive offspring slots in
// proportion to their adjusted fitness, the Elitism best members of each
// species are carried over unchanged and the remaining slots are filled with
// mutated offspring of the top SurvivalThreshold fraction of the species.
// An empty result means every species went extinct.
func (r *Reproduction) Reproduce(speciesSet *SpeciesSet, popSize, generation int) (map[int]*neat.Genome, error) {
	stagnation := r.Stagnation.Update(speciesSet, generation)

	var allFitnesses []float64
	var remaining []*Species
	for _, info := range stagnation {
		if info.IsStagnant {
			logger.Info("species removed as stagnant", slog.Int("species", info.SpeciesID), slog.Int("generation", generation))
			continue
		}
		fitnesses := info.Species.GetFitnesses()
		if len(fitnesses) == 0 {
			continue
		}
		allFitnesses = append(allFitnesses, fitnesses...)
		remaining = append(remaining, info.Species)
	}
	if len(remaining) == 0 {
		return map[int]*neat.Genome{}, nil
	}

	minFitness := neat.MinFloat(allFitnesses)
	maxFitness := neat.MaxFloat(allFitnesses)
	fitnessRange := math.Max(1.0, maxFitness-minFitness)

	adjustedSum := 0.0
	previousSizes := make([]int, len(remaining))
	adjusted := make([]float64, len(remaining))
	for i, sp := range remaining {
		sp.AdjustedFitness = (sp.Fitness - minFitness) / fitnessRange
		adjustedSum += sp.AdjustedFitness
		previousSizes[i] = len(sp.Members)
		adjusted[i] = sp.AdjustedFitness
	}

	minSize := max(r.Config.MinSpeciesSize, r.Config.Elitism)
	spawnAmounts := computeSpawnAmounts(adjusted, adjustedSum, previousSizes, popSize, minSize, r.Rand)

	population := make(map[int]*neat.Genome, popSize)
	ancestors := make(map[int][]int, popSize)
	for i, sp := range remaining {
		spawn := max(spawnAmounts[i], r.Config.Elitism)

		members := sp.SortedMembers()
		sort.SliceStable(members, func(a, b int) bool {
			return members[a].Fitness > members[b].Fitness
		})

		for j := 0; j < r.Config.Elitism && j < len(members); j++ {
			elite := members[j]
			population[elite.ID] = elite
			ancestors[elite.ID] = []int{elite.ID}
			spawn--
		}
		if spawn <= 0 {
			continue
		}

		cutoff := int(math.Ceil(r.Config.SurvivalThreshold * float64(len(members))))
		cutoff = min(max(cutoff, 2), len(members))
		parents := members[:cutoff]

		for j := 0; j < spawn; j++ {
			p1 := parents[r.Rand.Intn(len(parents))]
			p2 := parents[r.Rand.Intn(len(parents))]
			dominant, recessive := p1, p2
			if p2.Fitness > p1.Fitness {
				dominant, recessive = p2, p1
			}

			child, err := neat.Crossover(r.Mutator.Innovations, dominant, recessive, r.Rand)
			if err != nil {
				return nil, fmt.Errorf("species %d: %w", sp.Key, err)
			}
			r.Mutator.Apply(child)

			population[child.ID] = child
			ancestors[child.ID] = []int{p1.ID, p2.ID}
		}
	}
	r.Ancestors = ancestors

	if len(population) != popSize {
		logger.Debug("population size differs from target", slog.Int("size", len(population)), slog.Int("target", popSize))
	}
	return population, nil
}

// computeSpawnAmounts calculates the number of offspring each species should
// produce: a share of popSize proportional to adjusted fitness, moved halfway
// from the species' previous size, then normalised so the total matches
// popSize where the minimum size allows.
func computeSpawnAmounts(adjusted []float64, adjustedSum float64, previousSizes []int, popSize, minSize int, rng *rand.Rand) []int {
	spawn := make([]int, len(adjusted))
	total := 0
	for i, af := range adjusted {
		s := float64(minSize)
		if adjustedSum > 0 {
			s = math.Max(s, af/adjustedSum*float64(popSize))
		}

		ps := previousSizes[i]
		d := (s - float64(ps)) * 0.5
		c := int(math.Round(d))
		amount := ps
		switch {
		case c != 0:
			amount += c
		case d > 0:
			amount++
		case d < 0:
			amount--
		}
		spawn[i] = max(minSize, amount)
		total += spawn[i]
	}
	if total == 0 {
		return spawn
	}

	norm := float64(popSize) / float64(total)
	current := 0
	for i, amount := range spawn {
		spawn[i] = max(minSize, int(math.Round(float64(amount)*norm)))
		current += spawn[i]
	}

	diff := popSize - current
	for _, idx := range rng.Perm(len(spawn)) {
		if diff == 0 {
			break
		}
		if diff > 0 {
			spawn[idx]++
			diff--
		} else if spawn[idx] > minSize {
			spawn[idx]--
			diff++
		}
	}
	return spawn
}
