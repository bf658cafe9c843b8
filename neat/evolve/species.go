package evolve

import (
	"log/slog"
	"math"
	"sort"

	"github.com/baldhumanity/neat-dag/neat"
)

// Species represents a group of genetically similar genomes.
type Species struct {
	Key             int                  // Unique identifier for the species.
	Created         int                  // Generation number when the species was created.
	LastImproved    int                  // Last generation where fitness improved.
	Representative  *neat.Genome         // The representative genome for this species.
	Members         map[int]*neat.Genome // Genomes belonging to this species (maps genome id -> genome).
	Fitness         float64              // Species fitness as computed by the stagnation policy.
	AdjustedFitness float64              // Fitness normalised across species.
	FitnessHistory  []float64            // History of fitness values for stagnation detection.
}

// NewSpecies creates a new species.
func NewSpecies(key, generation int) *Species {
	return &Species{
		Key:          key,
		Created:      generation,
		LastImproved: generation,
		Members:      make(map[int]*neat.Genome),
	}
}

// Update replaces the species' representative and members.
func (s *Species) Update(representative *neat.Genome, members map[int]*neat.Genome) {
	s.Representative = representative
	s.Members = members
}

// GetFitnesses returns the fitness of every member, ordered by genome id.
func (s *Species) GetFitnesses() []float64 {
	members := s.SortedMembers()
	fitnesses := make([]float64, len(members))
	for i, g := range members {
		fitnesses[i] = g.Fitness
	}
	return fitnesses
}

// SortedMembers returns the members ordered by genome id.
func (s *Species) SortedMembers() []*neat.Genome {
	return sortedGenomes(s.Members)
}

// --------------------------- SpeciesSet ---------------------------

// SpeciesSet partitions a population into species by compatibility distance.
type SpeciesSet struct {
	Species         map[int]*Species // Map species key -> Species
	GenomeToSpecies map[int]int      // Map genome id -> species key
	Indexer         int              // Next species key (starts at 1)
	Config          *neat.CompatibilityConfig
}

// NewSpeciesSet creates an empty species set.
func NewSpeciesSet(config *neat.CompatibilityConfig) *SpeciesSet {
	return &SpeciesSet{
		Species:         make(map[int]*Species),
		GenomeToSpecies: make(map[int]int),
		Indexer:         1,
		Config:          config,
	}
}

// Speciate partitions the population into species. Every existing species
// first adopts the unspeciated genome closest to its old representative as
// its new representative. Remaining genomes, in genome id order, join the
// compatible species with the closest representative or found a new species.
func (ss *SpeciesSet) Speciate(population map[int]*neat.Genome, generation int) {
	if len(population) == 0 {
		ss.Species = make(map[int]*Species)
		ss.GenomeToSpecies = make(map[int]int)
		return
	}

	distances := neat.NewGenomeDistanceCache(ss.Config)

	unspeciated := make(map[int]*neat.Genome, len(population))
	for id, g := range population {
		unspeciated[id] = g
	}
	newRepresentatives := make(map[int]*neat.Genome) // species key -> new representative
	newMembers := make(map[int][]int)                // species key -> member genome ids

	for _, sid := range sortedKeys(ss.Species) {
		s := ss.Species[sid]
		if len(unspeciated) == 0 {
			break
		}
		if s.Representative == nil {
			continue
		}

		var closest *neat.Genome
		minDist := math.Inf(1)
		for _, g := range sortedGenomes(unspeciated) {
			if d := distances.Distance(s.Representative, g); d < minDist {
				minDist = d
				closest = g
			}
		}
		if closest == nil {
			continue
		}
		newRepresentatives[sid] = closest
		newMembers[sid] = []int{closest.ID}
		delete(unspeciated, closest.ID)
	}

	for _, g := range sortedGenomes(unspeciated) {
		bestSpecies := -1
		minDist := math.Inf(1)
		for _, sid := range sortedKeys(newRepresentatives) {
			d := distances.Distance(newRepresentatives[sid], g)
			if d < ss.Config.Threshold && d < minDist {
				minDist = d
				bestSpecies = sid
			}
		}

		if bestSpecies != -1 {
			newMembers[bestSpecies] = append(newMembers[bestSpecies], g.ID)
			continue
		}
		sid := ss.Indexer
		ss.Indexer++
		newRepresentatives[sid] = g
		newMembers[sid] = []int{g.ID}
	}

	species := make(map[int]*Species, len(newRepresentatives))
	genomeToSpecies := make(map[int]int, len(population))
	for sid, representative := range newRepresentatives {
		s := ss.Species[sid]
		if s == nil {
			s = NewSpecies(sid, generation)
			logger.Debug("species created", slog.Int("species", sid), slog.Int("representative", representative.ID))
		}
		members := make(map[int]*neat.Genome, len(newMembers[sid]))
		for _, gid := range newMembers[sid] {
			members[gid] = population[gid]
			genomeToSpecies[gid] = sid
		}
		s.Update(representative, members)
		species[sid] = s
	}
	for sid := range ss.Species {
		if _, ok := species[sid]; !ok {
			logger.Debug("species died out", slog.Int("species", sid))
		}
	}
	ss.Species = species
	ss.GenomeToSpecies = genomeToSpecies

	if len(distances.Distances) > 0 {
		all := make([]float64, 0, len(distances.Distances))
		for _, d := range distances.Distances {
			all = append(all, d)
		}
		logger.Debug("speciation finished",
			slog.Int("generation", generation),
			slog.Int("species", len(ss.Species)),
			slog.Float64("mean_distance", neat.Mean(all)),
			slog.Float64("stdev_distance", neat.Stdev(all)),
			slog.Int("cache_hits", distances.Hits),
			slog.Int("cache_misses", distances.Misses),
		)
	}
}

// GetSpeciesID returns the species key of a genome.
func (ss *SpeciesSet) GetSpeciesID(genomeID int) (int, bool) {
	sid, exists := ss.GenomeToSpecies[genomeID]
	return sid, exists
}

// GetSpecies returns the species a genome belongs to.
func (ss *SpeciesSet) GetSpecies(genomeID int) (*Species, bool) {
	sid, exists := ss.GenomeToSpecies[genomeID]
	if !exists {
		return nil, false
	}
	s, exists := ss.Species[sid]
	return s, exists
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedGenomes(m map[int]*neat.Genome) []*neat.Genome {
	genomes := make([]*neat.Genome, 0, len(m))
	for _, id := range sortedKeys(m) {
		genomes = append(genomes, m[id])
	}
	return genomes
}
