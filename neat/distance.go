package neat

import "math"

// GeneComparison is the raw material of the compatibility distance between two genomes.
type GeneComparison struct {
	Excess         int     // unmatched genes outside the other genome's id range
	Disjoint       int     // unmatched genes inside the other genome's id range
	Matching       int     // connection genes present in both genomes
	MeanWeightDiff float64 // mean |w1 - w2| over matching connection genes
	GeneCount      int     // gene count of the larger genome, at least 1
}

// CompareGenomes aligns connection genes by innovation number and neuron genes
// by neuron id and counts excess, disjoint and matching genes.
func CompareGenomes(a, b *Genome) GeneComparison {
	var cmp GeneComparison

	neuronIDs := func(g *Genome) map[int]struct{} {
		ids := make(map[int]struct{}, len(g.neurons))
		for _, n := range g.neurons {
			ids[n.ID] = struct{}{}
		}
		return ids
	}
	na, nb := neuronIDs(a), neuronIDs(b)
	countUnmatched(na, nb, &cmp)
	countUnmatched(nb, na, &cmp)

	ca := make(map[int]struct{}, len(a.connections))
	for id := range a.connByInnov {
		ca[id] = struct{}{}
	}
	cb := make(map[int]struct{}, len(b.connections))
	for id := range b.connByInnov {
		cb[id] = struct{}{}
	}
	countUnmatched(ca, cb, &cmp)
	countUnmatched(cb, ca, &cmp)

	weightDiffSum := 0.0
	for innov, c1 := range a.connByInnov {
		if c2, ok := b.connByInnov[innov]; ok {
			cmp.Matching++
			weightDiffSum += math.Abs(c1.Weight - c2.Weight)
		}
	}
	if cmp.Matching > 0 {
		cmp.MeanWeightDiff = weightDiffSum / float64(cmp.Matching)
	}

	cmp.GeneCount = max(len(a.neurons)+len(a.connections), len(b.neurons)+len(b.connections), 1)
	return cmp
}

// countUnmatched classifies every id of own missing from other as excess
// (outside other's [min, max] id range) or disjoint (inside it).
func countUnmatched(own, other map[int]struct{}, cmp *GeneComparison) {
	lo, hi, seen := 0, 0, false
	for id := range other {
		if !seen || id < lo {
			lo = id
		}
		if !seen || id > hi {
			hi = id
		}
		seen = true
	}
	for id := range own {
		if _, ok := other[id]; ok {
			continue
		}
		if !seen || id < lo || id > hi {
			cmp.Excess++
		} else {
			cmp.Disjoint++
		}
	}
}

// Distance combines the comparison using NEAT's formula
// d = (c1*E + c2*D) / N + c3*W.
func (c GeneComparison) Distance(coeffs *CompatibilityConfig) float64 {
	n := float64(max(c.GeneCount, 1))
	return (coeffs.ExcessCoefficient*float64(c.Excess)+coeffs.DisjointCoefficient*float64(c.Disjoint))/n +
		coeffs.WeightCoefficient*c.MeanWeightDiff
}

// CompatibilityDistance returns the compatibility distance between two genomes.
// Larger values mean more divergent topology and weights.
func CompatibilityDistance(a, b *Genome, coeffs *CompatibilityConfig) float64 {
	return CompareGenomes(a, b).Distance(coeffs)
}

// --------------------------- GenomeDistanceCache ---------------------------

type genomePair struct {
	lo, hi int
}

// GenomeDistanceCache stores calculated distances between genomes to avoid
// redundant computations. It keys on genome ids, so it must be discarded once
// genomes with those ids change.
type GenomeDistanceCache struct {
	Distances map[genomePair]float64
	Hits      int
	Misses    int
	Config    *CompatibilityConfig
}

// NewGenomeDistanceCache creates a new distance cache.
func NewGenomeDistanceCache(config *CompatibilityConfig) *GenomeDistanceCache {
	return &GenomeDistanceCache{
		Distances: make(map[genomePair]float64),
		Config:    config,
	}
}

// Distance calculates or retrieves the distance between two genomes.
func (dc *GenomeDistanceCache) Distance(genome1, genome2 *Genome) float64 {
	key := genomePair{lo: genome1.ID, hi: genome2.ID}
	if key.lo > key.hi {
		key.lo, key.hi = key.hi, key.lo
	}
	if d, ok := dc.Distances[key]; ok {
		dc.Hits++
		return d
	}
	dc.Misses++
	d := CompatibilityDistance(genome1, genome2, dc.Config)
	dc.Distances[key] = d
	return d
}

// Compatible reports whether two genomes fall under the configured threshold.
func (dc *GenomeDistanceCache) Compatible(genome1, genome2 *Genome) bool {
	return dc.Distance(genome1, genome2) < dc.Config.Threshold
}
