package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareGenomesExcess(t *testing.T) {
	a := NewInnovationAuthority()
	g1, err := a.NewBaseGenome(Sigmoid, []int{2, 1}, nil)
	require.NoError(t, err)
	g2 := g1.Clone()
	g2.ID = a.NextGenomeID()

	hidden := a.NewNeuronGene(Sigmoid)
	require.NoError(t, g2.AddNeuronGene(hidden))
	require.NoError(t, g2.AddConnectionGene(a.NewConnectionGene(0, hidden.ID, 1)))
	require.NoError(t, g2.AddConnectionGene(a.NewConnectionGene(hidden.ID, 2, 1)))
	g2.Connections()[1].Weight = 0.5

	cmp := CompareGenomes(g1, g2)
	assert.Equal(t, 3, cmp.Excess, "one neuron and two connections beyond g1's ranges")
	assert.Equal(t, 0, cmp.Disjoint)
	assert.Equal(t, 2, cmp.Matching)
	assert.InDelta(t, 0.25, cmp.MeanWeightDiff, 1e-12)
	assert.Equal(t, 8, cmp.GeneCount)

	coeffs := &CompatibilityConfig{ExcessCoefficient: 1, DisjointCoefficient: 1, WeightCoefficient: 0.4}
	assert.InDelta(t, 3.0/8+0.4*0.25, CompatibilityDistance(g1, g2, coeffs), 1e-12)
	assert.InDelta(t, CompatibilityDistance(g1, g2, coeffs), CompatibilityDistance(g2, g1, coeffs), 1e-12)
}

func TestCompareGenomesDisjoint(t *testing.T) {
	g1 := NewGenome(1, 2, 1)
	g2 := NewGenome(2, 2, 1)
	for _, g := range []*Genome{g1, g2} {
		for _, id := range []int{0, 1, 2} {
			require.NoError(t, g.AddNeuronGene(NewNeuronGene(id, Sigmoid)))
		}
	}
	require.NoError(t, g1.AddConnectionGene(NewConnectionGene(1, 0, 2, 0.5)))
	require.NoError(t, g1.AddConnectionGene(NewConnectionGene(3, 1, 2, 0.5)))
	require.NoError(t, g2.AddConnectionGene(NewConnectionGene(1, 0, 2, 0.5)))
	require.NoError(t, g2.AddConnectionGene(NewConnectionGene(2, 1, 2, 0.5)))

	cmp := CompareGenomes(g1, g2)
	assert.Equal(t, 1, cmp.Excess, "innovation 3 lies beyond g2's range [1, 2]")
	assert.Equal(t, 1, cmp.Disjoint, "innovation 2 lies inside g1's range [1, 3]")
	assert.Equal(t, 1, cmp.Matching)
	assert.Zero(t, cmp.MeanWeightDiff)

	coeffs := &CompatibilityConfig{ExcessCoefficient: 1, DisjointCoefficient: 2, WeightCoefficient: 1}
	assert.InDelta(t, (1.0+2.0)/5, cmp.Distance(coeffs), 1e-12)
}

func TestDistanceOfIdenticalGenomesIsZero(t *testing.T) {
	a := NewInnovationAuthority()
	g, err := a.NewBaseGenome(Sigmoid, []int{3, 2, 2}, nil)
	require.NoError(t, err)
	coeffs := &DefaultConfig().Compatibility
	assert.Zero(t, CompatibilityDistance(g, g.Clone(), coeffs))
	assert.Zero(t, CompatibilityDistance(NewGenome(1, 1, 1), NewGenome(2, 1, 1), coeffs))
}

func TestGenomeDistanceCache(t *testing.T) {
	a := NewInnovationAuthority()
	g1, err := a.NewBaseGenome(Sigmoid, []int{2, 1}, nil)
	require.NoError(t, err)
	g2, err := a.NewBaseGenome(Sigmoid, []int{2, 1}, nil)
	require.NoError(t, err)

	cfg := DefaultConfig().Compatibility
	cache := NewGenomeDistanceCache(&cfg)
	d := cache.Distance(g1, g2)
	assert.Equal(t, d, cache.Distance(g2, g1))
	assert.Equal(t, 1, cache.Misses)
	assert.Equal(t, 1, cache.Hits)

	// nothing aligns: 3+3 neurons and 2+2 connections, all excess, over 5 genes
	assert.InDelta(t, 10.0/5, d, 1e-12)
	assert.True(t, cache.Compatible(g1, g2))
	cfg.Threshold = 1
	assert.False(t, cache.Compatible(g1, g2))
}
