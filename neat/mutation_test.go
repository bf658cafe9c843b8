package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSingleEdgeGenome(t *testing.T, a *InnovationAuthority, weight float64) *Genome {
	t.Helper()
	g := a.NewGenome(1, 1)
	in, out := a.NewNeuronGene(Sigmoid), a.NewNeuronGene(Sigmoid)
	require.NoError(t, g.AddNeuronGene(in))
	require.NoError(t, g.AddNeuronGene(out))
	require.NoError(t, g.AddConnectionGene(a.NewConnectionGene(in.ID, out.ID, weight)))
	return g
}

func TestAddNeuronPreservesPathWeight(t *testing.T) {
	a := NewInnovationAuthority()
	g := newSingleEdgeGenome(t, a, 0.7)
	original := g.Connections()[0]
	m := NewMutator(&DefaultConfig().Mutation, a, rand.New(rand.NewSource(3)))

	require.True(t, m.AddNeuron(g))

	require.Len(t, g.Connections(), 3)
	require.Len(t, g.Neurons(), 3)
	assert.False(t, original.Enabled)
	assert.Equal(t, 0.7, original.Weight)
	stillThere, ok := g.FindConnectionGene(original.Innovation)
	require.True(t, ok)
	assert.Same(t, original, stillThere)

	hidden := g.Neurons()[2]
	incoming := g.Graph().Backward(hidden.ID)
	outgoing := g.Graph().Forward(hidden.ID)
	require.Len(t, incoming, 1)
	require.Len(t, outgoing, 1)
	assert.Equal(t, original.InNeuronID, incoming[0].InNeuronID)
	assert.Equal(t, 1.0, incoming[0].Weight)
	assert.Equal(t, original.OutNeuronID, outgoing[0].OutNeuronID)
	assert.Equal(t, 0.7, outgoing[0].Weight)
	assert.True(t, incoming[0].Enabled && outgoing[0].Enabled)
	requireInSync(t, g)
}

func TestRemoveNeuronCascades(t *testing.T) {
	a := NewInnovationAuthority()
	g, err := a.NewBaseGenome(Sigmoid, []int{2, 1, 1}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, g.HiddenCount())
	require.Len(t, g.Connections(), 3)

	m := NewMutator(&DefaultConfig().Mutation, a, rand.New(rand.NewSource(3)))
	require.True(t, m.RemoveNeuron(g))

	assert.Empty(t, g.Connections())
	fwd, bwd := g.Graph().EdgeCounts()
	assert.Zero(t, fwd)
	assert.Zero(t, bwd)
	assert.Equal(t, 0, g.HiddenCount())
	assert.False(t, m.RemoveNeuron(g), "inputs and outputs are never removed")
	assert.Len(t, g.Neurons(), 3)
	requireInSync(t, g)
}

func TestOperatorsOnEmptyGenome(t *testing.T) {
	a := NewInnovationAuthority()
	g := a.NewGenome(1, 1)
	m := NewMutator(&DefaultConfig().Mutation, a, rand.New(rand.NewSource(1)))

	assert.False(t, m.AddConnection(g))
	assert.False(t, m.RemoveConnection(g))
	assert.False(t, m.AddNeuron(g))
	assert.False(t, m.RemoveNeuron(g))
	assert.False(t, m.PerturbWeight(g))
	assert.False(t, m.ResetWeight(g))
}

func TestWeightOperatorsStayInRange(t *testing.T) {
	a := NewInnovationAuthority()
	g := newSingleEdgeGenome(t, a, 0.25)
	cfg := DefaultConfig().Mutation
	m := NewMutator(&cfg, a, rand.New(rand.NewSource(9)))

	for i := 0; i < 100; i++ {
		require.True(t, m.ResetWeight(g))
		w := g.Connections()[0].Weight
		require.GreaterOrEqual(t, w, -cfg.WeightResetRange)
		require.Less(t, w, cfg.WeightResetRange)

		require.True(t, m.PerturbWeight(g))
		delta := g.Connections()[0].Weight - w
		require.InDelta(t, 0, delta, cfg.WeightPerturbPower+1e-9)
	}
}

func TestMutateLeavesParentUntouched(t *testing.T) {
	a := NewInnovationAuthority()
	g, err := a.NewBaseGenome(Sigmoid, []int{2, 2, 1}, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	g.Fitness = 2
	before := EncodeGenome(g)

	cfg := DefaultConfig().Mutation
	cfg.NodeAddProb, cfg.ConnAddProb, cfg.WeightPerturbProb = 1, 1, 1
	m := NewMutator(&cfg, a, rand.New(rand.NewSource(5)))
	child := m.Mutate(g)

	assert.Equal(t, before, EncodeGenome(g))
	assert.NotEqual(t, g.ID, child.ID)
	assert.Zero(t, child.Fitness)
	requireInSync(t, child)
}

func TestRandomMutationsKeepInvariants(t *testing.T) {
	a := NewInnovationAuthority()
	rng := rand.New(rand.NewSource(42))
	g, err := a.NewBaseGenome(Sigmoid, []int{3, 2}, rng)
	require.NoError(t, err)
	inputIDs := neuronIDs(g.InputNeurons())
	outputIDs := neuronIDs(g.OutputNeurons())

	cfg := DefaultConfig().Mutation
	cfg.NodeAddProb, cfg.ConnAddProb, cfg.NodeDeleteProb, cfg.ConnDeleteProb = 0.5, 0.9, 0.2, 0.2
	m := NewMutator(&cfg, a, rng)

	for round := 0; round < 300; round++ {
		g = m.Mutate(g)

		requireInSync(t, g)
		require.Equal(t, inputIDs, neuronIDs(g.InputNeurons()), "round %d", round)
		require.Equal(t, outputIDs, neuronIDs(g.OutputNeurons()), "round %d", round)
		for _, c := range g.Connections() {
			require.False(t, g.IsInput(c.OutNeuronID), "round %d: connection into input %s", round, c)
			require.False(t, g.ConnectionMakesCycle(c.InNeuronID, c.OutNeuronID), "round %d: %s lies on a cycle", round, c)
		}
	}
}

func neuronIDs(ns []*NeuronGene) []int {
	ids := make([]int, len(ns))
	for i, n := range ns {
		ids[i] = n.ID
	}
	return ids
}
