package neat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestGenome builds a genome from explicit neuron ids and edges. The first
// inputs ids are inputs, the next outputs ids are outputs. Every edge gets the
// innovation number of its position and weight 1.
func newTestGenome(t *testing.T, inputs, outputs int, neuronIDs []int, edges [][2]int) *Genome {
	t.Helper()
	g := NewGenome(1, inputs, outputs)
	for _, id := range neuronIDs {
		require.NoError(t, g.AddNeuronGene(NewNeuronGene(id, Sigmoid)))
	}
	for i, e := range edges {
		require.NoError(t, g.AddConnectionGene(NewConnectionGene(i, e[0], e[1], 1.0)))
	}
	return g
}

// requireInSync checks that the connection list and both adjacency indices
// describe the same edge set.
func requireInSync(t *testing.T, g *Genome) {
	t.Helper()
	fwd, bwd := g.Graph().EdgeCounts()
	require.Equal(t, len(g.Connections()), fwd)
	require.Equal(t, len(g.Connections()), bwd)
	for _, c := range g.Connections() {
		got, ok := g.Graph().Connection(c.InNeuronID, c.OutNeuronID)
		require.True(t, ok)
		require.Same(t, c, got)
	}
	require.NoError(t, g.Validate())
}
