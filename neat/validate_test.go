package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDetectsCycle(t *testing.T) {
	g := newTestGenome(t, 1, 1, []int{0, 1, 2, 3}, [][2]int{{0, 2}, {2, 3}, {3, 2}, {3, 1}})
	assert.ErrorIs(t, g.Validate(), ErrCycle)
}

func TestValidateDetectsSelfLoop(t *testing.T) {
	g := newTestGenome(t, 1, 1, []int{0, 1, 2}, [][2]int{{0, 2}, {2, 2}})
	assert.ErrorIs(t, g.Validate(), ErrCycle)
}

func TestValidateDetectsBrokenIndices(t *testing.T) {
	g := newTestGenome(t, 2, 1, []int{0, 1, 2}, [][2]int{{0, 2}, {1, 2}})
	require.NoError(t, g.Validate())

	g.Connections()[0].index = 1
	assert.ErrorIs(t, g.Validate(), ErrMalformedGenome)
	g.Connections()[0].index = 0

	g.graph.remove(g.Connections()[1])
	assert.ErrorIs(t, g.Validate(), ErrMalformedGenome)
	g.graph.add(g.Connections()[1])
	require.NoError(t, g.Validate())

	g.Neurons()[2].Activation = Activation(77)
	assert.ErrorIs(t, g.Validate(), ErrMalformedGenome)
}

func TestValidateDetectsMissingProtectedNeurons(t *testing.T) {
	g := newTestGenome(t, 2, 2, []int{0, 1, 2}, nil)
	assert.ErrorIs(t, g.Validate(), ErrMalformedGenome)

	assert.ErrorIs(t, NewGenome(1, 0, 1).Validate(), ErrMalformedGenome)
}

func TestTopologicalOrder(t *testing.T) {
	// output 1 is declared before hidden 2 and 3, which feed it
	g := newTestGenome(t, 1, 1, []int{0, 1, 2, 3}, [][2]int{{0, 3}, {3, 2}, {2, 1}, {0, 1}})
	g.Connections()[2].Enabled = false

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 2, 1}, order)

	cyclic := newTestGenome(t, 1, 1, []int{0, 1, 2, 3}, [][2]int{{0, 2}, {2, 3}, {3, 2}})
	_, err = cyclic.TopologicalOrder()
	assert.ErrorIs(t, err, ErrCycle)
}
