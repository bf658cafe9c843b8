package neat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyRank(t *testing.T) {
	// 0 -> 3 -> 2, 1 -> 3, 0 -> 2
	g := newTestGenome(t, 2, 1, []int{0, 1, 2, 3}, [][2]int{{0, 3}, {1, 3}, {3, 2}, {0, 2}})

	memo := map[int]int{}
	assert.Equal(t, 0, g.Graph().DependencyRank(0, memo))
	assert.Equal(t, 0, g.Graph().DependencyRank(1, memo))
	assert.Equal(t, 2, g.Graph().DependencyRank(3, memo))
	// (1 + rank(3)) + (1 + rank(0))
	assert.Equal(t, 4, g.Graph().DependencyRank(2, memo))
	assert.Len(t, memo, 4)
}

func TestDependencyRankSaturates(t *testing.T) {
	g := newTestGenome(t, 1, 1, []int{0, 1}, [][2]int{{0, 1}})
	memo := map[int]int{0: math.MaxInt}
	assert.Equal(t, math.MaxInt, g.Graph().DependencyRank(1, memo))
}

func TestForwardBackwardOrderedByInnovation(t *testing.T) {
	g := NewGenome(1, 1, 2)
	for _, id := range []int{0, 1, 2} {
		_ = g.AddNeuronGene(NewNeuronGene(id, Sigmoid))
	}
	_ = g.AddConnectionGene(NewConnectionGene(9, 0, 2, 1))
	_ = g.AddConnectionGene(NewConnectionGene(4, 0, 1, 1))

	fwd := g.Graph().Forward(0)
	if assert.Len(t, fwd, 2) {
		assert.Equal(t, 4, fwd[0].Innovation)
		assert.Equal(t, 9, fwd[1].Innovation)
	}
	assert.Nil(t, g.Graph().Backward(0))
}
