package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-dag/neat"
)

func seedGenomes(t *testing.T, n int) []*neat.Genome {
	t.Helper()
	a := neat.NewInnovationAuthority()
	genomes := make([]*neat.Genome, n)
	for i := range genomes {
		g, err := a.NewBaseGenome(neat.ReLU, []int{1, 1}, nil)
		require.NoError(t, err)
		g.Connections()[0].Weight = float64(i)
		genomes[i] = g
	}
	return genomes
}

func TestEvaluateGenomesSetsFitness(t *testing.T) {
	genomes := seedGenomes(t, 20)
	err := EvaluateGenomes(genomes, 4, func(net *FeedForwardNetwork) (float64, error) {
		out, err := net.Activate([]float64{1})
		if err != nil {
			return 0, err
		}
		return out[0], nil
	})
	require.NoError(t, err)
	for i, g := range genomes {
		assert.Equal(t, float64(i), g.Fitness)
	}
}

func TestEvaluateGenomesReturnsFailures(t *testing.T) {
	errBoom := errors.New("boom")
	genomes := seedGenomes(t, 5)
	err := EvaluateGenomes(genomes, 0, func(net *FeedForwardNetwork) (float64, error) {
		out, _ := net.Activate([]float64{1})
		if out[0] == 3 {
			return 0, errBoom
		}
		return 1, nil
	})
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "evaluate genome")
	assert.Equal(t, 1.0, genomes[4].Fitness, "other genomes are still evaluated")
}
