package neat

import (
	"fmt"
	"math/rand"
)

// Crossover creates an offspring from a dominant parent (conventionally the
// fitter one) and a recessive parent. Genes are aligned by neuron id and
// innovation number. Matching genes take each attribute from either parent
// with equal probability; genes only the dominant parent has are copied as is;
// genes only the recessive parent has are dropped. The offspring gets a fresh
// genome id and the dominant parent's input and output counts.
//
// Because every offspring edge is an edge of the dominant parent, the
// offspring is acyclic whenever the dominant parent is.
func Crossover(innovations *InnovationAuthority, dominant, recessive *Genome, rng *rand.Rand) (*Genome, error) {
	child := innovations.NewGenome(dominant.InputCount, dominant.OutputCount)

	for _, n1 := range dominant.Neurons() {
		gene := n1.Copy()
		if n2, ok := recessive.FindNeuronGene(n1.ID); ok {
			gene = n1.Crossover(n2, rng)
		}
		if err := child.AddNeuronGene(gene); err != nil {
			return nil, fmt.Errorf("crossover of genomes %d and %d: %w", dominant.ID, recessive.ID, err)
		}
	}

	for _, c1 := range dominant.Connections() {
		gene := c1.Copy()
		if c2, ok := recessive.FindConnectionGene(c1.Innovation); ok {
			gene = c1.Crossover(c2, rng)
		}
		if err := child.AddConnectionGene(gene); err != nil {
			return nil, fmt.Errorf("crossover of genomes %d and %d: %w", dominant.ID, recessive.ID, err)
		}
	}

	return child, nil
}
