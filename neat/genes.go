package neat

import (
	"fmt"
	"math/rand"
)

// --------------------------- NeuronGene ---------------------------

// NeuronGene represents a neuron in the genome. Its ID is stamped once by the
// InnovationAuthority and never reused.
type NeuronGene struct {
	ID         int
	Activation Activation

	index int // position in the owning genome's neuron list
}

// NewNeuronGene creates a detached neuron gene. Most callers should go through
// InnovationAuthority.NewNeuronGene so the ID is unique within the population.
func NewNeuronGene(id int, activation Activation) *NeuronGene {
	return &NeuronGene{ID: id, Activation: activation, index: -1}
}

// String returns a string representation of the NeuronGene.
func (ng *NeuronGene) String() string {
	return fmt.Sprintf("NeuronGene(ID: %d, Activation: %s)", ng.ID, ng.Activation)
}

// Copy creates a detached copy of the NeuronGene.
func (ng *NeuronGene) Copy() *NeuronGene {
	return NewNeuronGene(ng.ID, ng.Activation)
}

// Crossover creates a new NeuronGene whose activation comes from either parent
// with equal probability.
func (ng *NeuronGene) Crossover(other *NeuronGene, rng *rand.Rand) *NeuronGene {
	child := ng.Copy()
	if rng.Float64() < 0.5 {
		child.Activation = other.Activation
	}
	return child
}

// --------------------------- ConnectionGene ---------------------------

// ConnectionKey identifies the structural edge a connection gene encodes.
type ConnectionKey struct {
	InNeuronID  int
	OutNeuronID int
}

// ConnectionGene represents a weighted edge between two neurons.
type ConnectionGene struct {
	Innovation  int
	InNeuronID  int
	OutNeuronID int
	Weight      float64
	Enabled     bool

	index int // position in the owning genome's connection list
}

// NewConnectionGene creates a detached, enabled connection gene.
func NewConnectionGene(innovation, in, out int, weight float64) *ConnectionGene {
	return &ConnectionGene{
		Innovation:  innovation,
		InNeuronID:  in,
		OutNeuronID: out,
		Weight:      weight,
		Enabled:     true,
		index:       -1,
	}
}

// Key returns the (in, out) pair of the connection.
func (cg *ConnectionGene) Key() ConnectionKey {
	return ConnectionKey{InNeuronID: cg.InNeuronID, OutNeuronID: cg.OutNeuronID}
}

// String returns a string representation of the ConnectionGene.
func (cg *ConnectionGene) String() string {
	return fmt.Sprintf("ConnGene(Innov: %d, %d->%d, Weight: %.3f, Enabled: %t)",
		cg.Innovation, cg.InNeuronID, cg.OutNeuronID, cg.Weight, cg.Enabled)
}

// Copy creates a detached copy of the ConnectionGene.
func (cg *ConnectionGene) Copy() *ConnectionGene {
	c := NewConnectionGene(cg.Innovation, cg.InNeuronID, cg.OutNeuronID, cg.Weight)
	c.Enabled = cg.Enabled
	return c
}

// Crossover creates a new ConnectionGene by independently inheriting weight and
// enabled flag from either parent.
func (cg *ConnectionGene) Crossover(other *ConnectionGene, rng *rand.Rand) *ConnectionGene {
	child := cg.Copy()
	if rng.Float64() < 0.5 {
		child.Weight = other.Weight
	}
	if rng.Float64() < 0.5 {
		child.Enabled = other.Enabled
	}
	return child
}
