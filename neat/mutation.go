package neat

import (
	"math/rand"
)

// Mutator applies structural and weight mutations to genomes. Every new gene
// is stamped by Innovations, so mutators sharing an authority produce
// alignable genomes.
type Mutator struct {
	Config      *MutationConfig
	Innovations *InnovationAuthority
	Rand        *rand.Rand
}

// NewMutator creates a mutator.
func NewMutator(config *MutationConfig, innovations *InnovationAuthority, rng *rand.Rand) *Mutator {
	return &Mutator{Config: config, Innovations: innovations, Rand: rng}
}

// Mutate clones the genome, gives the clone a fresh genome id and applies
// the mutation operators to the clone. The original genome is left untouched.
func (m *Mutator) Mutate(g *Genome) *Genome {
	child := g.Clone()
	child.ID = m.Innovations.NextGenomeID()
	child.Fitness = 0
	m.Apply(child)
	return child
}

// Apply rolls every operator against its own probability and mutates g in
// place. Several operators may fire in one call.
func (m *Mutator) Apply(g *Genome) {
	if m.Rand.Float64() < m.Config.NodeAddProb {
		m.AddNeuron(g)
	}
	if m.Rand.Float64() < m.Config.ConnAddProb {
		m.AddConnection(g)
	}
	if m.Rand.Float64() < m.Config.NodeDeleteProb {
		m.RemoveNeuron(g)
	}
	if m.Rand.Float64() < m.Config.ConnDeleteProb {
		m.RemoveConnection(g)
	}
	if m.Rand.Float64() < m.Config.WeightPerturbProb {
		m.PerturbWeight(g)
	}
	if m.Rand.Float64() < m.Config.WeightResetProb {
		m.ResetWeight(g)
	}
}

// RandomizeWeights draws every connection weight of g from
// [-WeightInitRange, WeightInitRange).
func (m *Mutator) RandomizeWeights(g *Genome) {
	for _, c := range g.connections {
		c.Weight = uniform(m.Rand, m.Config.WeightInitRange)
	}
}

// AddConnection picks two neurons uniformly at random and wires them with a
// new connection gene. It is a no-op when the target is an input neuron, when
// the pair is already connected or when the edge would close a cycle. The
// return value reports whether a connection was added.
func (m *Mutator) AddConnection(g *Genome) bool {
	neurons := g.Neurons()
	if len(neurons) == 0 {
		return false
	}
	from := neurons[m.Rand.Intn(len(neurons))]
	to := neurons[m.Rand.Intn(len(neurons))]

	if g.IsInput(to.ID) {
		return false
	}
	if _, exists := g.graph.Connection(from.ID, to.ID); exists {
		return false
	}
	if g.ConnectionMakesCycle(from.ID, to.ID) {
		return false
	}

	gene := m.Innovations.NewConnectionGene(from.ID, to.ID, uniform(m.Rand, m.Config.WeightInitRange))
	return g.AddConnectionGene(gene) == nil
}

// RemoveConnection removes one uniformly random connection gene.
func (m *Mutator) RemoveConnection(g *Genome) bool {
	conns := g.Connections()
	if len(conns) == 0 {
		return false
	}
	return g.RemoveConnectionGene(conns[m.Rand.Intn(len(conns))])
}

// AddNeuron splits a random connection in -> out. The connection is disabled
// but kept; a new neuron n inheriting the activation of out is wired as
// in -> n with weight 1 and n -> out with the original weight.
func (m *Mutator) AddNeuron(g *Genome) bool {
	conns := g.Connections()
	if len(conns) == 0 {
		return false
	}
	split := conns[m.Rand.Intn(len(conns))]

	out, ok := g.FindNeuronGene(split.OutNeuronID)
	if !ok {
		return false
	}
	neuron := m.Innovations.splitNeuron(g, split.Innovation, out.Activation)
	if err := g.AddNeuronGene(neuron); err != nil {
		return false
	}

	split.Enabled = false
	// The new neuron has no edges yet, so neither connection can exist or close a cycle.
	_ = g.AddConnectionGene(m.Innovations.NewConnectionGene(split.InNeuronID, neuron.ID, 1.0))
	_ = g.AddConnectionGene(m.Innovations.NewConnectionGene(neuron.ID, split.OutNeuronID, split.Weight))
	return true
}

// RemoveNeuron removes a random hidden neuron together with all of its
// connections. Input and output neurons are never candidates.
func (m *Mutator) RemoveNeuron(g *Genome) bool {
	hidden := g.HiddenCount()
	if hidden == 0 {
		return false
	}
	victim := g.Neurons()[g.protectedCount()+m.Rand.Intn(hidden)]
	return g.RemoveNeuronGene(victim)
}

// PerturbWeight adds a uniform delta in [-WeightPerturbPower, WeightPerturbPower)
// to one random connection's weight.
func (m *Mutator) PerturbWeight(g *Genome) bool {
	conns := g.Connections()
	if len(conns) == 0 {
		return false
	}
	c := conns[m.Rand.Intn(len(conns))]
	c.Weight += uniform(m.Rand, m.Config.WeightPerturbPower)
	return true
}

// ResetWeight replaces one random connection's weight with a fresh value drawn
// from [-WeightResetRange, WeightResetRange).
func (m *Mutator) ResetWeight(g *Genome) bool {
	conns := g.Connections()
	if len(conns) == 0 {
		return false
	}
	c := conns[m.Rand.Intn(len(conns))]
	c.Weight = uniform(m.Rand, m.Config.WeightResetRange)
	return true
}
