package neat

import (
	"fmt"
	"math/rand"
	"sync"
)

// InnovationAuthority hands out neuron ids, innovation numbers and genome ids
// for one population. It also remembers every structural mutation it has
// numbered, so that the same edge or the same split appearing in two genomes
// of the population carries the same identity and can be aligned later.
//
// It is safe for concurrent use.
type InnovationAuthority struct {
	mu             sync.Mutex
	nextNeuronID   int
	nextInnovation int
	nextGenomeID   int
	connections    map[ConnectionKey]int // (in, out) -> innovation number
	splits         map[int]int           // split innovation number -> neuron id
}

// AuthorityState is a serialisable snapshot of an InnovationAuthority.
type AuthorityState struct {
	NextNeuronID   int
	NextInnovation int
	NextGenomeID   int
	Connections    map[ConnectionKey]int
	Splits         map[int]int
}

// NewInnovationAuthority creates an authority with all counters at their start values.
func NewInnovationAuthority() *InnovationAuthority {
	return &InnovationAuthority{
		nextGenomeID: 1, // Start genome keys at 1
		connections:  make(map[ConnectionKey]int),
		splits:       make(map[int]int),
	}
}

// RestoreInnovationAuthority rebuilds an authority from a snapshot.
func RestoreInnovationAuthority(s AuthorityState) *InnovationAuthority {
	a := &InnovationAuthority{
		nextNeuronID:   s.NextNeuronID,
		nextInnovation: s.NextInnovation,
		nextGenomeID:   s.NextGenomeID,
		connections:    make(map[ConnectionKey]int, len(s.Connections)),
		splits:         make(map[int]int, len(s.Splits)),
	}
	for k, v := range s.Connections {
		a.connections[k] = v
	}
	for k, v := range s.Splits {
		a.splits[k] = v
	}
	return a
}

// State snapshots the counters and registries.
func (a *InnovationAuthority) State() AuthorityState {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := AuthorityState{
		NextNeuronID:   a.nextNeuronID,
		NextInnovation: a.nextInnovation,
		NextGenomeID:   a.nextGenomeID,
		Connections:    make(map[ConnectionKey]int, len(a.connections)),
		Splits:         make(map[int]int, len(a.splits)),
	}
	for k, v := range a.connections {
		s.Connections[k] = v
	}
	for k, v := range a.splits {
		s.Splits[k] = v
	}
	return s
}

// NewNeuronGene creates a neuron gene with a freshly minted neuron id.
func (a *InnovationAuthority) NewNeuronGene(activation Activation) *NeuronGene {
	a.mu.Lock()
	defer a.mu.Unlock()
	return NewNeuronGene(a.mintNeuronID(), activation)
}

// NewConnectionGene creates an enabled connection gene for the edge in -> out.
// An edge already numbered by this authority gets its existing innovation
// number back; a new edge is assigned a fresh one.
func (a *InnovationAuthority) NewConnectionGene(in, out int, weight float64) *ConnectionGene {
	a.mu.Lock()
	defer a.mu.Unlock()
	return NewConnectionGene(a.innovationFor(in, out), in, out, weight)
}

// NewGenome creates an empty genome with a freshly minted genome id.
func (a *InnovationAuthority) NewGenome(inputCount, outputCount int) *Genome {
	return NewGenome(a.NextGenomeID(), inputCount, outputCount)
}

// NextGenomeID mints a genome id.
func (a *InnovationAuthority) NextGenomeID() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextGenomeID
	a.nextGenomeID++
	return id
}

// NewBaseGenome builds a layered seed genome. layerSizes[0] is the input count,
// the last entry the output count, and every entry in between a hidden layer.
// Consecutive layers are fully connected. Weights are drawn uniformly from
// [-1, 1) using rng, or set to 1 when rng is nil.
func (a *InnovationAuthority) NewBaseGenome(activation Activation, layerSizes []int, rng *rand.Rand) (*Genome, error) {
	if len(layerSizes) < 2 {
		return nil, fmt.Errorf("base genome needs at least an input and an output layer, got %d layer(s)", len(layerSizes))
	}
	for i, size := range layerSizes {
		if size <= 0 {
			return nil, fmt.Errorf("base genome layer %d has non-positive size %d", i, size)
		}
	}
	if !activation.Valid() {
		return nil, fmt.Errorf("base genome: invalid activation %s", activation)
	}

	inputs := layerSizes[0]
	outputs := layerSizes[len(layerSizes)-1]
	g := a.NewGenome(inputs, outputs)

	// Inputs and outputs form the protected prefix; hidden layers follow.
	layers := make([][]*NeuronGene, len(layerSizes))
	order := make([]int, 0, len(layerSizes))
	order = append(order, 0, len(layerSizes)-1)
	for i := 1; i < len(layerSizes)-1; i++ {
		order = append(order, i)
	}
	for _, li := range order {
		layers[li] = make([]*NeuronGene, layerSizes[li])
		for j := range layers[li] {
			n := a.NewNeuronGene(activation)
			if err := g.AddNeuronGene(n); err != nil {
				return nil, err
			}
			layers[li][j] = n
		}
	}

	for li := 0; li+1 < len(layers); li++ {
		for _, from := range layers[li] {
			for _, to := range layers[li+1] {
				w := 1.0
				if rng != nil {
					w = uniform(rng, 1.0)
				}
				if err := g.AddConnectionGene(a.NewConnectionGene(from.ID, to.ID, w)); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// splitNeuron returns the neuron gene to insert when splitting the connection
// with the given innovation number in g. A split this authority has already
// seen reuses its neuron id unless g already holds that neuron, in which case
// a fresh id is minted.
func (a *InnovationAuthority) splitNeuron(g *Genome, splitInnovation int, activation Activation) *NeuronGene {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.splits[splitInnovation]; ok {
		if _, taken := g.FindNeuronGene(id); !taken {
			return NewNeuronGene(id, activation)
		}
		return NewNeuronGene(a.mintNeuronID(), activation)
	}
	id := a.mintNeuronID()
	a.splits[splitInnovation] = id
	return NewNeuronGene(id, activation)
}

func (a *InnovationAuthority) mintNeuronID() int {
	id := a.nextNeuronID
	a.nextNeuronID++
	return id
}

func (a *InnovationAuthority) innovationFor(in, out int) int {
	key := ConnectionKey{InNeuronID: in, OutNeuronID: out}
	if innov, ok := a.connections[key]; ok {
		return innov
	}
	innov := a.nextInnovation
	a.nextInnovation++
	a.connections[key] = innov
	return innov
}
