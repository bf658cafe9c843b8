package nn

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/baldhumanity/neat-dag/neat"
)

var (
	// ErrInputLength is returned by Activate when the input vector does not
	// match the network's input count.
	ErrInputLength = errors.New("input vector length mismatch")
	// ErrUnordered is returned by Compile when a neuron would be evaluated
	// before one of its predecessors.
	ErrUnordered = errors.New("neuron precedes one of its inputs")
)

// link is an incoming weighted edge resolved to the position of its source neuron.
type link struct {
	from   int
	weight float64
}

// neuron is a node of the compiled network.
type neuron struct {
	ID         int
	Activation neat.Activation
	Rank       int
	input      bool
	links      []link
	value      float64
}

// FeedForwardNetwork is an immutable evaluation snapshot of a genome. Neurons
// are stored in topological order; only the per-neuron values change when the
// network is processed.
type FeedForwardNetwork struct {
	neurons []neuron
	inputs  []int // positions of the input neurons, in declaration order
	outputs []int // positions of the output neurons, in declaration order
}

// Compile builds a FeedForwardNetwork from a genome. Neurons are stably
// sorted by dependency rank, so ties keep their genome order. When a rank
// saturates, the genome's TopologicalOrder is used instead. Each neuron's
// enabled incoming connections are resolved to the positions of their source
// neurons. Input and output neurons are located by neuron id. The genome is
// not modified.
func Compile(g *neat.Genome) (*FeedForwardNetwork, error) {
	genes := g.Neurons()
	if len(genes) < g.InputCount+g.OutputCount {
		return nil, fmt.Errorf("compile genome %d: %d neurons for %d inputs and %d outputs",
			g.ID, len(genes), g.InputCount, g.OutputCount)
	}
	graph := g.Graph()

	memo := make(map[int]int, len(genes))
	saturated := false
	net := &FeedForwardNetwork{neurons: make([]neuron, len(genes))}
	for i, gene := range genes {
		net.neurons[i] = neuron{
			ID:         gene.ID,
			Activation: gene.Activation,
			Rank:       graph.DependencyRank(gene.ID, memo),
			input:      i < g.InputCount,
		}
		if net.neurons[i].Rank == math.MaxInt {
			saturated = true
		}
	}

	if saturated {
		// Saturated ranks no longer separate a neuron from its sources.
		order, err := g.TopologicalOrder()
		if err != nil {
			return nil, fmt.Errorf("compile genome %d: %w", g.ID, err)
		}
		slot := make(map[int]int, len(order))
		for i, id := range order {
			slot[id] = i
		}
		sort.SliceStable(net.neurons, func(i, j int) bool {
			return slot[net.neurons[i].ID] < slot[net.neurons[j].ID]
		})
	} else {
		sort.SliceStable(net.neurons, func(i, j int) bool {
			return net.neurons[i].Rank < net.neurons[j].Rank
		})
	}

	position := make(map[int]int, len(net.neurons))
	for i, n := range net.neurons {
		position[n.ID] = i
	}

	for i := range net.neurons {
		n := &net.neurons[i]
		if n.input {
			continue
		}
		for _, c := range graph.Backward(n.ID) {
			if !c.Enabled {
				continue
			}
			from, ok := position[c.InNeuronID]
			if !ok {
				return nil, fmt.Errorf("compile genome %d: connection %d references missing neuron %d",
					g.ID, c.Innovation, c.InNeuronID)
			}
			if from >= i {
				return nil, fmt.Errorf("compile genome %d: neuron %d at %d, source %d at %d: %w",
					g.ID, n.ID, i, c.InNeuronID, from, ErrUnordered)
			}
			n.links = append(n.links, link{from: from, weight: c.Weight})
		}
	}

	for _, gene := range g.InputNeurons() {
		net.inputs = append(net.inputs, position[gene.ID])
	}
	for _, gene := range g.OutputNeurons() {
		net.outputs = append(net.outputs, position[gene.ID])
	}
	return net, nil
}

// InputCount returns the number of input neurons.
func (net *FeedForwardNetwork) InputCount() int { return len(net.inputs) }

// OutputCount returns the number of output neurons.
func (net *FeedForwardNetwork) OutputCount() int { return len(net.outputs) }

// Order returns the neuron ids in evaluation order.
func (net *FeedForwardNetwork) Order() []int {
	ids := make([]int, len(net.neurons))
	for i, n := range net.neurons {
		ids[i] = n.ID
	}
	return ids
}

// Ranks returns the dependency rank of every neuron, keyed by neuron id.
func (net *FeedForwardNetwork) Ranks() map[int]int {
	ranks := make(map[int]int, len(net.neurons))
	for _, n := range net.neurons {
		ranks[n.ID] = n.Rank
	}
	return ranks
}

// SetInput sets the value of the i-th input neuron. It returns false and
// changes nothing when i is out of range.
func (net *FeedForwardNetwork) SetInput(i int, value float64) bool {
	if i < 0 || i >= len(net.inputs) {
		return false
	}
	net.neurons[net.inputs[i]].value = value
	return true
}

// GetOutput returns the value of the i-th output neuron. ok is false when i
// is out of range.
func (net *FeedForwardNetwork) GetOutput(i int) (value float64, ok bool) {
	if i < 0 || i >= len(net.outputs) {
		return 0, false
	}
	return net.neurons[net.outputs[i]].value, true
}

// Process recomputes every non-input neuron in evaluation order as the
// activation of the weighted sum of its inputs.
func (net *FeedForwardNetwork) Process() {
	for i := range net.neurons {
		n := &net.neurons[i]
		if n.input {
			continue
		}
		sum := 0.0
		for _, l := range n.links {
			sum += l.weight * net.neurons[l.from].value
		}
		n.value = n.Activation.Apply(sum)
	}
}

// Activate computes the network's output for a given slice of input values.
// The input slice must match the number of input neurons.
func (net *FeedForwardNetwork) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(net.inputs) {
		return nil, fmt.Errorf("%w: got %d values for %d input neurons", ErrInputLength, len(inputs), len(net.inputs))
	}
	for i, v := range inputs {
		net.SetInput(i, v)
	}
	net.Process()

	outputs := make([]float64, len(net.outputs))
	for i := range outputs {
		outputs[i], _ = net.GetOutput(i)
	}
	return outputs, nil
}
