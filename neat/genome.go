package neat

import (
	"fmt"
)

// Genome represents an individual organism: an ordered list of neuron genes,
// an ordered list of connection genes and the adjacency indices derived from
// the connections.
//
// The first InputCount neurons are the inputs and the next OutputCount are the
// outputs. Neither group can be removed, and since removal swaps the last
// element into the freed slot, the prefix is never reordered.
//
// The set of all connection genes, enabled or not, is acyclic. This is enforced
// by the mutation operators through ConnectionMakesCycle, not re-checked here.
type Genome struct {
	ID          int
	InputCount  int
	OutputCount int
	Fitness     float64

	neurons     []*NeuronGene
	connections []*ConnectionGene
	graph       ConnectionGraph
	neuronByID  map[int]*NeuronGene
	connByInnov map[int]*ConnectionGene
}

// NewGenome creates an empty genome. Callers add the input neurons first, then
// the output neurons.
func NewGenome(id, inputCount, outputCount int) *Genome {
	return &Genome{
		ID:          id,
		InputCount:  inputCount,
		OutputCount: outputCount,
		graph:       newConnectionGraph(),
		neuronByID:  make(map[int]*NeuronGene),
		connByInnov: make(map[int]*ConnectionGene),
	}
}

// Neurons returns the neuron genes in genome order. The slice is owned by the genome.
func (g *Genome) Neurons() []*NeuronGene { return g.neurons }

// Connections returns the connection genes in genome order. The slice is owned by the genome.
func (g *Genome) Connections() []*ConnectionGene { return g.connections }

// Graph exposes the adjacency indices.
func (g *Genome) Graph() *ConnectionGraph { return &g.graph }

// InputNeurons returns the input neuron genes.
func (g *Genome) InputNeurons() []*NeuronGene {
	return g.neurons[:min(g.InputCount, len(g.neurons))]
}

// OutputNeurons returns the output neuron genes in declaration order.
func (g *Genome) OutputNeurons() []*NeuronGene {
	lo := min(g.InputCount, len(g.neurons))
	hi := min(g.protectedCount(), len(g.neurons))
	return g.neurons[lo:hi]
}

// HiddenCount returns the number of neurons that are neither inputs nor outputs.
func (g *Genome) HiddenCount() int {
	return max(0, len(g.neurons)-g.protectedCount())
}

func (g *Genome) protectedCount() int {
	return g.InputCount + g.OutputCount
}

// IsInput reports whether the neuron with the given id is one of the genome's inputs.
func (g *Genome) IsInput(id int) bool {
	n, ok := g.neuronByID[id]
	return ok && n.index < g.InputCount
}

// FindNeuronGene looks a neuron gene up by neuron id.
func (g *Genome) FindNeuronGene(id int) (*NeuronGene, bool) {
	n, ok := g.neuronByID[id]
	return n, ok
}

// FindConnectionGene looks a connection gene up by innovation number.
func (g *Genome) FindConnectionGene(innovation int) (*ConnectionGene, bool) {
	c, ok := g.connByInnov[innovation]
	return c, ok
}

// AddNeuronGene appends a neuron gene. The gene must not belong to another genome.
func (g *Genome) AddNeuronGene(gene *NeuronGene) error {
	if _, exists := g.neuronByID[gene.ID]; exists {
		return fmt.Errorf("genome %d: duplicate neuron id %d", g.ID, gene.ID)
	}
	gene.index = len(g.neurons)
	g.neurons = append(g.neurons, gene)
	g.neuronByID[gene.ID] = gene
	return nil
}

// AddConnectionGene registers a connection gene in both adjacency indices and
// appends it to the connection list. Both endpoints must already exist and the
// edge must be new. Acyclicity is the caller's responsibility.
func (g *Genome) AddConnectionGene(gene *ConnectionGene) error {
	if _, exists := g.connByInnov[gene.Innovation]; exists {
		return fmt.Errorf("genome %d: duplicate innovation number %d", g.ID, gene.Innovation)
	}
	if _, ok := g.neuronByID[gene.InNeuronID]; !ok {
		return fmt.Errorf("genome %d: connection %d references missing input neuron %d", g.ID, gene.Innovation, gene.InNeuronID)
	}
	if _, ok := g.neuronByID[gene.OutNeuronID]; !ok {
		return fmt.Errorf("genome %d: connection %d references missing output neuron %d", g.ID, gene.Innovation, gene.OutNeuronID)
	}
	if _, exists := g.graph.Connection(gene.InNeuronID, gene.OutNeuronID); exists {
		return fmt.Errorf("genome %d: connection %d->%d already exists", g.ID, gene.InNeuronID, gene.OutNeuronID)
	}
	gene.index = len(g.connections)
	g.connections = append(g.connections, gene)
	g.connByInnov[gene.Innovation] = gene
	g.graph.add(gene)
	return nil
}

// RemoveConnectionGene detaches the connection gene with the same innovation
// number from both indices and the list. It reports whether anything was removed.
func (g *Genome) RemoveConnectionGene(gene *ConnectionGene) bool {
	owned, ok := g.connByInnov[gene.Innovation]
	if !ok {
		return false
	}
	g.graph.remove(owned)
	delete(g.connByInnov, owned.Innovation)

	last := len(g.connections) - 1
	moved := g.connections[last]
	g.connections[owned.index] = moved
	moved.index = owned.index
	g.connections[last] = nil
	g.connections = g.connections[:last]
	owned.index = -1
	return true
}

// RemoveNeuronGene removes the hidden neuron gene with the same id, first
// removing every connection gene incident to it. Input and output neurons are
// never removed. It reports whether anything was removed.
func (g *Genome) RemoveNeuronGene(gene *NeuronGene) bool {
	owned, ok := g.neuronByID[gene.ID]
	if !ok || owned.index < g.protectedCount() {
		return false
	}
	for _, c := range g.graph.Forward(owned.ID) {
		g.RemoveConnectionGene(c)
	}
	for _, c := range g.graph.Backward(owned.ID) {
		g.RemoveConnectionGene(c)
	}
	delete(g.neuronByID, owned.ID)

	last := len(g.neurons) - 1
	moved := g.neurons[last]
	g.neurons[owned.index] = moved
	moved.index = owned.index
	g.neurons[last] = nil
	g.neurons = g.neurons[:last]
	owned.index = -1
	return true
}

// ConnectionMakesCycle reports whether adding the edge in -> out would close a
// directed cycle, i.e. whether in is reachable from out. Disabled connections
// count: the acyclicity invariant covers every connection gene.
func (g *Genome) ConnectionMakesCycle(in, out int) bool {
	if in == out {
		return true
	}
	visited := map[int]bool{out: true}
	stack := []int{out}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range g.graph.forward[current] {
			if next == in {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// Clone returns a deep copy of the genome with its indices rebuilt.
func (g *Genome) Clone() *Genome {
	c := NewGenome(g.ID, g.InputCount, g.OutputCount)
	c.Fitness = g.Fitness
	c.neurons = make([]*NeuronGene, 0, len(g.neurons))
	c.connections = make([]*ConnectionGene, 0, len(g.connections))
	for _, n := range g.neurons {
		// ids are unique in g, so this cannot fail
		_ = c.AddNeuronGene(n.Copy())
	}
	for _, conn := range g.connections {
		_ = c.AddConnectionGene(conn.Copy())
	}
	return c
}

// String returns a short description of the genome.
func (g *Genome) String() string {
	return fmt.Sprintf("Genome(ID: %d, Inputs: %d, Outputs: %d, Neurons: %d, Connections: %d, Fitness: %.4f)",
		g.ID, g.InputCount, g.OutputCount, len(g.neurons), len(g.connections), g.Fitness)
}
