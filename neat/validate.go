package neat

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

var (
	// ErrMalformedGenome is returned when a genome's gene lists and indices disagree.
	ErrMalformedGenome = errors.New("malformed genome")
	// ErrCycle is returned when a genome's connections contain a directed cycle.
	ErrCycle = errors.New("genome contains a cycle")
)

// Validate checks every structural invariant of the genome: the protected
// prefix exists, cached positions and lookups match the gene lists, the two
// adjacency indices hold exactly the connection list, every connection joins
// two neurons of this genome, and the connections form a DAG.
func (g *Genome) Validate() error {
	if g.InputCount <= 0 || g.OutputCount <= 0 {
		return fmt.Errorf("%w: genome %d declares %d inputs and %d outputs", ErrMalformedGenome, g.ID, g.InputCount, g.OutputCount)
	}
	if len(g.neurons) < g.protectedCount() {
		return fmt.Errorf("%w: genome %d has %d neurons, fewer than its %d inputs and outputs",
			ErrMalformedGenome, g.ID, len(g.neurons), g.protectedCount())
	}
	if len(g.neuronByID) != len(g.neurons) || len(g.connByInnov) != len(g.connections) {
		return fmt.Errorf("%w: genome %d lookups out of sync with gene lists", ErrMalformedGenome, g.ID)
	}

	dag := simple.NewDirectedGraph()
	for i, n := range g.neurons {
		if n.index != i || g.neuronByID[n.ID] != n {
			return fmt.Errorf("%w: genome %d neuron %d is not indexed at position %d", ErrMalformedGenome, g.ID, n.ID, i)
		}
		if !n.Activation.Valid() {
			return fmt.Errorf("%w: genome %d neuron %d has invalid activation %d", ErrMalformedGenome, g.ID, n.ID, n.Activation)
		}
		dag.AddNode(simple.Node(int64(n.ID)))
	}

	for i, c := range g.connections {
		if c.index != i || g.connByInnov[c.Innovation] != c {
			return fmt.Errorf("%w: genome %d connection %d is not indexed at position %d", ErrMalformedGenome, g.ID, c.Innovation, i)
		}
		if _, ok := g.neuronByID[c.InNeuronID]; !ok {
			return fmt.Errorf("%w: genome %d connection %d references missing neuron %d", ErrMalformedGenome, g.ID, c.Innovation, c.InNeuronID)
		}
		if _, ok := g.neuronByID[c.OutNeuronID]; !ok {
			return fmt.Errorf("%w: genome %d connection %d references missing neuron %d", ErrMalformedGenome, g.ID, c.Innovation, c.OutNeuronID)
		}
		if c.InNeuronID == c.OutNeuronID {
			return fmt.Errorf("%w: genome %d connection %d is a self loop on neuron %d", ErrCycle, g.ID, c.Innovation, c.InNeuronID)
		}
		if fwd, ok := g.graph.Connection(c.InNeuronID, c.OutNeuronID); !ok || fwd != c || g.graph.backward[c.OutNeuronID][c.InNeuronID] != c {
			return fmt.Errorf("%w: genome %d connection %d missing from adjacency indices", ErrMalformedGenome, g.ID, c.Innovation)
		}
		dag.SetEdge(dag.NewEdge(simple.Node(int64(c.InNeuronID)), simple.Node(int64(c.OutNeuronID))))
	}

	fwd, bwd := g.graph.EdgeCounts()
	if fwd != len(g.connections) || bwd != len(g.connections) {
		return fmt.Errorf("%w: genome %d has %d connections but %d forward and %d backward edges",
			ErrMalformedGenome, g.ID, len(g.connections), fwd, bwd)
	}

	if _, err := topo.Sort(dag); err != nil {
		return g.sortError(err)
	}
	return nil
}

// TopologicalOrder returns every neuron id ordered so that each connection,
// enabled or disabled, points from an earlier neuron to a later one. Neurons
// that are free to move keep their genome order.
func (g *Genome) TopologicalOrder() ([]int, error) {
	dag := simple.NewDirectedGraph()
	for _, n := range g.neurons {
		dag.AddNode(simple.Node(int64(n.ID)))
	}
	for _, c := range g.connections {
		if dag.Node(int64(c.InNeuronID)) == nil || dag.Node(int64(c.OutNeuronID)) == nil {
			return nil, fmt.Errorf("%w: genome %d connection %d references a missing neuron", ErrMalformedGenome, g.ID, c.Innovation)
		}
		if c.InNeuronID == c.OutNeuronID {
			return nil, fmt.Errorf("%w: genome %d connection %d is a self loop on neuron %d", ErrCycle, g.ID, c.Innovation, c.InNeuronID)
		}
		dag.SetEdge(dag.NewEdge(simple.Node(int64(c.InNeuronID)), simple.Node(int64(c.OutNeuronID))))
	}

	sorted, err := topo.SortStabilized(dag, func(nodes []graph.Node) {
		sort.Slice(nodes, func(i, j int) bool {
			return g.neuronByID[int(nodes[i].ID())].index < g.neuronByID[int(nodes[j].ID())].index
		})
	})
	if err != nil {
		return nil, g.sortError(err)
	}
	ids := make([]int, len(sorted))
	for i, n := range sorted {
		ids[i] = int(n.ID())
	}
	return ids, nil
}

func (g *Genome) sortError(err error) error {
	var unorderable topo.Unorderable
	if errors.As(err, &unorderable) {
		return fmt.Errorf("%w: genome %d: %d strongly connected component(s) with a cycle", ErrCycle, g.ID, len(unorderable))
	}
	return fmt.Errorf("genome %d: %w", g.ID, err)
}
