package neat

import (
	"math"
	"sort"
)

// ConnectionGraph indexes a genome's connection genes twice: forward
// (input -> output) and backward (output -> input). Both maps are always
// mutated together so that they describe exactly the same edge set.
type ConnectionGraph struct {
	forward  map[int]map[int]*ConnectionGene
	backward map[int]map[int]*ConnectionGene
}

func newConnectionGraph() ConnectionGraph {
	return ConnectionGraph{
		forward:  make(map[int]map[int]*ConnectionGene),
		backward: make(map[int]map[int]*ConnectionGene),
	}
}

func (cg *ConnectionGraph) add(gene *ConnectionGene) {
	in, out := gene.InNeuronID, gene.OutNeuronID
	if cg.forward[in] == nil {
		cg.forward[in] = make(map[int]*ConnectionGene)
	}
	if cg.backward[out] == nil {
		cg.backward[out] = make(map[int]*ConnectionGene)
	}
	cg.forward[in][out] = gene
	cg.backward[out][in] = gene
}

func (cg *ConnectionGraph) remove(gene *ConnectionGene) {
	in, out := gene.InNeuronID, gene.OutNeuronID
	if m := cg.forward[in]; m != nil {
		delete(m, out)
		if len(m) == 0 {
			delete(cg.forward, in)
		}
	}
	if m := cg.backward[out]; m != nil {
		delete(m, in)
		if len(m) == 0 {
			delete(cg.backward, out)
		}
	}
}

// Connection returns the gene wired from in to out, if any.
func (cg *ConnectionGraph) Connection(in, out int) (*ConnectionGene, bool) {
	gene, ok := cg.forward[in][out]
	return gene, ok
}

// Forward returns the connection genes leaving neuron id, ordered by innovation number.
func (cg *ConnectionGraph) Forward(id int) []*ConnectionGene {
	return sortedGenes(cg.forward[id])
}

// Backward returns the connection genes entering neuron id, ordered by innovation number.
func (cg *ConnectionGraph) Backward(id int) []*ConnectionGene {
	return sortedGenes(cg.backward[id])
}

// EdgeCounts returns the number of edges held by the forward and backward indices.
func (cg *ConnectionGraph) EdgeCounts() (forward, backward int) {
	for _, m := range cg.forward {
		forward += len(m)
	}
	for _, m := range cg.backward {
		backward += len(m)
	}
	return forward, backward
}

// DependencyRank computes, for neuron id, the sum over each direct predecessor p
// of 1 + DependencyRank(p). It is not graph depth, but it strictly increases
// along every directed path, which is all a topological sort key needs.
// memo is shared across calls so a whole genome is ranked in linear time.
// Values saturate at math.MaxInt.
func (cg *ConnectionGraph) DependencyRank(id int, memo map[int]int) int {
	if r, ok := memo[id]; ok {
		return r
	}
	rank := 0
	for p := range cg.backward[id] {
		if p == id {
			continue
		}
		rank = saturatingAdd(rank, saturatingAdd(1, cg.DependencyRank(p, memo)))
	}
	memo[id] = rank
	return rank
}

func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func sortedGenes(m map[int]*ConnectionGene) []*ConnectionGene {
	if len(m) == 0 {
		return nil
	}
	genes := make([]*ConnectionGene, 0, len(m))
	for _, gene := range m {
		genes = append(genes, gene)
	}
	sort.Slice(genes, func(i, j int) bool {
		return genes[i].Innovation < genes[j].Innovation
	})
	return genes
}
