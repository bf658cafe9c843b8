package neat

import (
	"fmt"
	"sort"

	"github.com/gosuri/uitable"
)

// GenomeTable renders the genes of g as an aligned text table: one row per
// neuron followed by one row per connection, each group in genome order.
func GenomeTable(g *Genome) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = false

	table.AddRow("Neuron", "Role", "Activation", "In", "Out")
	for i, n := range g.neurons {
		role := "hidden"
		switch {
		case i < g.InputCount:
			role = "input"
		case i < g.protectedCount():
			role = "output"
		}
		table.AddRow(n.ID, role, n.Activation, len(g.graph.backward[n.ID]), len(g.graph.forward[n.ID]))
	}

	table.AddRow("")
	table.AddRow("Innovation", "From", "To", "Weight", "Enabled")
	for _, c := range g.connections {
		table.AddRow(c.Innovation, c.InNeuronID, c.OutNeuronID, fmt.Sprintf("%.4f", c.Weight), c.Enabled)
	}
	return table
}

// PopulationTable renders one row per genome, fittest first. A positive limit
// keeps only the limit fittest genomes.
func PopulationTable(genomes []*Genome, limit int) *uitable.Table {
	sorted := append([]*Genome(nil), genomes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness > sorted[j].Fitness
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = false
	table.AddRow("Genome", "Fitness", "Neurons", "Hidden", "Connections", "Enabled")
	for _, g := range sorted {
		enabled := 0
		for _, c := range g.connections {
			if c.Enabled {
				enabled++
			}
		}
		table.AddRow(g.ID, fmt.Sprintf("%.4f", g.Fitness), len(g.neurons), g.HiddenCount(), len(g.connections), enabled)
	}
	return table
}
