// Package neat implements the genetic core of NeuroEvolution of Augmenting
// Topologies (NEAT) for feed-forward networks.
//
// A Genome is an ordered list of neuron genes and connection genes plus two
// adjacency indices (forward and backward) that always describe the same
// edge set. Inputs come first in the neuron list, outputs next, hidden
// neurons after them. Every connection set, enabled or not, is acyclic.
//
// An InnovationAuthority numbers every gene of one population. The same
// structural mutation appearing in two genomes receives the same innovation
// number or neuron id, which is what Crossover and CompatibilityDistance
// align on.
//
// Basic usage:
//
//	config, err := neat.LoadConfig("xor-config.ini")
//	if err != nil {
//		log.Fatal(err)
//	}
//	rng := rand.New(rand.NewSource(1))
//	innovations := neat.NewInnovationAuthority()
//	base, err := innovations.NewBaseGenome(neat.Sigmoid, config.Genome.LayerSizes(), rng)
//	if err != nil {
//		log.Fatal(err)
//	}
//	mutator := neat.NewMutator(&config.Mutation, innovations, rng)
//	child := mutator.Mutate(base)
//	net, err := nn.Compile(child)
//
// The nn package compiles a genome into an evaluable network, the evolve
// package runs a speciated population loop, the store package persists
// genomes and the codec package provides the byte-level primitives the
// binary genome format is built on.
package neat
