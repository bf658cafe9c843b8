package nn

import (
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/baldhumanity/neat-dag/neat"
)

// FitnessFunc scores a compiled network.
type FitnessFunc func(net *FeedForwardNetwork) (float64, error)

// EvaluateGenomes compiles every genome and stores the score returned by
// fitness in its Fitness field. Genomes are evaluated concurrently by at most
// workers goroutines (GOMAXPROCS when workers <= 0). Each goroutine owns one
// genome and one network, so fitness must only be safe for concurrent calls
// on different networks. All genomes are attempted; the returned error joins
// every failure.
func EvaluateGenomes(genomes []*neat.Genome, workers int, fitness FitnessFunc) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := pool.New().WithErrors().WithMaxGoroutines(workers)
	for _, g := range genomes {
		p.Go(func() error {
			net, err := Compile(g)
			if err != nil {
				return err
			}
			score, err := fitness(net)
			if err != nil {
				return fmt.Errorf("evaluate genome %d: %w", g.ID, err)
			}
			g.Fitness = score
			return nil
		})
	}
	return p.Wait()
}
