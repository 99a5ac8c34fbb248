// Package neat provides a Go implementation of the NeuroEvolution of Augmenting Topologies (NEAT) algorithm.
//
// NEAT is a genetic algorithm for the generation of evolving artificial neural networks.
// It alters both the weighting parameters and structures of networks, attempting to find
// a balance between the fitness of evolved solutions and their diversity.
//
// Every genome of a run draws its node ids and connection innovation numbers
// from one shared Registry, so the same structural mutation made on two
// genomes yields the same genes. Networks are strictly feed-forward: every
// connection runs from a lower to a higher x position.
//
// Basic usage:
//
//	// Load configuration, or start from neat.DefaultConfig()
//	config, err := neat.LoadConfig("path/to/config.txt")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Create a population of 150 clients with 2 inputs and 1 output
//	pop, err := neat.NewPopulation(config, 2, 1, 150)
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	// Score every client, then evolve, for 100 generations
//	for i := 0; i < 100; i++ {
//		for _, c := range pop.Clients() {
//			out, err := c.Calculate([]float64{0, 1})
//			if err != nil {
//				log.Fatalf("Error evaluating client: %v", err)
//			}
//			c.Fitness = score(out)
//		}
//		if err := pop.Evolve(); err != nil {
//			log.Fatalf("Error running generation: %v", err)
//		}
//	}
//
//	best := pop.BestClient()
package neat
