package neat

// Reproduce gives every orphaned client a genome bred from a surviving
// species. Species are drawn with probability proportional to their average
// fitness and the client joins the species it was bred from. When no
// species survived, each orphan restarts from an empty genome and founds a
// species of its own.
func (p *Population) Reproduce() {
	selector := NewWeightedSelector[*Species]()
	for _, s := range p.species {
		selector.Add(s, s.AverageFitness())
	}

	refounded := 0
	for _, c := range p.clients {
		if c.HasSpecies() {
			continue
		}
		s, err := selector.Random(p.rng)
		if err != nil {
			c.SetGenome(p.registry.EmptyGenome())
			p.species = append(p.species, p.newSpecies(c))
			refounded++
			continue
		}
		c.SetGenome(s.Breed(p.registry))
		s.ForcePut(c)
	}

	if refounded > 0 {
		p.logger.Warn("all species extinct, clients restarted from empty genomes",
			"generation", p.generation, "clients", refounded)
	}
}

// GenerationStats summarizes the population after a generation.
type GenerationStats struct {
	Generation  int
	Best        float64
	Mean        float64
	Stdev       float64
	Species     int
	Nodes       int // Nodes minted by the registry
	Innovations int // Connection innovations minted by the registry
}

// Stats computes fitness statistics over every client.
func (p *Population) Stats() GenerationStats {
	fitnesses := make([]float64, len(p.clients))
	for i, c := range p.clients {
		fitnesses[i] = c.Fitness
	}
	return GenerationStats{
		Generation:  p.generation,
		Best:        MaxFloat(fitnesses),
		Mean:        Mean(fitnesses),
		Stdev:       Stdev(fitnesses),
		Species:     len(p.species),
		Nodes:       p.registry.NodeCount(),
		Innovations: p.registry.InnovationCount(),
	}
}
