package neat

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/slices"
)

// Species represents a group of clients within the compatibility threshold
// of a representative.
type Species struct {
	Key int // Identifier for diagnostics, assigned by the population

	representative *Client
	members        []*Client
	averageFitness float64
	threshold      float64
}

// NewSpecies creates a species whose only member is representative.
func NewSpecies(representative *Client) *Species {
	s := &Species{
		representative: representative,
		threshold:      representative.reg.Config().SpeciesThreshold,
	}
	s.ForcePut(representative)
	return s
}

// Put adds c if it is closer than the species threshold to the representative.
func (s *Species) Put(c *Client) bool {
	if c.Distance(s.representative) >= s.threshold {
		return false
	}
	s.ForcePut(c)
	return true
}

// ForcePut adds c unconditionally.
func (s *Species) ForcePut(c *Client) {
	c.species = s
	s.members = append(s.members, c)
}

// GoExtinct orphans every member and empties the species.
func (s *Species) GoExtinct() {
	for _, c := range s.members {
		c.species = nil
	}
	s.members = nil
}

// EvaluateFitness recomputes the mean fitness of the members.
func (s *Species) EvaluateFitness() float64 {
	fitnesses := make([]float64, len(s.members))
	for i, c := range s.members {
		fitnesses[i] = c.Fitness
	}
	s.averageFitness = Mean(fitnesses)
	return s.averageFitness
}

// Reset picks a new random representative, orphans everyone else and
// clears the average fitness. It must run before clients are reclustered.
func (s *Species) Reset(reg *Registry) {
	if len(s.members) > 0 {
		s.representative = s.members[reg.Rand().Intn(len(s.members))]
	}
	s.GoExtinct()
	s.ForcePut(s.representative)
	s.averageFitness = 0
}

// Kill removes the floor(fraction*size) members with the lowest fitness.
// Removed members are orphaned.
func (s *Species) Kill(fraction float64) {
	slices.SortStableFunc(s.members, func(a, b *Client) int {
		return cmp.Compare(a.Fitness, b.Fitness)
	})

	n := int(fraction * float64(len(s.members)))
	for _, c := range s.members[:n] {
		c.species = nil
	}
	s.members = slices.Delete(s.members, 0, n)
}

// Breed crosses two uniformly drawn members, passing the fitter one first.
// On equal fitness the draw order is kept. It panics on an empty species.
func (s *Species) Breed(reg *Registry) *Genome {
	if len(s.members) == 0 {
		panic(fmt.Sprintf("breeding from empty species %d", s.Key))
	}
	rng := reg.Rand()
	c1 := s.members[rng.Intn(len(s.members))]
	c2 := s.members[rng.Intn(len(s.members))]
	if c2.Fitness > c1.Fitness {
		c1, c2 = c2, c1
	}
	return Crossover(reg, c1.genome, c2.genome)
}

// Size returns the number of members.
func (s *Species) Size() int { return len(s.members) }

// Representative returns the client new members are compared against.
func (s *Species) Representative() *Client { return s.representative }

// AverageFitness returns the mean fitness from the last EvaluateFitness call.
func (s *Species) AverageFitness() float64 { return s.averageFitness }

// Members returns a copy of the member list.
func (s *Species) Members() []*Client {
	return append([]*Client(nil), s.members...)
}

// String returns a one-line summary of the species.
func (s *Species) String() string {
	return fmt.Sprintf("Species(Key: %d, Size: %d, AvgFitness: %.4f)", s.Key, len(s.members), s.averageFitness)
}
