package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClients(reg *Registry, fitnesses ...float64) []*Client {
	clients := make([]*Client, len(fitnesses))
	for i, f := range fitnesses {
		clients[i] = NewClient(reg, reg.EmptyGenome())
		clients[i].Fitness = f
	}
	return clients
}

func TestSpeciesPut(t *testing.T) {
	config := DefaultConfig()
	config.SpeciesThreshold = 1.5
	reg := newTestRegistry(t, config, 2, 1)
	clients := newTestClients(reg, 0, 0, 0)

	s := NewSpecies(clients[0])
	assert.Equal(t, 1, s.Size())
	assert.Same(t, s, clients[0].Species())

	assert.True(t, s.Put(clients[1]), "identical genomes are compatible")

	// One excess gene with c2 = 2 puts the client beyond the threshold.
	clients[2].Genome().AddConnection(reg, 0, 3)
	assert.False(t, s.Put(clients[2]))
	assert.False(t, clients[2].HasSpecies())

	s.ForcePut(clients[2])
	assert.Equal(t, 3, s.Size())
	assert.True(t, clients[2].HasSpecies())
}

func TestSpeciesKillRemovesLowest(t *testing.T) {
	reg := newTestRegistry(t, nil, 2, 1)
	clients := newTestClients(reg, 4, 9, 0, 7, 2, 5, 1, 8, 3, 6)

	s := NewSpecies(clients[0])
	for _, c := range clients[1:] {
		s.ForcePut(c)
	}
	s.Kill(0.5)

	require.Equal(t, 5, s.Size())
	var survivors []float64
	for _, c := range s.Members() {
		survivors = append(survivors, c.Fitness)
		assert.Same(t, s, c.Species())
	}
	assert.ElementsMatch(t, []float64{5, 6, 7, 8, 9}, survivors)
	for _, c := range clients {
		assert.Equal(t, c.Fitness >= 5, c.HasSpecies(), "fitness %v", c.Fitness)
	}
}

func TestSpeciesKillRoundsDown(t *testing.T) {
	reg := newTestRegistry(t, nil, 2, 1)
	clients := newTestClients(reg, 1, 2, 3)
	s := NewSpecies(clients[0])
	s.ForcePut(clients[1])
	s.ForcePut(clients[2])

	s.Kill(0.2)
	assert.Equal(t, 3, s.Size())
	s.Kill(0.5)
	assert.Equal(t, 2, s.Size())
}

func TestSpeciesEvaluateFitness(t *testing.T) {
	reg := newTestRegistry(t, nil, 2, 1)
	clients := newTestClients(reg, 1, 2, 6)
	s := NewSpecies(clients[0])
	s.ForcePut(clients[1])
	s.ForcePut(clients[2])

	assert.Equal(t, 3.0, s.EvaluateFitness())
	assert.Equal(t, 3.0, s.AverageFitness())
}

func TestSpeciesReset(t *testing.T) {
	reg := newTestRegistry(t, nil, 2, 1)
	clients := newTestClients(reg, 1, 2, 3, 4)
	s := NewSpecies(clients[0])
	for _, c := range clients[1:] {
		s.ForcePut(c)
	}
	s.EvaluateFitness()

	s.Reset(reg)
	require.Equal(t, 1, s.Size())
	rep := s.Representative()
	assert.Contains(t, clients, rep)
	assert.Same(t, s, rep.Species())
	assert.Zero(t, s.AverageFitness())

	orphans := 0
	for _, c := range clients {
		if !c.HasSpecies() {
			orphans++
		}
	}
	assert.Equal(t, 3, orphans)
}

func TestSpeciesGoExtinct(t *testing.T) {
	reg := newTestRegistry(t, nil, 2, 1)
	clients := newTestClients(reg, 1, 2)
	s := NewSpecies(clients[0])
	s.ForcePut(clients[1])

	s.GoExtinct()
	assert.Zero(t, s.Size())
	for _, c := range clients {
		assert.False(t, c.HasSpecies())
	}
	assert.Panics(t, func() { s.Breed(reg) })
}

func TestSpeciesBreed(t *testing.T) {
	reg := newTestRegistry(t, nil, 2, 1)
	clients := newTestClients(reg, 10, 1)
	clients[0].Genome().AddConnection(reg, 0, 3)
	clients[1].Genome().AddConnection(reg, 1, 3)

	s := NewSpecies(clients[0])
	s.ForcePut(clients[1])

	for i := 0; i < 20; i++ {
		child := s.Breed(reg)
		require.NoError(t, child.Validate())
		// Only genes of the fitter parent survive unless both parents are the weaker one.
		if child.Connections.Contains(ConnectionKey{From: 2, To: 4}) {
			assert.Equal(t, 1, child.Connections.Len())
		}
	}
}
