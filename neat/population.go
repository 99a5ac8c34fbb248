package neat

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/gofrs/uuid"
)

// Option configures a Population.
type Option func(*Population)

// WithRand sets the random source shared by the population and its registry.
func WithRand(rng *rand.Rand) Option {
	return func(p *Population) { p.rng = rng }
}

// WithLogger sets the logger used for generation summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Population) { p.logger = logger }
}

// Population holds the state of the NEAT evolutionary process: the registry,
// a fixed-size list of clients and the species they are clustered into.
type Population struct {
	config   *Config
	registry *Registry
	clients  []*Client
	species  []*Species

	generation     int
	nextSpeciesKey int

	runID  uuid.UUID
	rng    *rand.Rand
	logger *slog.Logger
}

// NewPopulation creates size clients with empty genomes for a network with
// the given number of inputs and outputs. The population keeps its own copy
// of config; later changes to the caller's value have no effect.
func NewPopulation(config *Config, inputs, outputs, size int, opts ...Option) (*Population, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	snapshot := *config
	p := &Population{
		config: &snapshot,
		runID:  uuid.Must(uuid.NewV4()),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	p.logger = p.logger.With("run_id", p.runID.String())

	if err := p.Reset(inputs, outputs, size); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset discards all evolved structure and starts over with fresh clients
// and a fresh registry.
func (p *Population) Reset(inputs, outputs, size int) error {
	if inputs < 1 || outputs < 1 {
		return fmt.Errorf("population needs at least one input and one output, got %d and %d", inputs, outputs)
	}
	if size < 1 {
		return fmt.Errorf("population size must be positive, got %d", size)
	}

	p.registry = NewRegistry(p.config, inputs, outputs, p.rng)
	p.clients = make([]*Client, size)
	p.species = nil
	p.generation = 0
	p.nextSpeciesKey = 1

	for i := range p.clients {
		c := NewClient(p.registry, p.registry.EmptyGenome())
		if err := c.GenerateNetwork(); err != nil {
			return fmt.Errorf("client %d: %w", i, err)
		}
		p.clients[i] = c
	}

	p.logger.Debug("population reset", "inputs", inputs, "outputs", outputs, "size", size)
	return nil
}

// Evolve runs one generation: speciate, cull, prune, reproduce, mutate and
// recompile, in that order. Fitness must be set on every client beforehand.
func (p *Population) Evolve() error {
	p.Speciate()
	p.Kill()
	p.RemoveExtinctSpecies()
	p.Reproduce()
	p.Mutate()
	if err := p.GenerateNetworks(); err != nil {
		return fmt.Errorf("generation %d: %w", p.generation, err)
	}
	p.generation++

	stats := p.Stats()
	p.logger.Info("generation complete",
		"generation", stats.Generation,
		"best", stats.Best,
		"mean", stats.Mean,
		"species", stats.Species,
		"innovations", stats.Innovations,
	)
	return nil
}

// Speciate resets every species and clusters every orphaned client into the
// first species that accepts it, founding a new species when none does.
func (p *Population) Speciate() {
	for _, s := range p.species {
		s.Reset(p.registry)
	}

	for _, c := range p.clients {
		if c.HasSpecies() {
			continue
		}
		placed := false
		for _, s := range p.species {
			if s.Put(c) {
				placed = true
				break
			}
		}
		if !placed {
			p.species = append(p.species, p.newSpecies(c))
		}
	}
}

// Kill evaluates the fitness of every species and removes its worst members.
func (p *Population) Kill() {
	for _, s := range p.species {
		s.EvaluateFitness()
		s.Kill(p.config.KillPercentage)
	}
}

// RemoveExtinctSpecies drops every species left with at most one member.
func (p *Population) RemoveExtinctSpecies() {
	kept := p.species[:0]
	for _, s := range p.species {
		if s.Size() <= 1 {
			p.logger.Debug("species extinct", "species", s.Key, "generation", p.generation)
			s.GoExtinct()
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(p.species); i++ {
		p.species[i] = nil
	}
	p.species = kept
}

// Mutate mutates every client's genome.
func (p *Population) Mutate() {
	for _, c := range p.clients {
		c.Mutate()
	}
}

// GenerateNetworks recompiles every client's network.
func (p *Population) GenerateNetworks() error {
	for i, c := range p.clients {
		if err := c.GenerateNetwork(); err != nil {
			return fmt.Errorf("client %d: %w", i, err)
		}
	}
	return nil
}

func (p *Population) newSpecies(representative *Client) *Species {
	s := NewSpecies(representative)
	s.Key = p.nextSpeciesKey
	p.nextSpeciesKey++
	return s
}

// BestClient returns the client with the highest fitness. Ties go to the
// client that comes first.
func (p *Population) BestClient() *Client {
	best := p.clients[0]
	for _, c := range p.clients[1:] {
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// Clients returns the clients. The slice is shared; its length is fixed
// for the lifetime of the population.
func (p *Population) Clients() []*Client { return p.clients }

// Species returns a copy of the current species list.
func (p *Population) Species() []*Species {
	return append([]*Species(nil), p.species...)
}

// Registry returns the registry shared by every genome of the current run.
func (p *Population) Registry() *Registry { return p.registry }

// Config returns a copy of the parameters the population runs with.
func (p *Population) Config() Config { return *p.config }

// Generation returns the number of completed Evolve calls.
func (p *Population) Generation() int { return p.generation }

// RunID returns the identifier assigned to this population at creation.
func (p *Population) RunID() uuid.UUID { return p.runID }

// Validate checks the population invariants: every genome is structurally
// valid, every species is non-empty and every client belongs to exactly
// one species. Clients have no species until the first Evolve.
func (p *Population) Validate() error {
	membership := make(map[*Client]int, len(p.clients))
	for _, s := range p.species {
		if s.Size() == 0 {
			return fmt.Errorf("species %d is empty", s.Key)
		}
		for _, c := range s.members {
			if c.species != s {
				return fmt.Errorf("species %d lists a client assigned elsewhere", s.Key)
			}
			membership[c]++
		}
	}
	for i, c := range p.clients {
		if n := membership[c]; n != 1 {
			return fmt.Errorf("client %d belongs to %d species", i, n)
		}
		if err := c.genome.Validate(); err != nil {
			return fmt.Errorf("client %d: %w", i, err)
		}
	}
	return nil
}
