package neat

import (
	"fmt"

	"github.com/baldhumanity/neatlite/neat/nn"
)

// Client is the unit of selection: one genome, the network compiled from it
// and a fitness value set by the caller.
type Client struct {
	Fitness float64

	reg     *Registry
	genome  *Genome
	network *nn.FeedForwardNetwork
	species *Species
}

// NewClient wraps genome. The network is compiled on the first Calculate.
func NewClient(reg *Registry, genome *Genome) *Client {
	return &Client{reg: reg, genome: genome}
}

// Calculate feeds inputs through the client's network. It expects exactly
// Registry.Inputs() values; the bias input is supplied internally.
func (c *Client) Calculate(inputs []float64) ([]float64, error) {
	if c.network == nil {
		if err := c.GenerateNetwork(); err != nil {
			return nil, err
		}
	}
	return c.network.Activate(inputs)
}

// GenerateNetwork compiles the current genome. Later genome changes are not
// visible to Calculate until the next call.
func (c *Client) GenerateNetwork() error {
	net, err := nn.CreateFeedForwardNetwork(c.reg.Topology(c.genome), c.reg.Config().ActivationFunc())
	if err != nil {
		return fmt.Errorf("failed to compile network: %w", err)
	}
	c.network = net
	return nil
}

// Distance returns the compatibility distance between the two clients' genomes.
func (c *Client) Distance(other *Client) float64 {
	return Distance(c.genome, other.genome, c.reg.Config())
}

// Mutate mutates the genome in place. The compiled network is left untouched.
func (c *Client) Mutate() {
	c.genome.Mutate(c.reg)
}

// Genome returns the client's genome. Changes to it reach the network only
// after GenerateNetwork.
func (c *Client) Genome() *Genome { return c.genome }

// SetGenome replaces the genome. Like Mutate, it does not recompile the network.
func (c *Client) SetGenome(g *Genome) {
	c.genome = g
}

// Species returns the species the client belongs to, or nil.
func (c *Client) Species() *Species { return c.species }

// HasSpecies reports whether the client is assigned to a species.
func (c *Client) HasSpecies() bool { return c.species != nil }
