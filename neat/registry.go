package neat

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/baldhumanity/neatlite/neat/nn"
)

// ErrNodeNotFound is returned by GetNode for ids the registry never minted.
var ErrNodeNotFound = errors.New("node not found")

// BiasY is the layout row of the bias node.
const BiasY = 0.9

// Registry is the single authority for node ids and connection innovation
// numbers within one evolutionary run. Identical structural mutations made
// on different genomes resolve to identical ids through it.
type Registry struct {
	config *Config
	rng    *rand.Rand

	inputs  int
	outputs int
	biasID  int // 0 when the bias input is disabled

	nodes       []NodeGene // nodes[i] has ID i+1
	connections map[ConnectionKey]ConnectionGene
}

// NewRegistry creates a registry seeded with the input, bias and output nodes.
func NewRegistry(config *Config, inputs, outputs int, rng *rand.Rand) *Registry {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	r := &Registry{config: config, rng: rng}
	r.Reset(inputs, outputs)
	return r
}

// Reset clears both catalogs and seeds the mandatory nodes again.
func (r *Registry) Reset(inputs, outputs int) {
	r.inputs = inputs
	r.outputs = outputs
	r.biasID = 0
	r.nodes = nil
	r.connections = make(map[ConnectionKey]ConnectionGene)

	for i := 0; i < inputs; i++ {
		r.CreateNode(InputX, float64(i+1)/float64(inputs+1))
	}
	if r.config.Bias {
		r.biasID = r.CreateNode(InputX, BiasY).ID
	}
	for i := 0; i < outputs; i++ {
		r.CreateNode(OutputX, float64(i+1)/float64(outputs+1))
	}
}

// CreateNode mints a node with the next sequential id.
func (r *Registry) CreateNode(x, y float64) NodeGene {
	n := NodeGene{ID: len(r.nodes) + 1, X: x, Y: y}
	r.nodes = append(r.nodes, n)
	return n
}

// GetNode returns the node with the given 1-based id.
func (r *Registry) GetNode(id int) (NodeGene, error) {
	if id < 1 || id > len(r.nodes) {
		return NodeGene{}, fmt.Errorf("%w: id %d (registry holds %d nodes)", ErrNodeNotFound, id, len(r.nodes))
	}
	return r.nodes[id-1], nil
}

// GetConnection returns the catalog gene for the ordered pair (from, to),
// minting a new innovation number the first time the pair is seen. The
// returned copy is enabled with weight 1.0.
func (r *Registry) GetConnection(from, to int) ConnectionGene {
	key := ConnectionKey{From: from, To: to}
	gene, ok := r.connections[key]
	if !ok {
		gene = ConnectionGene{
			Innovation: len(r.connections) + 1,
			From:       from,
			To:         to,
		}
		r.connections[key] = gene
	}
	gene.Weight = 1.0
	gene.Enabled = true
	return gene
}

// ReplaceIndex returns the id of the node that split (from, to), or 0.
func (r *Registry) ReplaceIndex(from, to int) int {
	return r.connections[ConnectionKey{From: from, To: to}].ReplaceIndex
}

// SetReplaceIndex records id as the middle node of (from, to).
func (r *Registry) SetReplaceIndex(from, to, id int) {
	key := ConnectionKey{From: from, To: to}
	gene, ok := r.connections[key]
	if !ok {
		gene = r.GetConnection(from, to)
	}
	gene.ReplaceIndex = id
	r.connections[key] = gene
}

// MandatoryNodes returns the input, bias and output nodes in id order.
func (r *Registry) MandatoryNodes() []NodeGene {
	n := r.inputs + r.outputs
	if r.biasID != 0 {
		n++
	}
	return append([]NodeGene(nil), r.nodes[:n]...)
}

// EmptyGenome returns a genome holding only the mandatory nodes.
func (r *Registry) EmptyGenome() *Genome {
	g := NewGenome()
	for _, n := range r.MandatoryNodes() {
		g.Nodes.Add(n)
	}
	return g
}

// Topology converts a genome into the snapshot consumed by nn.
func (r *Registry) Topology(g *Genome) nn.Topology {
	t := nn.Topology{
		Nodes: make([]nn.Node, 0, g.Nodes.Len()),
		Links: make([]nn.Link, 0, g.Connections.Len()),
	}
	for _, n := range g.Nodes.Values() {
		t.Nodes = append(t.Nodes, nn.Node{ID: n.ID, X: n.X, Bias: r.biasID != 0 && n.ID == r.biasID})
	}
	for _, c := range g.Connections.Values() {
		t.Links = append(t.Links, nn.Link{From: c.From, To: c.To, Weight: c.Weight, Enabled: c.Enabled})
	}
	return t
}

// Inputs returns the number of input nodes, not counting the bias.
func (r *Registry) Inputs() int { return r.inputs }

// Outputs returns the number of output nodes.
func (r *Registry) Outputs() int { return r.outputs }

// BiasID returns the id of the bias node, or 0 if the bias input is disabled.
func (r *Registry) BiasID() int { return r.biasID }

// NodeCount returns the number of nodes minted so far.
func (r *Registry) NodeCount() int { return len(r.nodes) }

// InnovationCount returns the number of distinct connections seen so far.
func (r *Registry) InnovationCount() int { return len(r.connections) }

// Config returns the parameters of the run.
func (r *Registry) Config() *Config { return r.config }

// Rand returns the random source shared by every operator of the run.
func (r *Registry) Rand() *rand.Rand { return r.rng }
