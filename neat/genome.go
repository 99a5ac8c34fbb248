package neat

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// distanceNormalizerMin is the gene count below which distance terms are not normalized.
const distanceNormalizerMin = 20

// Genome represents an individual organism in the population.
// Connections are kept ascending by innovation number at all times; the
// distance and crossover walks depend on it.
type Genome struct {
	Connections *RandomSet[ConnectionKey, ConnectionGene]
	Nodes       *RandomSet[int, NodeGene]
}

// NewGenome creates a genome with no nodes and no connections.
func NewGenome() *Genome {
	return &Genome{
		Connections: NewRandomSet(connectionKey),
		Nodes:       NewRandomSet(nodeID),
	}
}

// HighestInnovation returns the innovation number of the last connection, or 0.
func (g *Genome) HighestInnovation() int {
	if g.Connections.IsEmpty() {
		return 0
	}
	return g.Connections.Get(g.Connections.Len() - 1).Innovation
}

// AddConnection connects the nodes at positions pos1 and pos2 of the node
// list. It panics if either position is out of range.
func (g *Genome) AddConnection(reg *Registry, pos1, pos2 int) bool {
	from := g.Nodes.Get(pos1)
	to := g.Nodes.Get(pos2)
	return g.insertConnection(reg.GetConnection(from.ID, to.ID))
}

func (g *Genome) insertConnection(c ConnectionGene) bool {
	return g.Connections.AddSorted(c, byInnovation)
}

// node looks up a node of this genome by id.
func (g *Genome) node(id int) (NodeGene, bool) {
	i := g.Nodes.Find(id)
	if i < 0 {
		return NodeGene{}, false
	}
	return g.Nodes.Get(i), true
}

// Copy returns a deep copy of the genome.
func (g *Genome) Copy() *Genome {
	return &Genome{
		Connections: g.Connections.Clone(),
		Nodes:       g.Nodes.Clone(),
	}
}

// NumEnabled returns the number of enabled connections.
func (g *Genome) NumEnabled() int {
	n := 0
	for _, c := range g.Connections.Values() {
		if c.Enabled {
			n++
		}
	}
	return n
}

// Distance returns the compatibility distance between g and other.
func (g *Genome) Distance(other *Genome, config *Config) float64 {
	return Distance(g, other, config)
}

// Distance computes c1*disjoint/N + c2*excess/N + c3*meanWeightDiff.
// The genome with the higher highest innovation is walked as the first one.
// Every mismatch met while both cursors are in range is disjoint; only the
// unconsumed tail of the first genome is excess. N is the larger connection
// count, or 1 when that count is below 20.
func Distance(g1, g2 *Genome, config *Config) float64 {
	if g1.HighestInnovation() < g2.HighestInnovation() {
		g1, g2 = g2, g1
	}

	n1, n2 := g1.Connections.Len(), g2.Connections.Len()
	i1, i2 := 0, 0
	disjoint, similar := 0, 0
	weightDiff := 0.0

	for i1 < n1 && i2 < n2 {
		c1 := g1.Connections.At(i1)
		c2 := g2.Connections.At(i2)
		switch {
		case c1.Innovation == c2.Innovation:
			similar++
			weightDiff += math.Abs(c1.Weight - c2.Weight)
			i1++
			i2++
		case c1.Innovation > c2.Innovation:
			disjoint++
			i2++
		default:
			disjoint++
			i1++
		}
	}
	excess := n1 - i1

	if similar > 0 {
		weightDiff /= float64(similar)
	}
	n := float64(max(n1, n2))
	if n < distanceNormalizerMin {
		n = 1
	}

	return config.MultDisjoint*float64(disjoint)/n +
		config.MultExcess*float64(excess)/n +
		config.MultWeightDiff*weightDiff
}

// Crossover builds a child from two parents. fitter must be the parent with
// the higher fitness; the order is never changed here. Matching genes are
// taken from either parent at random, unmatched genes of fitter and its
// tail are inherited, unmatched genes of other are dropped.
func Crossover(reg *Registry, fitter, other *Genome) *Genome {
	rng := reg.Rand()
	child := NewGenome()

	n1, n2 := fitter.Connections.Len(), other.Connections.Len()
	i1, i2 := 0, 0
	for i1 < n1 && i2 < n2 {
		c1 := fitter.Connections.Get(i1)
		c2 := other.Connections.Get(i2)
		switch {
		case c1.Innovation == c2.Innovation:
			if rng.Float64() < 0.5 {
				child.insertConnection(c1)
			} else {
				child.insertConnection(c2)
			}
			i1++
			i2++
		case c1.Innovation > c2.Innovation:
			i2++
		default:
			child.insertConnection(c1)
			i1++
		}
	}
	for ; i1 < n1; i1++ {
		child.insertConnection(fitter.Connections.Get(i1))
	}

	for _, n := range reg.MandatoryNodes() {
		child.Nodes.Add(n)
	}
	for _, c := range child.Connections.Values() {
		for _, id := range [2]int{c.From, c.To} {
			if child.Nodes.Contains(id) {
				continue
			}
			n, err := reg.GetNode(id)
			if err != nil {
				panic(fmt.Sprintf("crossover inherited connection %d->%d: %v", c.From, c.To, err))
			}
			child.Nodes.Add(n)
		}
	}
	return child
}

// Validate checks the structural invariants of the genome: connections
// strictly ascending by innovation, endpoints present, the graph acyclic and
// every edge running from a lower to a higher x. Cycles are reported before
// x ordering so a loop is named as such.
func (g *Genome) Validate() error {
	dg := simple.NewDirectedGraph()
	for _, n := range g.Nodes.Values() {
		dg.AddNode(simple.Node(n.ID))
	}

	prev := 0
	for _, c := range g.Connections.Values() {
		if c.Innovation <= prev {
			return fmt.Errorf("connection %d->%d: innovation %d out of order after %d", c.From, c.To, c.Innovation, prev)
		}
		prev = c.Innovation

		if !g.Nodes.Contains(c.From) {
			return fmt.Errorf("connection %d->%d: missing source node", c.From, c.To)
		}
		if !g.Nodes.Contains(c.To) {
			return fmt.Errorf("connection %d->%d: missing target node", c.From, c.To)
		}
		if c.From == c.To {
			return fmt.Errorf("connection %d->%d: self loop", c.From, c.To)
		}
		dg.SetEdge(dg.NewEdge(simple.Node(c.From), simple.Node(c.To)))
	}

	if _, err := topo.Sort(dg); err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) && len(cycles) > 0 {
			ids := make([]string, 0, len(cycles[0]))
			for _, n := range cycles[0] {
				ids = append(ids, strconv.FormatInt(n.ID(), 10))
			}
			return fmt.Errorf("genome contains %d cycle(s), first through nodes %s", len(cycles), strings.Join(ids, ","))
		}
		return err
	}

	for _, c := range g.Connections.Values() {
		from, _ := g.node(c.From)
		to, _ := g.node(c.To)
		if from.X >= to.X {
			return fmt.Errorf("connection %d->%d: runs from x=%v to x=%v", c.From, c.To, from.X, to.X)
		}
	}
	return nil
}

// String returns a multi-line summary of the genome.
func (g *Genome) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Genome(Nodes: %d, Connections: %d, Enabled: %d)\n", g.Nodes.Len(), g.Connections.Len(), g.NumEnabled())
	for _, n := range g.Nodes.Values() {
		sb.WriteString("  " + n.String() + "\n")
	}
	for _, c := range g.Connections.Values() {
		sb.WriteString("  " + c.String() + "\n")
	}
	return sb.String()
}
