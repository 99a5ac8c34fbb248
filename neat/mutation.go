package neat

import "math/rand"

// maxLinkAttempts bounds the search for an unconnected node pair.
const maxLinkAttempts = 100

// middleNodeJitter is the half-width of the random y offset given to split nodes.
const middleNodeJitter = 0.05

// Mutate applies each mutation operator whose probability fires. Operators
// are independent, so any subset of them may run in a single call.
func (g *Genome) Mutate(reg *Registry) {
	cfg := reg.Config()
	rng := reg.Rand()

	if cfg.ProbMutateLink > rng.Float64() {
		g.MutateLink(reg)
	}
	if cfg.ProbMutateNode > rng.Float64() {
		g.MutateNode(reg)
	}
	if cfg.ProbMutateWeightShift > rng.Float64() {
		g.MutateWeightShift(reg)
	}
	if cfg.ProbMutateWeightRandom > rng.Float64() {
		g.MutateWeightRandom(reg)
	}
	if cfg.ProbMutateToggleLink > rng.Float64() {
		g.MutateToggleLink(reg)
	}
}

// MutateLink connects two nodes that are not yet connected, always from the
// lower x to the higher x. It gives up after a bounded number of attempts
// and reports whether a connection was added.
func (g *Genome) MutateLink(reg *Registry) bool {
	if g.Nodes.Len() < 2 {
		return false
	}
	rng := reg.Rand()

	for attempt := 0; attempt < maxLinkAttempts; attempt++ {
		a := *g.Nodes.Random(rng)
		b := *g.Nodes.Random(rng)
		if a.X == b.X {
			continue
		}
		if a.X > b.X {
			a, b = b, a
		}
		if g.Connections.Contains(ConnectionKey{From: a.ID, To: b.ID}) {
			continue
		}

		c := reg.GetConnection(a.ID, b.ID)
		c.Weight = uniform(rng, reg.Config().WeightShiftStrength)
		return g.insertConnection(c)
	}
	return false
}

// MutateNode splits a random connection with a middle node. The middle node
// of a pair is shared across genomes through the registry, unless this
// genome already holds it, in which case a fresh node is minted.
func (g *Genome) MutateNode(reg *Registry) bool {
	picked := g.Connections.Random(reg.Rand())
	if picked == nil {
		return false
	}
	conn := *picked

	from, okFrom := g.node(conn.From)
	to, okTo := g.node(conn.To)
	if !okFrom || !okTo {
		return false
	}

	var middle NodeGene
	cached := reg.ReplaceIndex(conn.From, conn.To)
	if cached != 0 && !g.Nodes.Contains(cached) {
		n, err := reg.GetNode(cached)
		if err != nil {
			return false
		}
		middle = n
	} else {
		x, y := middleCoords(reg.Rand(), from, to)
		// Adjacent float64 x values have no midpoint strictly between them.
		if !(from.X < x && x < to.X) {
			return false
		}
		middle = reg.CreateNode(x, y)
		if cached == 0 {
			reg.SetReplaceIndex(conn.From, conn.To, middle.ID)
		}
	}

	in := reg.GetConnection(conn.From, middle.ID)
	out := reg.GetConnection(middle.ID, conn.To)
	out.Weight = conn.Weight
	out.Enabled = conn.Enabled

	g.Connections.Remove(conn.Key())
	g.Nodes.Add(middle)
	g.insertConnection(in)
	g.insertConnection(out)
	return true
}

// MutateWeightShift nudges the weight of a random connection.
func (g *Genome) MutateWeightShift(reg *Registry) bool {
	c := g.Connections.Random(reg.Rand())
	if c == nil {
		return false
	}
	c.Weight += uniform(reg.Rand(), reg.Config().WeightShiftStrength)
	return true
}

// MutateWeightRandom replaces the weight of a random connection.
func (g *Genome) MutateWeightRandom(reg *Registry) bool {
	c := g.Connections.Random(reg.Rand())
	if c == nil {
		return false
	}
	c.Weight = uniform(reg.Rand(), reg.Config().WeightRandomStrength)
	return true
}

// MutateToggleLink flips the enabled flag of a random connection.
func (g *Genome) MutateToggleLink(reg *Registry) bool {
	c := g.Connections.Random(reg.Rand())
	if c == nil {
		return false
	}
	c.Enabled = !c.Enabled
	return true
}

func middleCoords(rng *rand.Rand, from, to NodeGene) (float64, float64) {
	x := (from.X + to.X) / 2
	y := (from.Y+to.Y)/2 + (rng.Float64()*2-1)*middleNodeJitter
	return x, y
}

// uniform draws from [-strength, strength).
func uniform(rng *rand.Rand, strength float64) float64 {
	return (rng.Float64()*2 - 1) * strength
}
