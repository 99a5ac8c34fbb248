package neat

import (
	"cmp"
	"fmt"

	"github.com/baldhumanity/neatlite/neat/nn"
)

// Nodes at or left of InputX are inputs, nodes at or right of OutputX are outputs.
const (
	InputX  = nn.InputX
	OutputX = nn.OutputX
)

// --------------------------- NodeGene ---------------------------

// NodeGene is a node of the genome graph. X is its topological position in
// [0, 1] and also decides whether it is an input, hidden or output node.
// Y is only used for layout.
type NodeGene struct {
	ID int // Innovation number of the node, 1-based
	X  float64
	Y  float64
}

// String returns a string representation of the NodeGene.
func (ng NodeGene) String() string {
	return fmt.Sprintf("NodeGene(ID: %d, X: %.3f, Y: %.3f)", ng.ID, ng.X, ng.Y)
}

// IsInput reports whether the node sits in the input column.
func (ng NodeGene) IsInput() bool { return ng.X <= InputX }

// IsOutput reports whether the node sits in the output column.
func (ng NodeGene) IsOutput() bool { return ng.X >= OutputX }

func nodeID(ng NodeGene) int { return ng.ID }

// --------------------------- ConnectionGene ---------------------------

// ConnectionKey identifies a connection by its ordered (from, to) node pair.
type ConnectionKey struct {
	From int
	To   int
}

// ConnectionGene is a weighted directed edge between two node genes.
type ConnectionGene struct {
	Innovation   int // Global innovation number shared by every genome with this edge
	From         int // Node id
	To           int // Node id
	Weight       float64
	Enabled      bool
	ReplaceIndex int // Id of the middle node once the edge has been split, 0 otherwise
}

// Key returns the (from, to) pair identifying the connection.
func (cg ConnectionGene) Key() ConnectionKey {
	return ConnectionKey{From: cg.From, To: cg.To}
}

// String returns a string representation of the ConnectionGene.
func (cg ConnectionGene) String() string {
	return fmt.Sprintf("ConnGene(Innov: %d, Key: %d->%d, Weight: %.3f, Enabled: %t)",
		cg.Innovation, cg.From, cg.To, cg.Weight, cg.Enabled)
}

func connectionKey(cg ConnectionGene) ConnectionKey { return cg.Key() }

func byInnovation(a, b ConnectionGene) int {
	return cmp.Compare(a.Innovation, b.Innovation)
}
