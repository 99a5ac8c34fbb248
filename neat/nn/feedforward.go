package nn

import (
	"cmp"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// Nodes at or left of InputX are inputs, nodes at or right of OutputX are outputs.
const (
	InputX  = 0.1
	OutputX = 0.9
)

// ErrInputMismatch is returned by Activate when the input vector has the wrong length.
var ErrInputMismatch = errors.New("input vector length does not match input nodes")

// Node is the snapshot of a genome node used to build a network.
type Node struct {
	ID   int
	X    float64
	Bias bool // Bias nodes sit in the input column and always output 1.0
}

// Link is the snapshot of a genome connection used to build a network.
type Link struct {
	From    int
	To      int
	Weight  float64
	Enabled bool
}

// Topology is a frozen view of a genome. Networks built from it do not follow
// later changes to the genome.
type Topology struct {
	Nodes []Node
	Links []Link
}

// incoming is an edge into a node, pointing at the slot of its source.
type incoming struct {
	source  int
	weight  float64
	enabled bool
}

// neuralNode represents a node during network activation.
type neuralNode struct {
	ID    int
	X     float64
	Slot  int // Index into the value buffer
	Links []incoming
}

// FeedForwardNetwork is the phenotype of a genome. Hidden nodes are evaluated
// in ascending X, which is a topological order because every connection runs
// from a lower X to a higher X.
type FeedForwardNetwork struct {
	Inputs  []neuralNode
	Bias    []neuralNode
	Hidden  []neuralNode
	Outputs []neuralNode

	activation ActivationType
	values     []float64
}

// CreateFeedForwardNetwork builds a runnable network from a topology snapshot.
func CreateFeedForwardNetwork(t Topology, activation ActivationType) (*FeedForwardNetwork, error) {
	if activation == nil {
		return nil, errors.New("activation function is required")
	}

	net := &FeedForwardNetwork{
		activation: activation,
		values:     make([]float64, len(t.Nodes)),
	}

	slots := make(map[int]int, len(t.Nodes))
	for i, n := range t.Nodes {
		if _, dup := slots[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node %d in topology", n.ID)
		}
		slots[n.ID] = i
	}

	hidden := make(map[int]int) // node id -> position in net.Hidden
	outputs := make(map[int]int)
	for _, n := range t.Nodes {
		node := neuralNode{ID: n.ID, X: n.X, Slot: slots[n.ID]}
		switch {
		case n.Bias:
			net.Bias = append(net.Bias, node)
		case n.X <= InputX:
			net.Inputs = append(net.Inputs, node)
		case n.X >= OutputX:
			net.Outputs = append(net.Outputs, node)
		default:
			net.Hidden = append(net.Hidden, node)
		}
	}

	byID := func(a, b neuralNode) int { return cmp.Compare(a.ID, b.ID) }
	slices.SortFunc(net.Inputs, byID)
	slices.SortFunc(net.Outputs, byID)
	slices.SortStableFunc(net.Hidden, func(a, b neuralNode) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for i, n := range net.Hidden {
		hidden[n.ID] = i
	}
	for i, n := range net.Outputs {
		outputs[n.ID] = i
	}

	for _, l := range t.Links {
		src, ok := slots[l.From]
		if !ok {
			return nil, fmt.Errorf("link %d->%d references unknown node %d", l.From, l.To, l.From)
		}
		edge := incoming{source: src, weight: l.Weight, enabled: l.Enabled}
		if i, ok := hidden[l.To]; ok {
			net.Hidden[i].Links = append(net.Hidden[i].Links, edge)
			continue
		}
		if i, ok := outputs[l.To]; ok {
			net.Outputs[i].Links = append(net.Outputs[i].Links, edge)
			continue
		}
		if _, ok := slots[l.To]; !ok {
			return nil, fmt.Errorf("link %d->%d references unknown node %d", l.From, l.To, l.To)
		}
		return nil, fmt.Errorf("link %d->%d ends in an input node", l.From, l.To)
	}

	return net, nil
}

// NumInputs returns the number of values Activate expects.
func (net *FeedForwardNetwork) NumInputs() int {
	return len(net.Inputs)
}

// NumOutputs returns the length of the vector Activate returns.
func (net *FeedForwardNetwork) NumOutputs() int {
	return len(net.Outputs)
}

// Activate computes the network's output for a given slice of input values.
// The input slice must match the number of input nodes.
func (net *FeedForwardNetwork) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(net.Inputs) {
		return nil, fmt.Errorf("%w: got %d, network has %d", ErrInputMismatch, len(inputs), len(net.Inputs))
	}

	for i, n := range net.Inputs {
		net.values[n.Slot] = inputs[i]
	}
	for _, n := range net.Bias {
		net.values[n.Slot] = 1.0
	}

	for _, n := range net.Hidden {
		net.values[n.Slot] = net.fire(n)
	}

	outputs := make([]float64, len(net.Outputs))
	for i, n := range net.Outputs {
		v := net.fire(n)
		net.values[n.Slot] = v
		outputs[i] = v
	}
	return outputs, nil
}

func (net *FeedForwardNetwork) fire(n neuralNode) float64 {
	sum := 0.0
	for _, l := range n.Links {
		if l.enabled {
			sum += l.weight * net.values[l.source]
		}
	}
	return net.activation(sum)
}
