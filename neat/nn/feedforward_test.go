package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(x float64) float64 { return x }

func TestActivateSimple(t *testing.T) {
	net, err := CreateFeedForwardNetwork(Topology{
		Nodes: []Node{{ID: 3, X: OutputX}, {ID: 1, X: InputX}, {ID: 2, X: InputX}},
		Links: []Link{
			{From: 1, To: 3, Weight: 2, Enabled: true},
			{From: 2, To: 3, Weight: -1, Enabled: true},
		},
	}, identity)
	require.NoError(t, err)
	assert.Equal(t, 2, net.NumInputs())
	assert.Equal(t, 1, net.NumOutputs())

	out, err := net.Activate([]float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, out)
}

func TestActivateHiddenInOrder(t *testing.T) {
	// 1 -> 5 (x=0.3) -> 4 (x=0.6) -> 2, listed out of order.
	net, err := CreateFeedForwardNetwork(Topology{
		Nodes: []Node{
			{ID: 4, X: 0.6},
			{ID: 2, X: OutputX},
			{ID: 5, X: 0.3},
			{ID: 1, X: InputX},
		},
		Links: []Link{
			{From: 4, To: 2, Weight: 3, Enabled: true},
			{From: 5, To: 4, Weight: 2, Enabled: true},
			{From: 1, To: 5, Weight: 1, Enabled: true},
		},
	}, identity)
	require.NoError(t, err)
	require.Len(t, net.Hidden, 2)
	assert.Equal(t, 5, net.Hidden[0].ID)
	assert.Equal(t, 4, net.Hidden[1].ID)

	out, err := net.Activate([]float64{1.5})
	require.NoError(t, err)
	assert.Equal(t, []float64{9}, out)
}

func TestActivateSkipsDisabledLinks(t *testing.T) {
	net, err := CreateFeedForwardNetwork(Topology{
		Nodes: []Node{{ID: 1, X: InputX}, {ID: 2, X: OutputX}},
		Links: []Link{{From: 1, To: 2, Weight: 5, Enabled: false}},
	}, Sigmoid)
	require.NoError(t, err)

	out, err := net.Activate([]float64{10})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, out)
}

func TestActivateBias(t *testing.T) {
	net, err := CreateFeedForwardNetwork(Topology{
		Nodes: []Node{{ID: 1, X: InputX}, {ID: 2, X: InputX, Bias: true}, {ID: 3, X: OutputX}},
		Links: []Link{{From: 2, To: 3, Weight: 0.5, Enabled: true}},
	}, ReLU)
	require.NoError(t, err)
	assert.Equal(t, 1, net.NumInputs())

	out, err := net.Activate([]float64{-7})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, out)
}

func TestActivateOutputsOrderedByID(t *testing.T) {
	net, err := CreateFeedForwardNetwork(Topology{
		Nodes: []Node{{ID: 1, X: InputX}, {ID: 3, X: OutputX}, {ID: 2, X: OutputX}},
		Links: []Link{{From: 1, To: 3, Weight: 1, Enabled: true}},
	}, identity)
	require.NoError(t, err)

	out, err := net.Activate([]float64{4})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 4}, out)
}

func TestActivateInputMismatch(t *testing.T) {
	net, err := CreateFeedForwardNetwork(Topology{
		Nodes: []Node{{ID: 1, X: InputX}, {ID: 2, X: OutputX}},
	}, Sigmoid)
	require.NoError(t, err)

	_, err = net.Activate([]float64{1, 2})
	assert.ErrorIs(t, err, ErrInputMismatch)
	_, err = net.Activate(nil)
	assert.ErrorIs(t, err, ErrInputMismatch)
}

func TestCreateFeedForwardNetworkErrors(t *testing.T) {
	nodes := []Node{{ID: 1, X: InputX}, {ID: 2, X: OutputX}}
	tests := []struct {
		name     string
		topology Topology
	}{
		{"unknown source", Topology{Nodes: nodes, Links: []Link{{From: 9, To: 2}}}},
		{"unknown target", Topology{Nodes: nodes, Links: []Link{{From: 1, To: 9}}}},
		{"into input", Topology{Nodes: nodes, Links: []Link{{From: 2, To: 1}}}},
		{"duplicate node", Topology{Nodes: append(nodes, Node{ID: 1, X: InputX})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateFeedForwardNetwork(tt.topology, Sigmoid)
			assert.Error(t, err)
		})
	}

	_, err := CreateFeedForwardNetwork(Topology{Nodes: nodes}, nil)
	assert.Error(t, err)
}

func TestActivations(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.InDelta(t, 1/(1+math.Exp(-2)), Sigmoid(2), 1e-12)
	assert.Equal(t, 0.0, ReLU(-3))
	assert.Equal(t, 2.5, ReLU(2.5))

	fn, err := GetActivation(" ReLU ")
	require.NoError(t, err)
	assert.Equal(t, 4.0, fn(4))

	_, err = GetActivation("tanh")
	assert.Error(t, err)
}
