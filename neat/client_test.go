package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neatlite/neat/nn"
)

func TestClientCalculate(t *testing.T) {
	reg := newTestRegistry(t, nil, 2, 1)
	c := NewClient(reg, reg.EmptyGenome())

	out, err := c.Calculate([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, out, "no connections leaves the output at sigmoid(0)")

	_, err = c.Calculate([]float64{1, 1, 1})
	assert.ErrorIs(t, err, nn.ErrInputMismatch, "the bias input is not part of the input vector")
}

func TestClientNetworkIsRebuiltExplicitly(t *testing.T) {
	config := DefaultConfig()
	config.Activation = "relu"
	reg := newTestRegistry(t, config, 1, 1)
	c := NewClient(reg, reg.EmptyGenome())

	out, err := c.Calculate([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out)

	c.Genome().AddConnection(reg, 0, 2)
	out, err = c.Calculate([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out, "mutations are not visible until the network is regenerated")

	require.NoError(t, c.GenerateNetwork())
	out, err = c.Calculate([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, out)
}

func TestClientBiasInput(t *testing.T) {
	config := DefaultConfig()
	config.Activation = "relu"
	reg := newTestRegistry(t, config, 1, 1)
	c := NewClient(reg, reg.EmptyGenome())
	c.Genome().AddConnection(reg, 1, 2) // bias -> output
	c.Genome().Connections.At(0).Weight = 0.25
	require.NoError(t, c.GenerateNetwork())

	out, err := c.Calculate([]float64{100})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25}, out)
}

func TestClientDistanceAndMutate(t *testing.T) {
	config := DefaultConfig()
	config.ProbMutateLink = 1
	reg := newTestRegistry(t, config, 2, 1)
	a := NewClient(reg, reg.EmptyGenome())
	b := NewClient(reg, reg.EmptyGenome())
	assert.Zero(t, a.Distance(b))

	a.Mutate()
	assert.NotZero(t, a.Genome().Connections.Len())
	assert.Greater(t, a.Distance(b), 0.0)
	assert.Equal(t, a.Distance(b), b.Distance(a))
}
