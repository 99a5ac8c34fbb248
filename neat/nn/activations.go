package nn

import (
	"fmt"
	"math"
	"strings"
)

// ActivationType defines the type for activation functions.
type ActivationType func(x float64) float64

// ActivationFunctions maps function names to the actual activation functions.
// This allows configuration to specify activations by name.
var ActivationFunctions = map[string]ActivationType{
	"sigmoid": Sigmoid,
	"relu":    ReLU,
}

// GetActivation retrieves an activation function by name (case-insensitive).
func GetActivation(name string) (ActivationType, error) {
	if fn, ok := ActivationFunctions[strings.ToLower(strings.TrimSpace(name))]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %q", name)
}

// Sigmoid is the logistic function 1 / (1 + e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// ReLU (Rectified Linear Unit) activation function.
func ReLU(x float64) float64 {
	return math.Max(0, x)
}
