package neat

import (
	"fmt"
	"math"
	"strings"
)

// Activation identifies one of the fixed activation functions a neuron gene can carry.
// The numeric value doubles as the tag written by the genome encoder.
type Activation uint8

const (
	Sigmoid Activation = iota
	Clamped
	Cubic
	Exponential
	ReLU

	numActivations
)

var activationNames = [numActivations]string{
	Sigmoid:     "sigmoid",
	Clamped:     "clamped",
	Cubic:       "cubic",
	Exponential: "exp",
	ReLU:        "relu",
}

// Activations lists every supported activation in tag order.
func Activations() []Activation {
	out := make([]Activation, 0, numActivations)
	for a := Activation(0); a < numActivations; a++ {
		out = append(out, a)
	}
	return out
}

// ParseActivation looks an activation up by its configuration name.
func ParseActivation(name string) (Activation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "exponential":
		return Exponential, nil
	case "cube":
		return Cubic, nil
	}
	for a, n := range activationNames {
		if n == name {
			return Activation(a), nil
		}
	}
	return 0, fmt.Errorf("unknown activation function: %s", name)
}

// Valid reports whether a is one of the known activation tags.
func (a Activation) Valid() bool {
	return a < numActivations
}

func (a Activation) String() string {
	if !a.Valid() {
		return fmt.Sprintf("activation(%d)", uint8(a))
	}
	return activationNames[a]
}

// Apply evaluates the activation function at x.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case Sigmoid:
		return 1.0 / (1.0 + math.Exp(-x))
	case Clamped:
		return clamp(x, -1.0, 1.0)
	case Cubic:
		return x * x * x
	case Exponential:
		// Clamp input to prevent overflow
		return math.Exp(clamp(x, -60.0, 60.0))
	case ReLU:
		return math.Max(0, x)
	default:
		return x
	}
}
