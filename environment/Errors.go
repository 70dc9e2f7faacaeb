package environment

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrConfiguration is returned when an environment is constructed
	// or looked up with invalid parameters. It is never returned by
	// Step.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidAction is returned by Step when the action lies outside
	// the environment's discrete action space
	ErrInvalidAction = errors.New("invalid action")
)

// ConfigErrorf returns an error wrapping ErrConfiguration with the
// formatted message
func ConfigErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// DiscreteAction extracts a discrete action index in {0, ..., n-1} from
// a 1-dimensional action vector
func DiscreteAction(a *mat.VecDense, n int) (int, error) {
	if a == nil {
		return 0, fmt.Errorf("%w: nil action", ErrInvalidAction)
	}
	if a.Len() != 1 {
		return 0, fmt.Errorf("%w: actions should be 1-dimensional, got %d "+
			"dimensions", ErrInvalidAction, a.Len())
	}

	value := a.AtVec(0)
	action := int(value)
	if value != math.Trunc(value) || action < 0 || action >= n {
		return 0, fmt.Errorf("%w: illegal action %v ∉ [0, %d)",
			ErrInvalidAction, value, n)
	}
	return action, nil
}

// NewAction returns the 1-dimensional action vector for the discrete
// action a
func NewAction(a int) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(a)})
}
