// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/samuelfneumann/corridorgrid/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
	Seed(seed uint64)
}

// Ender determines when episodes should be ended
type Ender interface {
	// End checks whether the argument TimeStep is the last in the
	// episode, marking it as such with TimeStep.SetEnd if so
	End(t *timestep.TimeStep) bool
}

// Environment implements a simulated environment driven through a
// reset/step control loop.
//
// Actions are 1-dimensional vectors holding a discrete action index.
// Step returns the next TimeStep and whether that TimeStep is the last
// in the episode. Environments are not safe for concurrent use.
type Environment interface {
	// Reset starts a new episode and returns its first TimeStep
	Reset() (timestep.TimeStep, error)

	// Seed reseeds the random source of the environment. Calling Reset
	// after Seed with the same seed always produces the same episode.
	Seed(seed uint64)

	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)
	CurrentTimeStep() timestep.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec

	// Render returns a text representation of the current state
	Render() string
}
