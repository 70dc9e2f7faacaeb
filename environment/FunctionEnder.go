package environment

import (
	"github.com/samuelfneumann/corridorgrid/timestep"
	"gonum.org/v1/gonum/mat"
)

// FunctionEnder ends an episode whenever a function of a vector
// (usually the underlying environment state) returns true.
type FunctionEnder struct {
	end     func(*mat.VecDense) bool
	endType timestep.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true.
func NewFunctionEnder(f func(*mat.VecDense) bool,
	endType timestep.EndType) *FunctionEnder {
	return &FunctionEnder{f, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended, End() marks the timestep as the last in the episode
// with the appropriate ending type.
func (f *FunctionEnder) End(t *timestep.TimeStep) bool {
	if f.end(t.Observation) {
		t.SetEnd(f.endType)
		return true
	}
	return false
}

// Enders combines multiple Enders into one. The Enders are consulted
// in order and the first one to end the episode decides its end type,
// so earlier Enders take priority over later ones.
type Enders []Ender

// End ends the episode if any of the combined Enders does
func (e Enders) End(t *timestep.TimeStep) bool {
	for _, ender := range e {
		if ender.End(t) {
			return true
		}
	}
	return false
}
