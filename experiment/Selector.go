package experiment

import (
	"fmt"

	"github.com/samuelfneumann/corridorgrid/environment"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Selector selects actions to take in an environment. Selectors stand
// in for agents when the environment, rather than learning, is being
// run or measured.
type Selector interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
}

// Fixed always selects the same action
type Fixed struct {
	action *mat.VecDense
}

// NewFixedSelector returns a Selector that always selects action a
func NewFixedSelector(a int) *Fixed {
	return &Fixed{environment.NewAction(a)}
}

// SelectAction selects the next action
func (f *Fixed) SelectAction(ts.TimeStep) *mat.VecDense {
	return f.action
}

// Sequence selects actions from a fixed sequence, starting over at the
// beginning of each episode and cycling if the episode outlasts the
// sequence
type Sequence struct {
	actions []int
	next    int
}

// NewSequenceSelector returns a Selector that selects the argument
// actions in order
func NewSequenceSelector(actions []int) (*Sequence, error) {
	if len(actions) == 0 {
		return nil, fmt.Errorf("newSequenceSelector: empty action sequence")
	}
	return &Sequence{actions: append([]int(nil), actions...)}, nil
}

// SelectAction selects the next action
func (s *Sequence) SelectAction(t ts.TimeStep) *mat.VecDense {
	if t.First() {
		s.next = 0
	}
	a := s.actions[s.next%len(s.actions)]
	s.next++

	return environment.NewAction(a)
}

// Uniform selects actions uniformly at random
type Uniform struct {
	source rand.Source
	dist   distuv.Categorical
}

// NewUniformSelector returns a Selector that samples actions uniformly
// from the discrete action space described by spec
func NewUniformSelector(spec environment.Spec, seed uint64) (*Uniform,
	error) {
	if spec.Type != environment.Action ||
		spec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newUniformSelector: want a discrete action "+
			"spec, got %v %v spec", spec.Cardinality, spec.Type)
	}

	n := spec.NumActions()
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}

	source := rand.NewSource(seed)
	dist := distuv.NewCategorical(weights, source)

	return &Uniform{source, dist}, nil
}

// SelectAction selects the next action
func (u *Uniform) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{u.dist.Rand()})
}

// Seed reseeds the random source of the Selector
func (u *Uniform) Seed(seed uint64) {
	u.source.Seed(seed)
}
