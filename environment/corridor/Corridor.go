// Package corridor implements the special state corridor environments.
//
// A special state corridor is a 1-dimensional corridor in which the
// agent can only move left or right. Some states of the corridor are
// special: while standing on a special state the effect of an action is
// reversed, so moving left takes the agent right and vice versa. The
// walls at the ends of the corridor are the only thing the agent can
// sense, so special states cannot be told apart from ordinary ones by
// the wall observation alone. The observation also contains the
// agent's position, making the environment fully observable.
//
// In a circular corridor the ends are joined so that moving left from
// state 0 leads to the last state. Circular corridors have no walls.
package corridor

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/corridorgrid/environment"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
	"github.com/samuelfneumann/corridorgrid/utils/intutils"
	"gonum.org/v1/gonum/mat"
)

// Actions
const (
	Left int = iota
	Right
	NumActions
)

// Observation feature indices
const (
	LeftWallIndex int = iota
	RightWallIndex
	PositionIndex
	ObservationDims
)

var actionNames = [NumActions]string{"L", "R"}

// ParseAction converts an action name ("L" or "R") to an action
func ParseAction(name string) (int, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("parseAction: %w: unknown action %q",
		environment.ErrInvalidAction, name)
}

// Corridor implements the special state corridor environment.
//
// Actions are 1-dimensional and discrete in (0, 1):
//
//	Action	Meaning
//	  0		Move left (right on a special state)
//	  1		Move right (left on a special state)
//
// Observations are the vector [left wall, right wall, position], where
// each wall feature is 1 if the agent is next to that wall. Rewards
// are -1 on every step.
//
// Corridor implements the environment.Environment interface
type Corridor struct {
	*Goal
	settings

	starter  *environment.CategoricalStarter
	special  map[int]bool
	position int
	start    int // start state of the current episode
	lastStep ts.TimeStep
}

// New creates a new corridor from the argument Config. The seed
// determines the random starts and goals of the corridor, if any.
func New(c Config, seed uint64) (*Corridor, ts.TimeStep, error) {
	s, err := c.validate()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	special := make(map[int]bool, len(s.special))
	for _, state := range s.special {
		special[state] = true
	}

	// Dimension 0 samples starts, dimension 1 samples goals
	starter := environment.NewCategoricalStarter([]int{s.length, s.length},
		seed)

	goal := 0
	if s.goal != nil {
		goal = *s.goal
	}

	corridor := &Corridor{
		Goal:     newGoal(goal, s.truncateLength),
		settings: s,
		starter:  starter,
		special:  special,
	}

	step, err := corridor.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return corridor, step, nil
}

// Seed reseeds the random source used to draw starts and goals
func (c *Corridor) Seed(seed uint64) {
	c.starter.Seed(seed)
}

// Reset resets the environment and returns the first TimeStep of the
// next episode. Unset starts and random goals are drawn anew.
func (c *Corridor) Reset() (ts.TimeStep, error) {
	sample := c.starter.Start()

	c.start = int(sample.AtVec(0))
	if c.settings.start != nil {
		c.start = *c.settings.start
	}

	if c.settings.goal != nil {
		c.setGoal(*c.settings.goal)
	} else {
		c.setGoal(int(sample.AtVec(1)))
	}

	c.position = c.start
	step := ts.New(ts.First, 0, c.discount, c.observation(), 0)
	step.Info = map[string]interface{}{
		"agent_location":   c.position,
		"goal":             c.GoalState(),
		"distance_to_goal": c.DistanceToGoal(),
	}
	c.lastStep = step

	return step, nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended. Illegal actions result in an error wrapping
// environment.ErrInvalidAction and leave the environment unchanged.
func (c *Corridor) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	action, err := environment.DiscreteAction(a, NumActions)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}

	state := c.observation()
	c.position = c.nextPosition(action)
	nextState := c.observation()

	reward := c.GetReward(state, a, nextState)
	step := ts.New(ts.Mid, reward, c.discount, nextState,
		c.lastStep.Number+1)
	c.End(&step)

	step.Info = map[string]interface{}{
		"action":           actionNames[action],
		"observation":      nextState,
		"reward":           reward,
		"terminated":       step.Terminated(),
		"truncated":        step.Truncated(),
		"position":         c.position,
		"distance_to_goal": c.DistanceToGoal(),
	}
	c.lastStep = step

	return step, step.Last(), nil
}

// nextPosition returns the position reached by taking action from the
// current position
func (c *Corridor) nextPosition(action int) int {
	delta := -1
	if action == Right {
		delta = 1
	}

	// The inversion depends on where the agent stands, not where it is
	// going
	if c.special[c.position] {
		delta = -delta
	}

	next := c.position + delta
	if c.circular {
		return intutils.Mod(next, c.length)
	}
	return intutils.Clip(next, 0, c.length-1)
}

// observation returns the observation vector of the current state
func (c *Corridor) observation() *mat.VecDense {
	obs := mat.NewVecDense(ObservationDims, nil)
	if !c.circular {
		if c.position == 0 {
			obs.SetVec(LeftWallIndex, 1)
		}
		if c.position == c.length-1 {
			obs.SetVec(RightWallIndex, 1)
		}
	}
	obs.SetVec(PositionIndex, float64(c.position))

	return obs
}

// CurrentTimeStep returns the last TimeStep returned by the environment
func (c *Corridor) CurrentTimeStep() ts.TimeStep {
	return c.lastStep
}

// Position returns the current position of the agent
func (c *Corridor) Position() int {
	return c.position
}

// StartState returns the start state of the current episode
func (c *Corridor) StartState() int {
	return c.start
}

// Length returns the number of states in the corridor
func (c *Corridor) Length() int {
	return c.length
}

// Circular returns whether the corridor wraps around
func (c *Corridor) Circular() bool {
	return c.circular
}

// SpecialStates returns the states at which actions are reversed
func (c *Corridor) SpecialStates() []int {
	return append([]int(nil), c.settings.special...)
}

// TruncateLength returns the number of steps after which episodes are
// truncated
func (c *Corridor) TruncateLength() int {
	return c.truncateLength
}

// DistanceToGoal returns the number of states between the agent and
// the goal, ignoring special states. In a circular corridor the
// shorter way around is used.
func (c *Corridor) DistanceToGoal() int {
	diff := intutils.Abs(c.position - c.GoalState())
	if c.circular {
		return intutils.Min(diff, c.length-diff)
	}
	return diff
}

// ActionSpec returns the action specification of the environment
func (c *Corridor) ActionSpec() environment.Spec {
	return environment.NewDiscreteActionSpec(NumActions)
}

// ObservationSpec returns the observation specification of the
// environment
func (c *Corridor) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)
	lowerBound := mat.NewVecDense(ObservationDims, nil)
	upperBound := mat.NewVecDense(ObservationDims, []float64{
		1, 1, float64(c.length - 1),
	})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// DiscountSpec returns the discounting specification of the environment
func (c *Corridor) DiscountSpec() environment.Spec {
	return environment.NewConstantSpec(environment.Discount, c.discount)
}

// Render returns a text representation of the corridor, for example
// [S|^|*|G]. The start state is drawn as S, the goal as G, special
// states as ^ and the agent as *, each drawn over the previous.
func (c *Corridor) Render() string {
	cells := make([]string, c.length)
	for i := range cells {
		cells[i] = " "
	}
	cells[c.start] = "S"
	cells[c.GoalState()] = "G"
	for _, state := range c.settings.special {
		cells[state] = "^"
	}
	cells[c.position] = "*"

	return "[" + strings.Join(cells, "|") + "]"
}

func (c *Corridor) String() string {
	str := "Corridor | At: %v  |  Goal: %v  |  Length: %v  |  Circular: %v"

	return fmt.Sprintf(str, c.position, c.GoalState(), c.length, c.circular)
}
