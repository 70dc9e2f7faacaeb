package doorcorridor

import (
	"fmt"

	"github.com/samuelfneumann/corridorgrid/environment"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
	"gonum.org/v1/gonum/mat"
)

// RewardPerStep is the reward for every action
const RewardPerStep float64 = -1.0

// GoalCondition determines when the agent has solved a door corridor
type GoalCondition int

const (
	// Reach is solved by stepping onto the goal
	Reach GoalCondition = iota

	// ToggleFacingGoal is solved by toggling while standing next to the
	// goal and facing it
	ToggleFacingGoal

	// ToggleOnGoal is solved by toggling while standing on the goal
	ToggleOnGoal
	numGoalConditions
)

var goalConditionNames = [numGoalConditions]string{
	"reach",
	"toggle_facing_goal",
	"toggle_on_goal",
}

func (g GoalCondition) valid() bool {
	return g >= Reach && g < numGoalConditions
}

func (g GoalCondition) String() string {
	if !g.valid() {
		return fmt.Sprintf("GoalCondition(%d)", int(g))
	}
	return goalConditionNames[g]
}

// MarshalText implements encoding.TextMarshaler
func (g GoalCondition) MarshalText() ([]byte, error) {
	if !g.valid() {
		return nil, fmt.Errorf("marshalText: unknown goal condition %d",
			int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (g *GoalCondition) UnmarshalText(text []byte) error {
	for i, name := range goalConditionNames {
		if name == string(text) {
			*g = GoalCondition(i)
			return nil
		}
	}
	return fmt.Errorf("unmarshalText: unknown goal condition %q", text)
}

// Solved returns whether taking action left the agent at position,
// facing direction, in a state that satisfies the goal condition
func (g GoalCondition) Solved(action int, position Point,
	direction Direction, goal Point) bool {
	switch g {
	case Reach:
		return position == goal
	case ToggleFacingGoal:
		return action == Toggle && position.Add(direction.forward()) == goal
	case ToggleOnGoal:
		return action == Toggle && position == goal
	}
	return false
}

// Task implements the task of solving a door corridor's goal condition.
// Rewards are -1 on every timestep.
//
// Episodes end when the goal condition is solved or after a step limit.
// If both happen on the same step, the episode is considered
// terminated rather than truncated.
type Task struct {
	condition GoalCondition
	goal      Point
	solved    bool
	environment.Enders
}

func newTask(condition GoalCondition, goal Point, maxSteps int) *Task {
	t := &Task{condition: condition, goal: goal}

	solved := environment.NewFunctionEnder(func(*mat.VecDense) bool {
		return t.solved
	}, ts.TerminalStateReached)
	t.Enders = environment.Enders{solved, environment.NewStepLimit(maxSteps)}

	return t
}

// update records whether the last transition solved the task
func (t *Task) update(action int, position Point, direction Direction) {
	t.solved = t.condition.Solved(action, position, direction, t.goal)
}

// reset clears the solved flag at the start of an episode
func (t *Task) reset() {
	t.solved = false
}

// GoalCondition returns the condition under which the task is solved
func (t *Task) GoalCondition() GoalCondition {
	return t.condition
}

// GoalPosition returns the goal cell of the corridor
func (t *Task) GoalPosition() Point {
	return t.goal
}

// GetReward returns the reward for taking action in state and ending
// up in nextState
func (t *Task) GetReward(_, _, _ *mat.VecDense) float64 {
	return RewardPerStep
}

// Min returns the minimum attainable reward over all timesteps
func (t *Task) Min() float64 { return RewardPerStep }

// Max returns the maximum attainable reward over all timesteps
func (t *Task) Max() float64 { return RewardPerStep }

// RewardSpec returns the reward specification of the Task
func (t *Task) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{t.Min()})
	upperBound := mat.NewVecDense(1, []float64{t.Max()})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Discrete)
}
