package corridor

import (
	"github.com/samuelfneumann/corridorgrid/environment"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
	"gonum.org/v1/gonum/mat"
)

const (
	// RewardPerStep is the reward for every action, including the one
	// that reaches the goal
	RewardPerStep float64 = -1.0
)

// Goal implements the task of reaching the goal state of a corridor.
// Rewards are -1 on every timestep, there is no bonus for reaching the
// goal.
//
// Episodes end when the agent reaches the goal or after a step limit.
// If both happen on the same step, the episode is considered
// terminated rather than truncated.
type Goal struct {
	goal      int
	goalEnder *environment.FunctionEnder
	stepEnder *environment.StepLimit
}

// newGoal returns a new Goal task with the goal state goal and step
// limit truncateLength
func newGoal(goal, truncateLength int) *Goal {
	g := &Goal{goal: goal, stepEnder: environment.NewStepLimit(truncateLength)}
	g.goalEnder = environment.NewFunctionEnder(g.AtGoal,
		ts.TerminalStateReached)

	return g
}

// GoalState returns the goal state of the current episode
func (g *Goal) GoalState() int {
	return g.goal
}

// setGoal moves the goal, used when the goal is drawn on each reset
func (g *Goal) setGoal(goal int) {
	g.goal = goal
}

// AtGoal returns whether the argument observation is at the goal state
func (g *Goal) AtGoal(obs *mat.VecDense) bool {
	return int(obs.AtVec(PositionIndex)) == g.goal
}

// GetReward returns the reward for taking action in state and ending
// up in nextState
func (g *Goal) GetReward(_, _, _ *mat.VecDense) float64 {
	return RewardPerStep
}

// End determines if a timestep is the last timestep in the episode,
// checking the goal before the step limit
func (g *Goal) End(t *ts.TimeStep) bool {
	if end := g.goalEnder.End(t); end {
		return true
	}
	return g.stepEnder.End(t)
}

// Min returns the minimum attainable reward over all timesteps
func (g *Goal) Min() float64 { return RewardPerStep }

// Max returns the maximum attainable reward over all timesteps
func (g *Goal) Max() float64 { return RewardPerStep }

// RewardSpec returns the reward specification of the Task
func (g *Goal) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{g.Min()})
	upperBound := mat.NewVecDense(1, []float64{g.Max()})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Discrete)
}
