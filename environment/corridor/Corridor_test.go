package corridor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samuelfneumann/corridorgrid/environment"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// smallConfig is the configuration of the small corridor:
// State 0 (start), State 1 (special state), State 2, State 3 (goal state)
func smallConfig() Config {
	return Config{
		CorridorLength: Int(4),
		StartState:     Int(0),
		GoalState:      Int(3),
		SpecialStates:  []int{1},
	}
}

func newCorridor(t *testing.T, c Config) *Corridor {
	t.Helper()

	corridor, step, err := New(c, 1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !step.First() {
		t.Fatalf("new: first step should have type %v, got %v", ts.First,
			step.StepType)
	}
	return corridor
}

// expectation describes the expected outcome of a single step
type expectation struct {
	action     int
	position   int
	walls      [2]float64
	terminated bool
	distance   int
}

func checkStep(t *testing.T, c *Corridor, i int, e expectation) {
	t.Helper()

	step, last, err := c.Step(environment.NewAction(e.action))
	if err != nil {
		t.Fatalf("step %d: %v", i, err)
	}

	obs := step.Observation
	if got := int(obs.AtVec(PositionIndex)); got != e.position {
		t.Errorf("step %d: want position %d, got %d", i, e.position, got)
	}
	walls := [2]float64{obs.AtVec(LeftWallIndex), obs.AtVec(RightWallIndex)}
	if walls != e.walls {
		t.Errorf("step %d: want walls %v, got %v", i, e.walls, walls)
	}
	if step.Reward != RewardPerStep {
		t.Errorf("step %d: want reward %v, got %v", i, RewardPerStep,
			step.Reward)
	}
	if step.Terminated() != e.terminated || last != e.terminated {
		t.Errorf("step %d: want terminated == %v, got %v", i, e.terminated,
			step.Terminated())
	}
	if step.Truncated() {
		t.Errorf("step %d: step should not be truncated", i)
	}
	if got := step.Info["action"]; got != actionNames[e.action] {
		t.Errorf("step %d: want action %v, got %v", i, actionNames[e.action],
			got)
	}
	if got := step.Info["distance_to_goal"]; got != e.distance {
		t.Errorf("step %d: want distance %v, got %v", i, e.distance, got)
	}
	if got := step.Info["terminated"]; got != e.terminated {
		t.Errorf("step %d: want info terminated %v, got %v", i, e.terminated,
			got)
	}
	if got := step.Info["truncated"]; got != false {
		t.Errorf("step %d: want info truncated false, got %v", i, got)
	}
	if got := step.Info["reward"]; got != RewardPerStep {
		t.Errorf("step %d: want info reward %v, got %v", i, RewardPerStep, got)
	}
	if got, ok := step.Info["observation"].(*mat.VecDense); !ok || got != obs {
		t.Errorf("step %d: info observation should be the step observation",
			i)
	}
}

func TestSmallCorridorMovement(t *testing.T) {
	c := newCorridor(t, smallConfig())
	if c.Position() != 0 {
		t.Fatalf("reset: want position 0, got %d", c.Position())
	}

	trace := []expectation{
		{Left, 0, [2]float64{1, 0}, false, 3},  // left wall blocks
		{Right, 1, [2]float64{0, 0}, false, 2}, // 0 -> 1
		{Right, 0, [2]float64{1, 0}, false, 3}, // special: right goes left
		{Right, 1, [2]float64{0, 0}, false, 2},
		{Left, 2, [2]float64{0, 0}, false, 1}, // special: left goes right
		{Left, 1, [2]float64{0, 0}, false, 2},
		{Left, 2, [2]float64{0, 0}, false, 1},
		{Right, 3, [2]float64{0, 1}, true, 0},
	}
	for i, e := range trace {
		checkStep(t, c, i, e)
	}
}

func TestLongCorridorRender(t *testing.T) {
	c := newCorridor(t, Config{
		CorridorLength: Int(6),
		StartState:     Int(4),
		GoalState:      Int(1),
		SpecialStates:  []int{2, 4},
	})

	if got, want := c.Render(), "[ |G|^| |*| ]"; got != want {
		t.Errorf("render: want %v, got %v", want, got)
	}

	trace := []struct {
		expectation
		render string
	}{
		{expectation{Left, 5, [2]float64{0, 1}, false, 4}, "[ |G|^| |^|*]"},
		{expectation{Left, 4, [2]float64{0, 0}, false, 3}, "[ |G|^| |*| ]"},
		{expectation{Right, 3, [2]float64{0, 0}, false, 2}, "[ |G|^|*|^| ]"},
		{expectation{Left, 2, [2]float64{0, 0}, false, 1}, "[ |G|*| |^| ]"},
		{expectation{Right, 1, [2]float64{0, 0}, true, 0}, "[ |*|^| |^| ]"},
	}
	for i, e := range trace {
		checkStep(t, c, i, e.expectation)
		if got := c.Render(); got != e.render {
			t.Errorf("render %d: want %v, got %v", i, e.render, got)
		}
	}
}

func TestSmallCircularCorridor(t *testing.T) {
	noWalls := [2]float64{0, 0}

	// From state 0, moving left wraps around to the goal
	c := newCorridor(t, Config{StartState: Int(0), Circular: true})
	checkStep(t, c, 0, expectation{Left, 3, noWalls, true, 0})

	c = newCorridor(t, Config{StartState: Int(0), Circular: true})
	trace := []expectation{
		{Right, 1, noWalls, false, 2},
		{Right, 0, noWalls, false, 1},
		{Right, 1, noWalls, false, 2},
		{Left, 2, noWalls, false, 1},
		{Left, 1, noWalls, false, 2},
		{Left, 2, noWalls, false, 1},
		{Right, 3, noWalls, true, 0},
	}
	for i, e := range trace {
		checkStep(t, c, i, e)
	}
}

func TestLargeCircularCorridor(t *testing.T) {
	config := Config{
		CorridorLength: Int(16),
		StartState:     Int(3),
		GoalState:      Int(9),
		SpecialStates:  []int{5, 7},
		Circular:       true,
	}
	noWalls := [2]float64{0, 0}

	// The ideal movement is: RRLRLR
	c := newCorridor(t, config)
	actions := []int{Right, Right, Left, Right, Left, Right}
	for i, a := range actions {
		state := 4 + i
		checkStep(t, c, i, expectation{a, state, noWalls,
			i == len(actions)-1, 9 - state})
	}

	// The other way round is LLLLLLLLLL
	c = newCorridor(t, config)
	distances := []int{7, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	for i := 0; i < 10; i++ {
		state := ((3-(i+1))%16 + 16) % 16
		checkStep(t, c, i, expectation{Left, state, noWalls, i == 9,
			distances[i]})
	}
}

func TestTruncation(t *testing.T) {
	for _, limit := range []int{DefaultTruncateLength, 13} {
		config := smallConfig()
		if limit != DefaultTruncateLength {
			config.TruncateLength = Int(limit)
		}
		c := newCorridor(t, config)

		for i := 1; i <= limit; i++ {
			step, last, err := c.Step(environment.NewAction(Left))
			if err != nil {
				t.Fatalf("step: %v", err)
			}
			if step.Terminated() {
				t.Fatalf("step %d: should not be terminated", i)
			}
			if step.Truncated() != (i == limit) || last != (i == limit) {
				t.Errorf("limit %d, step %d: want truncated == %v, got %v",
					limit, i, i == limit, step.Truncated())
			}
			if got := step.Info["truncated"]; got != (i == limit) {
				t.Errorf("limit %d, step %d: want info truncated %v, got %v",
					limit, i, i == limit, got)
			}
		}
	}
}

func TestTerminatedWinsOverTruncated(t *testing.T) {
	config := smallConfig()
	config.TruncateLength = Int(3)
	c := newCorridor(t, config)

	var step ts.TimeStep
	for _, a := range []int{Right, Left, Right} {
		var err error
		step, _, err = c.Step(environment.NewAction(a))
		if err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	if !step.Terminated() || step.Truncated() {
		t.Errorf("step 3: want terminated only, got %v", step.EndType())
	}
	if step.Info["terminated"] != true || step.Info["truncated"] != false {
		t.Errorf("step 3: want info terminated only, got %v", step.Info)
	}
}

func TestInvalidAction(t *testing.T) {
	c := newCorridor(t, smallConfig())

	for _, a := range []int{-1, 2, 10} {
		_, _, err := c.Step(environment.NewAction(a))
		if !errors.Is(err, environment.ErrInvalidAction) {
			t.Errorf("step(%d): want ErrInvalidAction, got %v", a, err)
		}
	}
	if c.CurrentTimeStep().Number != 0 {
		t.Errorf("invalid actions should not advance the episode, at step %d",
			c.CurrentTimeStep().Number)
	}

	if _, err := ParseAction("U"); !errors.Is(err, environment.ErrInvalidAction) {
		t.Errorf("parseAction: want ErrInvalidAction, got %v", err)
	}
	if a, err := ParseAction("R"); err != nil || a != Right {
		t.Errorf("parseAction: want %d, got %d (%v)", Right, a, err)
	}
}

func TestBadConfigurations(t *testing.T) {
	tests := map[string]Config{
		"length 1":            {CorridorLength: Int(1), StartState: Int(0), GoalState: Int(0)},
		"negative length":     {CorridorLength: Int(-1)},
		"negative start":      {CorridorLength: Int(3), StartState: Int(-1)},
		"start outside":       {CorridorLength: Int(6), StartState: Int(9)},
		"negative goal":       {CorridorLength: Int(3), GoalState: Int(-1)},
		"goal outside":        {CorridorLength: Int(6), GoalState: Int(6)},
		"goal equals start":   {CorridorLength: Int(6), StartState: Int(2), GoalState: Int(2)},
		"default goal start":  {CorridorLength: Int(6), StartState: Int(5)},
		"negative special":    {CorridorLength: Int(6), SpecialStates: []int{-1}},
		"special outside":     {CorridorLength: Int(6), SpecialStates: []int{2, 6}},
		"zero truncate":       {TruncateLength: Int(0)},
		"random and set goal": {GoalState: Int(2), RandomGoal: true},
		"discount too large":  {Discount: Float(1.5)},
	}

	for name, config := range tests {
		_, _, err := New(config, 0)
		if !errors.Is(err, environment.ErrConfiguration) {
			t.Errorf("%s: want ErrConfiguration, got %v", name, err)
		}
	}
}

func TestDefaults(t *testing.T) {
	c := newCorridor(t, Config{})
	if c.Length() != DefaultCorridorLength {
		t.Errorf("length: want %d, got %d", DefaultCorridorLength, c.Length())
	}
	if c.GoalState() != DefaultCorridorLength-1 {
		t.Errorf("goal: want %d, got %d", DefaultCorridorLength-1,
			c.GoalState())
	}
	if diff := cmp.Diff([]int{DefaultSpecialState}, c.SpecialStates()); diff != "" {
		t.Errorf("special states (-want +got):\n%s", diff)
	}
	if c.TruncateLength() != DefaultTruncateLength {
		t.Errorf("truncate length: want %d, got %d", DefaultTruncateLength,
			c.TruncateLength())
	}

	c = newCorridor(t, Config{CorridorLength: Int(6), StartState: Int(0)})
	if c.GoalState() != 5 {
		t.Errorf("goal: want 5, got %d", c.GoalState())
	}

	// An explicitly empty list disables special states
	c = newCorridor(t, Config{SpecialStates: []int{}, StartState: Int(0)})
	checkStep(t, c, 0, expectation{Right, 1, [2]float64{0, 0}, false, 2})
	checkStep(t, c, 1, expectation{Right, 2, [2]float64{0, 0}, false, 1})
}

func TestPositionStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	c := newCorridor(t, Config{
		CorridorLength: Int(7),
		SpecialStates:  []int{0, 3, 6},
		TruncateLength: Int(1_000_000),
		GoalState:      Int(6),
	})

	for i := 0; i < 5000; i++ {
		_, last, err := c.Step(environment.NewAction(rng.Intn(NumActions)))
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if p := c.Position(); p < 0 || p >= c.Length() {
			t.Fatalf("step %d: position %d left the corridor", i, p)
		}
		if last {
			if _, err := c.Reset(); err != nil {
				t.Fatalf("reset: %v", err)
			}
		}
	}
}

func TestCircularHasNoWalls(t *testing.T) {
	for _, length := range []int{2, 4, 11, 16} {
		for start := 0; start < length; start++ {
			goal := (start + 1) % length
			c := newCorridor(t, Config{
				CorridorLength: Int(length),
				StartState:     Int(start),
				GoalState:      Int(goal),
				Circular:       true,
			})

			obs := c.CurrentTimeStep().Observation
			if obs.AtVec(LeftWallIndex) != 0 || obs.AtVec(RightWallIndex) != 0 {
				t.Errorf("length %d: state %d has walls %v", length, start,
					obs.RawVector().Data[:2])
			}
		}
	}
}

func TestSwitcherooInversion(t *testing.T) {
	// On the special state 3, each action moves the agent as the
	// opposite action would from the ordinary state 3.
	for _, action := range []int{Left, Right} {
		special := newCorridor(t, Config{
			CorridorLength: Int(7),
			StartState:     Int(3),
			SpecialStates:  []int{3},
		})
		ordinary := newCorridor(t, Config{
			CorridorLength: Int(7),
			StartState:     Int(3),
			SpecialStates:  []int{},
		})

		if _, _, err := special.Step(environment.NewAction(action)); err != nil {
			t.Fatal(err)
		}
		if _, _, err := ordinary.Step(environment.NewAction(1 - action)); err != nil {
			t.Fatal(err)
		}
		if special.Position() != ordinary.Position() {
			t.Errorf("action %d: special state went to %d, want %d", action,
				special.Position(), ordinary.Position())
		}
	}
}

func TestSeededResetIsReproducible(t *testing.T) {
	c, _, err := New(Config{CorridorLength: Int(11), RandomGoal: true}, 5)
	if err != nil {
		t.Fatal(err)
	}

	reset := func() []float64 {
		c.Seed(99)
		step, err := c.Reset()
		if err != nil {
			t.Fatal(err)
		}
		return append(step.Observation.RawVector().Data, float64(c.GoalState()))
	}

	first, second := reset(), reset()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reset: observations differ (-first +second):\n%s", diff)
	}
}

func TestRandomStartsCoverCorridor(t *testing.T) {
	c := newCorridor(t, Config{CorridorLength: Int(5), GoalState: Int(4)})

	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		if _, err := c.Reset(); err != nil {
			t.Fatal(err)
		}
		seen[c.StartState()] = true
	}
	for s := 0; s < 5; s++ {
		if !seen[s] {
			t.Errorf("reset: start state %d never drawn", s)
		}
	}
}
