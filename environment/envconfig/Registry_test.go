package envconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	env "github.com/samuelfneumann/corridorgrid/environment"
	"github.com/samuelfneumann/corridorgrid/environment/corridor"
	"github.com/samuelfneumann/corridorgrid/environment/doorcorridor"
	"golang.org/x/exp/rand"
)

func TestDefaultIDs(t *testing.T) {
	want := []string{
		"CG-CC11-v0",
		"CG-DC5-v0",
		"CG-DCOT5-v0",
		"CG-DCT5-v0",
		"CG-LC11-v0",
		"CG-LC5-S2-v0",
		"CG-LC5-v0",
		"CG-SC-v0",
	}

	r := Default()
	if diff := cmp.Diff(want, r.IDs()); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}

	for _, id := range r.IDs() {
		e, step, err := r.Make(id, 0)
		if err != nil {
			t.Errorf("make %v: %v", id, err)
			continue
		}
		if !step.First() || step.Number != 0 {
			t.Errorf("make %v: want first timestep, got %v", id, step)
		}
		if e.Render() == "" {
			t.Errorf("make %v: empty render", id)
		}
	}
}

func TestUnknownID(t *testing.T) {
	r := Default()

	if _, _, err := r.Make("CG-XX-v0", 0); !errors.Is(err, env.ErrConfiguration) {
		t.Errorf("make: want ErrConfiguration, got %v", err)
	}
	if _, err := r.Config("CG-XX-v0"); !errors.Is(err, env.ErrConfiguration) {
		t.Errorf("config: want ErrConfiguration, got %v", err)
	}

	_, _, err := Config{Environment: "maze"}.Create(0)
	if !errors.Is(err, env.ErrConfiguration) {
		t.Errorf("create: want ErrConfiguration, got %v", err)
	}

	mismatched := Config{
		Environment:  Corridor,
		DoorCorridor: &doorcorridor.Config{MaxSteps: doorcorridor.Int(10)},
	}
	if _, _, err := mismatched.Create(0); !errors.Is(err, env.ErrConfiguration) {
		t.Errorf("create: want ErrConfiguration for mismatched config, got %v",
			err)
	}
}

func TestSmallCorridorTraces(t *testing.T) {
	tests := []struct {
		actions    []int
		positions  []int
		terminated bool
	}{
		// The special state sends the second step back to the start
		{[]int{1, 1, 1}, []int{1, 0, 1}, false},
		{[]int{1, 0, 1}, []int{1, 2, 3}, true},
	}

	for _, test := range tests {
		e, _, err := Default().Make(SmallCorridor, 0)
		if err != nil {
			t.Fatal(err)
		}

		var ret float64
		for i, a := range test.actions {
			step, last, err := e.Step(env.NewAction(a))
			if err != nil {
				t.Fatal(err)
			}
			ret += step.Reward

			got := int(step.Observation.AtVec(corridor.PositionIndex))
			if got != test.positions[i] {
				t.Errorf("%v: step %d: want position %d, got %d",
					test.actions, i, test.positions[i], got)
			}
			if i == len(test.actions)-1 && last != test.terminated {
				t.Errorf("%v: want terminated == %v, got %v", test.actions,
					test.terminated, last)
			}
		}
		if ret != -3 {
			t.Errorf("%v: want return -3, got %v", test.actions, ret)
		}
	}
}

func TestDoorCorridorBump(t *testing.T) {
	e, _, err := Default().Make(DoorCorridor5, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Face the corridor, then walk into the first closed door
	if _, _, err := e.Step(env.NewAction(doorcorridor.TurnRight)); err != nil {
		t.Fatal(err)
	}
	step, last, err := e.Step(env.NewAction(doorcorridor.Forward))
	if err != nil {
		t.Fatal(err)
	}
	if step.Reward != -1 || last {
		t.Errorf("forward: want reward -1 and no end, got %v, %v",
			step.Reward, last)
	}

	d := e.(*doorcorridor.DoorCorridor)
	if d.AgentPosition() != (doorcorridor.Point{X: 1, Y: 1}) {
		t.Errorf("forward: want agent at start, got %v", d.AgentPosition())
	}
}

func TestRegistryMatchesDirectConstruction(t *testing.T) {
	config := corridor.Config{
		CorridorLength: corridor.Int(9),
		SpecialStates:  []int{2, 5},
		RandomGoal:     true,
	}
	r := NewRegistry(map[string]Config{"random": NewCorridorConfig(config)})

	fromRegistry, regStep, err := r.Make("random", 17)
	if err != nil {
		t.Fatal(err)
	}
	direct, directStep, err := corridor.New(config, 17)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(directStep.Observation.RawVector().Data,
		regStep.Observation.RawVector().Data); diff != "" {
		t.Fatalf("reset (-direct +registry):\n%s", diff)
	}

	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 300; i++ {
		a := env.NewAction(rng.Intn(corridor.NumActions))
		want, wantLast, err := direct.Step(a)
		if err != nil {
			t.Fatal(err)
		}
		got, gotLast, err := fromRegistry.Step(a)
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(want.Observation.RawVector().Data,
			got.Observation.RawVector().Data); diff != "" || wantLast != gotLast {
			t.Fatalf("step %d (-direct +registry):\n%s", i, diff)
		}
		if wantLast {
			want, _ = direct.Reset()
			got, _ = fromRegistry.Reset()
			if diff := cmp.Diff(want.Observation.RawVector().Data,
				got.Observation.RawVector().Data); diff != "" {
				t.Fatalf("reset %d (-direct +registry):\n%s", i, diff)
			}
		}
	}
}

func TestConfigIsCopied(t *testing.T) {
	r := Default()

	c, err := r.Config(SmallCorridor)
	if err != nil {
		t.Fatal(err)
	}
	*c.Corridor.StartState = 2
	c.Corridor.SpecialStates[0] = 3

	again, err := r.Config(SmallCorridor)
	if err != nil {
		t.Fatal(err)
	}
	if *again.Corridor.StartState != 0 || again.Corridor.SpecialStates[0] != 1 {
		t.Errorf("config: registry was modified through a returned config")
	}
}

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte(`{"environment": "door_corridor", ` +
		`"door_corridor": {"goal_condition": "toggle_facing_goal"}}`))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if c.Environment != DoorCorridor ||
		c.DoorCorridor.GoalCondition != doorcorridor.ToggleFacingGoal {
		t.Errorf("parseConfig: got %+v", c)
	}

	bad := []string{
		`{"environment": "maze"}`,
		`{"environment": "corridor", "corridor": {"length": 3}}`,
		`{"environment": "door_corridor", "door_corridor": ` +
			`{"goal_condition": "teleport"}}`,
		`not json`,
		`{"environment": "corridor", "door_corridor": {"max_steps": 10}}`,
		`{"environment": "door_corridor", "corridor": {"circular": true}}`,
	}
	for _, data := range bad {
		if _, err := ParseConfig([]byte(data)); !errors.Is(err,
			env.ErrConfiguration) {
			t.Errorf("parseConfig(%v): want ErrConfiguration, got %v", data,
				err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	data := []byte(`{
		"CG-C3-v0": {
			"environment": "corridor",
			"corridor": {
				"corridor_length": 3,
				"start_state": 0,
				"special_states": [],
				"circular": true
			}
		},
		"CG-DC3-v0": {
			"environment": "door_corridor",
			"door_corridor": {"corridor_length": 3, "agent_view_size": 5}
		}
	}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"CG-C3-v0", "CG-DC3-v0"}, r.IDs()); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}

	e, _, err := r.Make("CG-C3-v0", 0)
	if err != nil {
		t.Fatal(err)
	}
	// Moving left from the start wraps around to the goal
	if _, last, err := e.Step(env.NewAction(corridor.Left)); err != nil || !last {
		t.Errorf("step: want terminated circular corridor, got %v (%v)", last,
			err)
	}

	e, _, err = r.Make("CG-DC3-v0", 0)
	if err != nil {
		t.Fatal(err)
	}
	if n := e.ObservationSpec().Shape.Len(); n != 5*5*2+1 {
		t.Errorf("observationSpec: want %d features, got %d", 5*5*2+1, n)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("load: want error for missing file")
	}
}
