package envconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	env "github.com/samuelfneumann/corridorgrid/environment"
	"github.com/samuelfneumann/corridorgrid/environment/corridor"
	"github.com/samuelfneumann/corridorgrid/environment/doorcorridor"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
)

// Registered environment IDs
const (
	SmallCorridor        = "CG-SC-v0"
	LongCorridor5        = "CG-LC5-v0"
	LongCorridor5Special = "CG-LC5-S2-v0"
	LongCorridor11       = "CG-LC11-v0"
	CircularCorridor11   = "CG-CC11-v0"
	DoorCorridor5        = "CG-DC5-v0"
	DoorCorridorT5       = "CG-DCT5-v0"
	DoorCorridorOT5      = "CG-DCOT5-v0"
)

// Registry maps environment IDs to their configurations. A Registry is
// read-only after construction and may be shared between goroutines.
type Registry struct {
	configs map[string]Config
}

// NewRegistry returns a new Registry holding the argument
// configurations
func NewRegistry(configs map[string]Config) *Registry {
	r := &Registry{configs: make(map[string]Config, len(configs))}
	for id, c := range configs {
		r.configs[id] = c.clone()
	}
	return r
}

// Default returns the registry of the pre-configured corridor
// environments
func Default() *Registry {
	doors := func(condition doorcorridor.GoalCondition) Config {
		return NewDoorCorridorConfig(doorcorridor.Config{
			MaxSteps:       doorcorridor.Int(270),
			CorridorLength: doorcorridor.Int(5),
			AgentViewSize:  doorcorridor.Int(3),
			GoalCondition:  condition,
		})
	}

	return NewRegistry(map[string]Config{
		// State 0 (start), state 1 (special), state 2, state 3 (goal)
		SmallCorridor: NewCorridorConfig(corridor.Config{
			CorridorLength: corridor.Int(4),
			StartState:     corridor.Int(0),
			GoalState:      corridor.Int(3),
			SpecialStates:  []int{1},
			TruncateLength: corridor.Int(50),
		}),
		LongCorridor5: NewCorridorConfig(corridor.Config{
			CorridorLength: corridor.Int(5),
			StartState:     corridor.Int(0),
		}),
		LongCorridor5Special: NewCorridorConfig(corridor.Config{
			CorridorLength: corridor.Int(5),
			StartState:     corridor.Int(0),
			SpecialStates:  []int{2},
		}),
		LongCorridor11: NewCorridorConfig(corridor.Config{
			CorridorLength: corridor.Int(11),
			StartState:     corridor.Int(7),
			GoalState:      corridor.Int(3),
			SpecialStates:  []int{5, 6, 7, 8},
		}),
		CircularCorridor11: NewCorridorConfig(corridor.Config{
			CorridorLength: corridor.Int(11),
			StartState:     corridor.Int(9),
			GoalState:      corridor.Int(3),
			SpecialStates:  []int{1, 2, 10},
			Circular:       true,
		}),
		DoorCorridor5:   doors(doorcorridor.Reach),
		DoorCorridorT5:  doors(doorcorridor.ToggleFacingGoal),
		DoorCorridorOT5: doors(doorcorridor.ToggleOnGoal),
	})
}

// Config returns the configuration registered under id
func (r *Registry) Config(id string) (Config, error) {
	c, ok := r.configs[id]
	if !ok {
		return Config{}, fmt.Errorf("config: %w", env.ConfigErrorf(
			"no environment registered with id %q", id))
	}
	return c.clone(), nil
}

// Make creates the environment registered under id, seeded with seed
func (r *Registry) Make(id string, seed uint64) (env.Environment,
	ts.TimeStep, error) {
	c, err := r.Config(id)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("make: %w", err)
	}

	e, step, err := c.Create(seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("make %v: %w", id, err)
	}
	return e, step, nil
}

// IDs returns the registered environment IDs in sorted order
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.configs))
	for id := range r.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseConfig parses a JSON environment configuration. Unknown fields
// are rejected, as are configurations of an environment other than the
// one named.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := decode(data, &c); err != nil {
		return Config{}, fmt.Errorf("parseConfig: %w", err)
	}

	if err := c.validate(); err != nil {
		return Config{}, fmt.Errorf("parseConfig: %w", err)
	}
	return c, nil
}

// Parse parses a JSON registry, an object mapping environment IDs to
// their configurations
func Parse(data []byte) (*Registry, error) {
	var raw map[string]json.RawMessage
	if err := decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	configs := make(map[string]Config, len(raw))
	for id, msg := range raw {
		c, err := ParseConfig(msg)
		if err != nil {
			return nil, fmt.Errorf("parse %v: %w", id, err)
		}
		configs[id] = c
	}
	return NewRegistry(configs), nil
}

// Load reads a JSON registry from the file at path
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %v: %w", path, err)
	}
	return r, nil
}

func decode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return env.ConfigErrorf("%v", err)
	}
	return nil
}
