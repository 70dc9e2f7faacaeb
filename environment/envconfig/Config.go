// Package envconfig provides configuration structs for configuring
// the corridor environments, as well as a registry of named,
// pre-configured environments. Environment configurations in this
// package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/corridorgrid/environment"
	"github.com/samuelfneumann/corridorgrid/environment/corridor"
	"github.com/samuelfneumann/corridorgrid/environment/doorcorridor"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Corridor     EnvName = "corridor"
	DoorCorridor EnvName = "door_corridor"
)

// Config implements a specific configuration of a specific environment.
// Only the configuration matching Environment may be set, a missing one
// means the environment's defaults.
type Config struct {
	Environment  EnvName              `json:"environment"`
	Corridor     *corridor.Config     `json:"corridor,omitempty"`
	DoorCorridor *doorcorridor.Config `json:"door_corridor,omitempty"`
}

// NewCorridorConfig returns a new Config for a special state corridor
func NewCorridorConfig(c corridor.Config) Config {
	return Config{Environment: Corridor, Corridor: &c}
}

// NewDoorCorridorConfig returns a new Config for a door corridor
func NewDoorCorridorConfig(c doorcorridor.Config) Config {
	return Config{Environment: DoorCorridor, DoorCorridor: &c}
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	if err := c.validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	switch c.Environment {
	case Corridor:
		var config corridor.Config
		if c.Corridor != nil {
			config = *c.Corridor
		}
		return CreateCorridor(config, seed)

	case DoorCorridor:
		var config doorcorridor.Config
		if c.DoorCorridor != nil {
			config = *c.DoorCorridor
		}
		return CreateDoorCorridor(config)
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: %w", env.ConfigErrorf(
		"cannot create environment %q, no such environment", c.Environment))
}

// validate returns an error if the Config names an unknown environment
// or carries the configuration of a different environment
func (c Config) validate() error {
	switch c.Environment {
	case Corridor:
		if c.DoorCorridor != nil {
			return env.ConfigErrorf("door corridor configuration given " +
				"for environment corridor")
		}
	case DoorCorridor:
		if c.Corridor != nil {
			return env.ConfigErrorf("corridor configuration given for " +
				"environment door_corridor")
		}
	default:
		return env.ConfigErrorf("unknown environment %q", c.Environment)
	}
	return nil
}

// CreateCorridor is a factory for creating the special state corridor
// environment
func CreateCorridor(c corridor.Config, seed uint64) (env.Environment,
	ts.TimeStep, error) {
	e, step, err := corridor.New(c, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createCorridor: %w", err)
	}
	return e, step, nil
}

// CreateDoorCorridor is a factory for creating the door corridor
// environment
func CreateDoorCorridor(c doorcorridor.Config) (env.Environment,
	ts.TimeStep, error) {
	e, step, err := doorcorridor.New(c)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createDoorCorridor: %w", err)
	}
	return e, step, nil
}

// clone returns a deep copy of the Config
func (c Config) clone() Config {
	out := Config{Environment: c.Environment}
	if c.Corridor != nil {
		cc := *c.Corridor
		cc.CorridorLength = cloneInt(cc.CorridorLength)
		cc.StartState = cloneInt(cc.StartState)
		cc.GoalState = cloneInt(cc.GoalState)
		cc.TruncateLength = cloneInt(cc.TruncateLength)
		cc.Discount = cloneFloat(cc.Discount)
		if cc.SpecialStates != nil {
			cc.SpecialStates = append([]int{}, cc.SpecialStates...)
		}
		out.Corridor = &cc
	}
	if c.DoorCorridor != nil {
		dc := *c.DoorCorridor
		dc.MaxSteps = cloneInt(dc.MaxSteps)
		dc.CorridorLength = cloneInt(dc.CorridorLength)
		dc.AgentViewSize = cloneInt(dc.AgentViewSize)
		dc.Discount = cloneFloat(dc.Discount)
		if dc.StartDirection != nil {
			dc.StartDirection = doorcorridor.Facing(*dc.StartDirection)
		}
		out.DoorCorridor = &dc
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	return corridor.Int(*v)
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return corridor.Float(*v)
}
