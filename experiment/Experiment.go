// Package experiment implements functionality for running an experiment
// on the corridor environments
package experiment

import (
	"fmt"

	env "github.com/samuelfneumann/corridorgrid/environment"
	"github.com/samuelfneumann/corridorgrid/environment/envconfig"
	"github.com/samuelfneumann/corridorgrid/experiment/trackers"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function
// will then take all cached data and save it to disk. This is usually
// performed after an experiment has been run. The Run() method will
// run all episodes util the maximum timestep limit is reached. The
// RunEpisode() function will run a single episode.
//
// In order to save data, Experiments use Trackers. Trackers determine
// which data generated during the experiment is saved. Experiments will
// send each TimeStep to Trackers using the Tracker's Track() method.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was hit

	// Tracks current timestep by sending it to Trackers
	track(ts.TimeStep)

	// Save all tracked data to disk
	Save() error

	// Adds a new trackers.Tracker to the (possibly already running)
	// experiment
	Register(t trackers.Tracker)
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// SelectorType names a kind of Selector
type SelectorType string

const (
	FixedSelector    SelectorType = "fixed"
	SequenceSelector SelectorType = "sequence"
	UniformSelector  SelectorType = "uniform"
)

// SelectorConfig describes the Selector used in an experiment. Action
// is used by fixed selectors and Actions by sequence selectors.
type SelectorConfig struct {
	Type    SelectorType `json:"type"`
	Action  int          `json:"action,omitempty"`
	Actions []int        `json:"actions,omitempty"`
}

// Create returns the Selector described by the SelectorConfig, for
// selecting actions in environment e
func (s SelectorConfig) Create(e env.Environment, seed uint64) (Selector,
	error) {
	switch s.Type {
	case FixedSelector:
		if n := e.ActionSpec().NumActions(); s.Action < 0 || s.Action >= n {
			return nil, fmt.Errorf("create: %w: fixed action %d ∉ [0, %d)",
				env.ErrInvalidAction, s.Action, n)
		}
		return NewFixedSelector(s.Action), nil

	case SequenceSelector:
		return NewSequenceSelector(s.Actions)

	case UniformSelector:
		return NewUniformSelector(e.ActionSpec(), seed)
	}

	return nil, fmt.Errorf("create: no such selector type %q", s.Type)
}

// Config represents a configuration of an experiment, either on a
// registered environment (EnvID) or on an explicitly configured one
// (EnvConf).
type Config struct {
	Type     `json:"type"`
	MaxSteps uint              `json:"max_steps"`
	EnvID    string            `json:"env_id,omitempty"`
	EnvConf  *envconfig.Config `json:"env_config,omitempty"`
	Selector SelectorConfig    `json:"selector"`
}

// CreateExp creates the experiment described by the Config. Registered
// environments are looked up in r.
func (c Config) CreateExp(r *envconfig.Registry, seed uint64,
	t ...trackers.Tracker) (Experiment, error) {
	var e env.Environment
	var err error

	switch {
	case c.EnvConf != nil:
		e, _, err = c.EnvConf.Create(seed)
	default:
		e, _, err = r.Make(c.EnvID, seed)
	}
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %w",
			err)
	}

	selector, err := c.Selector.Create(e, seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create selector: %w",
			err)
	}

	switch c.Type {
	case OnlineExp, "":
		return NewOnline(e, selector, c.MaxSteps, t...), nil
	}

	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}
