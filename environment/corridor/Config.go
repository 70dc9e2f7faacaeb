package corridor

import (
	"github.com/samuelfneumann/corridorgrid/environment"
)

const (
	DefaultCorridorLength int     = 4
	DefaultSpecialState   int     = 1
	DefaultTruncateLength int     = 50
	DefaultDiscount       float64 = 1.0
)

// Config describes a special state corridor. Config is JSON
// serializable, and unset fields take their default values:
//
//	Field			Default
//	CorridorLength	4
//	StartState		nil, a new start is drawn on each reset
//	GoalState		CorridorLength - 1
//	SpecialStates	[1]
//	TruncateLength	50
//	Discount		1.0
//
// A non-nil but empty SpecialStates means the corridor has no special
// states. If RandomGoal is set, GoalState must be unset and a new goal
// is drawn on each reset.
type Config struct {
	CorridorLength *int     `json:"corridor_length,omitempty"`
	StartState     *int     `json:"start_state,omitempty"`
	GoalState      *int     `json:"goal_state,omitempty"`
	RandomGoal     bool     `json:"random_goal,omitempty"`
	SpecialStates  []int    `json:"special_states"`
	TruncateLength *int     `json:"truncate_length,omitempty"`
	Circular       bool     `json:"circular,omitempty"`
	Discount       *float64 `json:"discount,omitempty"`
}

// Int returns a pointer to v, for filling in optional Config fields
func Int(v int) *int { return &v }

// Float returns a pointer to v, for filling in optional Config fields
func Float(v float64) *float64 { return &v }

// settings is a validated Config with all defaults filled in
type settings struct {
	length         int
	start          *int
	goal           *int
	special        []int
	truncateLength int
	circular       bool
	discount       float64
}

// validate checks the Config and fills in its defaults
func (c Config) validate() (settings, error) {
	s := settings{
		length:         DefaultCorridorLength,
		special:        []int{DefaultSpecialState},
		truncateLength: DefaultTruncateLength,
		circular:       c.Circular,
		discount:       DefaultDiscount,
	}

	if c.CorridorLength != nil {
		s.length = *c.CorridorLength
	}
	if s.length < 2 {
		return settings{}, environment.ConfigErrorf("corridor length must "+
			"be at least 2 (a start and a goal), got %d", s.length)
	}

	if c.StartState != nil {
		start := *c.StartState
		if start < 0 || start >= s.length {
			return settings{}, environment.ConfigErrorf("start state %d "+
				"outside the corridor [0, %d)", start, s.length)
		}
		s.start = &start
	}

	switch {
	case c.RandomGoal && c.GoalState != nil:
		return settings{}, environment.ConfigErrorf("goal state %d given "+
			"with a random goal", *c.GoalState)

	case !c.RandomGoal:
		goal := s.length - 1
		if c.GoalState != nil {
			goal = *c.GoalState
		}
		if goal < 0 || goal >= s.length {
			return settings{}, environment.ConfigErrorf("goal state %d "+
				"outside the corridor [0, %d)", goal, s.length)
		}
		if s.start != nil && *s.start == goal {
			return settings{}, environment.ConfigErrorf("goal state %d "+
				"must be different from the start state", goal)
		}
		s.goal = &goal
	}

	if c.SpecialStates != nil {
		s.special = append([]int(nil), c.SpecialStates...)
	}
	for _, state := range s.special {
		if state < 0 || state >= s.length {
			return settings{}, environment.ConfigErrorf("special state %d "+
				"outside the corridor [0, %d)", state, s.length)
		}
	}

	if c.TruncateLength != nil {
		s.truncateLength = *c.TruncateLength
	}
	if s.truncateLength <= 0 {
		return settings{}, environment.ConfigErrorf("truncate length must "+
			"be positive, got %d", s.truncateLength)
	}

	if c.Discount != nil {
		s.discount = *c.Discount
	}
	if s.discount < 0 || s.discount > 1 {
		return settings{}, environment.ConfigErrorf("discount %v outside "+
			"[0, 1]", s.discount)
	}

	return s, nil
}
