package doorcorridor

import (
	"github.com/samuelfneumann/corridorgrid/environment"
)

const (
	DefaultMaxSteps       int       = 270
	DefaultCorridorLength int       = 5
	DefaultAgentViewSize  int       = 3
	DefaultStartDirection Direction = Up
	DefaultDiscount       float64   = 1.0
)

// Config describes a door corridor. Config is JSON serializable, and
// unset fields take their default values:
//
//	Field			Default
//	MaxSteps		270
//	CorridorLength	5
//	AgentViewSize	3
//	GoalCondition	reach
//	StartDirection	up
//	Discount		1.0
type Config struct {
	MaxSteps       *int          `json:"max_steps,omitempty"`
	CorridorLength *int          `json:"corridor_length,omitempty"`
	AgentViewSize  *int          `json:"agent_view_size,omitempty"`
	GoalCondition  GoalCondition `json:"goal_condition,omitempty"`
	StartDirection *Direction    `json:"start_direction,omitempty"`
	Discount       *float64      `json:"discount,omitempty"`
}

// Int returns a pointer to v, for filling in optional Config fields
func Int(v int) *int { return &v }

// Float returns a pointer to v, for filling in optional Config fields
func Float(v float64) *float64 { return &v }

// Facing returns a pointer to d, for filling in Config.StartDirection
func Facing(d Direction) *Direction { return &d }

type settings struct {
	maxSteps       int
	length         int
	viewSize       int
	condition      GoalCondition
	startDirection Direction
	discount       float64
}

// validate checks the Config and fills in its defaults
func (c Config) validate() (settings, error) {
	s := settings{
		maxSteps:       DefaultMaxSteps,
		length:         DefaultCorridorLength,
		viewSize:       DefaultAgentViewSize,
		condition:      c.GoalCondition,
		startDirection: DefaultStartDirection,
		discount:       DefaultDiscount,
	}

	if c.MaxSteps != nil {
		s.maxSteps = *c.MaxSteps
	}
	if s.maxSteps <= 0 {
		return settings{}, environment.ConfigErrorf("max steps must be "+
			"positive, got %d", s.maxSteps)
	}

	if c.CorridorLength != nil {
		s.length = *c.CorridorLength
	}
	if s.length < 2 {
		return settings{}, environment.ConfigErrorf("corridor length must "+
			"be at least 2 (a start and a goal), got %d", s.length)
	}

	if c.AgentViewSize != nil {
		s.viewSize = *c.AgentViewSize
	}
	if s.viewSize < 3 || s.viewSize%2 != 1 {
		return settings{}, environment.ConfigErrorf("agent view size must "+
			"be odd and at least 3, got %d", s.viewSize)
	}

	if !s.condition.valid() {
		return settings{}, environment.ConfigErrorf("unknown goal "+
			"condition %d", int(s.condition))
	}

	if c.StartDirection != nil {
		s.startDirection = *c.StartDirection
	}
	if !s.startDirection.valid() {
		return settings{}, environment.ConfigErrorf("unknown start "+
			"direction %d", int(s.startDirection))
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
