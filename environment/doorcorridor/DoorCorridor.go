// Package doorcorridor implements the door corridor environments.
//
// A door corridor is a single row of cells surrounded by walls. The
// agent starts at the left end facing up and the goal lies at the right
// end. Every cell strictly between the two holds a door, closed at the
// start of each episode. The agent turns, moves forward and toggles the
// door in front of it, observing only a small egocentric window of the
// grid.
//
// The three variants of the environment only differ in their
// GoalCondition: Reach (DC), ToggleFacingGoal (T) and ToggleOnGoal (OT).
package doorcorridor

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/corridorgrid/environment"
	ts "github.com/samuelfneumann/corridorgrid/timestep"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Grid dimensions independent of the corridor length
const (
	gridHeight = 3
	corridorY  = 1
)

// DoorCorridor implements the door corridor environment.
//
// Actions are 1-dimensional and discrete in (0, 1, 2, 3):
//
//	Action	Meaning
//	  0		Turn left
//	  1		Turn right
//	  2		Move forward
//	  3		Toggle the door in front of the agent
//
// Observations are the agent's point of view (see POV) flattened in
// row-major order, followed by the agent's direction. Rewards are -1 on
// every step.
//
// DoorCorridor implements the environment.Environment interface
type DoorCorridor struct {
	*Task
	settings

	width  int
	start  Point
	layout [][]Object // fixed topology, indexed [y][x]
	doors  []Door
	doorAt map[Point]int

	agent     Point
	direction Direction
	lastStep  ts.TimeStep
}

// New creates a new door corridor from the argument Config
func New(c Config) (*DoorCorridor, ts.TimeStep, error) {
	s, err := c.validate()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	width := s.length + 2
	start := Point{1, corridorY}
	goal := Point{width - 2, corridorY}

	layout := make([][]Object, gridHeight)
	for y := range layout {
		layout[y] = make([]Object, width)
		for x := range layout[y] {
			if y == 0 || y == gridHeight-1 || x == 0 || x == width-1 {
				layout[y][x] = ObjWall
			} else {
				layout[y][x] = ObjEmpty
			}
		}
	}
	layout[start.Y][start.X] = ObjAgent
	layout[goal.Y][goal.X] = ObjGoal

	var doors []Door
	doorAt := make(map[Point]int)
	for x := start.X + 1; x < goal.X; x++ {
		p := Point{x, corridorY}
		layout[p.Y][p.X] = ObjDoor
		doorAt[p] = len(doors)
		doors = append(doors, Door{Position: p, Status: Closed})
	}

	d := &DoorCorridor{
		Task:     newTask(s.condition, goal, s.maxSteps),
		settings: s,
		width:    width,
		start:    start,
		layout:   layout,
		doors:    doors,
		doorAt:   doorAt,
	}

	step, err := d.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return d, step, nil
}

// Seed is a no-op, door corridors are deterministic
func (d *DoorCorridor) Seed(uint64) {}

// Reset resets the environment and returns the first TimeStep of the
// next episode. All doors are closed and the agent returns to the start.
func (d *DoorCorridor) Reset() (ts.TimeStep, error) {
	for i := range d.doors {
		d.doors[i].Status = Closed
	}
	d.agent = d.start
	d.direction = d.startDirection
	d.reset()

	step := ts.New(ts.First, 0, d.discount, d.observation(), 0)
	step.Info = map[string]interface{}{
		"agent_direction": d.direction.String(),
	}
	d.lastStep = step

	return step, nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended. Illegal actions result in an error wrapping
// environment.ErrInvalidAction and leave the environment unchanged.
func (d *DoorCorridor) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	action, err := environment.DiscreteAction(a, NumActions)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}

	state := d.lastStep.Observation
	front := d.front()

	switch action {
	case TurnLeft:
		d.direction = d.direction.TurnLeft()

	case TurnRight:
		d.direction = d.direction.TurnRight()

	case Forward:
		if d.passable(front) {
			d.agent = front
		}

	case Toggle:
		if i, ok := d.doorAt[front]; ok {
			d.doors[i].Status = d.doors[i].Status.Toggle()
		}
	}
	d.update(action, d.agent, d.direction)

	nextState := d.observation()
	reward := d.GetReward(state, a, nextState)
	step := ts.New(ts.Mid, reward, d.discount, nextState,
		d.lastStep.Number+1)
	d.End(&step)

	step.Info = map[string]interface{}{
		"action":          actionNames[action],
		"agent_direction": d.direction.String(),
	}
	d.lastStep = step

	return step, step.Last(), nil
}

// front returns the cell directly in front of the agent
func (d *DoorCorridor) front() Point {
	return d.agent.Add(d.direction.forward())
}

// inBounds returns whether p lies within the grid
func (d *DoorCorridor) inBounds(p Point) bool {
	return p.X >= 0 && p.X < d.width && p.Y >= 0 && p.Y < gridHeight
}

// passable returns whether the agent may move onto p
func (d *DoorCorridor) passable(p Point) bool {
	if !d.inBounds(p) || d.layout[p.Y][p.X] == ObjWall {
		return false
	}
	if i, ok := d.doorAt[p]; ok {
		return d.doors[i].Status == Open
	}
	return true
}

// cell returns the encoding of grid cell p. The AGENT marker stays on
// the start cell wherever the agent goes, and the cell the agent stands
// on keeps its own encoding. Cells outside the grid are unseen.
func (d *DoorCorridor) cell(p Point) Cell {
	if !d.inBounds(p) {
		return Cell{ObjUnseen, Open}
	}

	c := Cell{d.layout[p.Y][p.X], Open}
	if i, ok := d.doorAt[p]; ok {
		c.State = d.doors[i].Status
	}
	return c
}

// POV returns the agent's egocentric view of the grid as a uint8 tensor
// of shape (view, view, 2). The view is rotated so that the agent looks
// towards row 0 and stands at the bottom centre cell. Channel 0 holds
// the Object in each cell and channel 1 the State of doors.
//
// Cells outside the grid are unseen, and so is everything behind the
// nearest closed door directly ahead of the agent.
func (d *DoorCorridor) POV() *tensor.Dense {
	return tensor.NewDense(tensor.Uint8, tensor.Shape{d.viewSize,
		d.viewSize, 2}, tensor.WithBacking(d.pov()))
}

// pov returns the backing data of the agent's point of view
func (d *DoorCorridor) pov() []uint8 {
	v := d.viewSize
	half := v / 2
	forward := d.direction.forward()
	right := Point{-forward.Y, forward.X}

	data := make([]uint8, v*v*2)
	for j := 0; j < v; j++ {
		ahead := d.agent.Add(forward.Scale(v - 1 - j))
		for i := 0; i < v; i++ {
			c := d.cell(ahead.Add(right.Scale(i - half)))
			data[(j*v+i)*2] = uint8(c.Object)
			data[(j*v+i)*2+1] = uint8(c.State)
		}
	}

	for j := v - 2; j > 0; j-- {
		k := (j*v + half) * 2
		if Object(data[k]) == ObjDoor && State(data[k+1]) == Closed {
			for i := range data[:j*v*2] {
				data[i] = uint8(ObjUnseen)
			}
			break
		}
	}

	return data
}

// observation returns the observation vector of the current state
func (d *DoorCorridor) observation() *mat.VecDense {
	pov := d.pov()

	obs := mat.NewVecDense(len(pov)+1, nil)
	for i, v := range pov {
		obs.SetVec(i, float64(v))
	}
	obs.SetVec(len(pov), float64(d.direction))

	return obs
}

// CurrentTimeStep returns the last TimeStep returned by the environment
func (d *DoorCorridor) CurrentTimeStep() ts.TimeStep {
	return d.lastStep
}

// AgentPosition returns the cell the agent stands on
func (d *DoorCorridor) AgentPosition() Point {
	return d.agent
}

// AgentDirection returns the direction the agent faces
func (d *DoorCorridor) AgentDirection() Direction {
	return d.direction
}

// Doors returns the doors of the corridor from left to right
func (d *DoorCorridor) Doors() []Door {
	return append([]Door(nil), d.doors...)
}

// Grid returns the full grid indexed [y][x] as the agent observes it,
// with the AGENT marker on the start cell
func (d *DoorCorridor) Grid() [][]Cell {
	grid := make([][]Cell, gridHeight)
	for y := range grid {
		grid[y] = make([]Cell, d.width)
		for x := range grid[y] {
			grid[y][x] = d.cell(Point{x, y})
		}
	}
	return grid
}

// ViewSize returns the width of the agent's square view
func (d *DoorCorridor) ViewSize() int {
	return d.viewSize
}

// MaxSteps returns the number of steps after which episodes are
// truncated
func (d *DoorCorridor) MaxSteps() int {
	return d.maxSteps
}

// ActionSpec returns the action specification of the environment
func (d *DoorCorridor) ActionSpec() environment.Spec {
	return environment.NewDiscreteActionSpec(NumActions)
}

// ObservationSpec returns the observation specification of the
// environment
func (d *DoorCorridor) ObservationSpec() environment.Spec {
	size := d.viewSize*d.viewSize*2 + 1

	shape := mat.NewVecDense(size, nil)
	lowerBound := mat.NewVecDense(size, nil)
	upperBound := mat.NewVecDense(size, nil)
	for i := 0; i < size-1; i += 2 {
		upperBound.SetVec(i, float64(ObjGoal))
		upperBound.SetVec(i+1, float64(Closed))
	}
	upperBound.SetVec(size-1, float64(numDirections-1))

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// DiscountSpec returns the discounting specification of the environment
func (d *DoorCorridor) DiscountSpec() environment.Spec {
	return environment.NewConstantSpec(environment.Discount, d.discount)
}

var agentRunes = [numDirections]rune{'>', 'v', '<', '^'}

// Render returns a text representation of the grid, one line per row.
// Walls are drawn as #, closed doors as D, open doors as d, the goal as
// G and the agent as an arrow pointing the way it faces, drawn on the
// cell it stands on.
func (d *DoorCorridor) Render() string {
	var b strings.Builder
	for y, row := range d.Grid() {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x, c := range row {
			if (Point{x, y}) == d.agent {
				b.WriteRune(agentRunes[d.direction])
				continue
			}

			switch c.Object {
			case ObjWall:
				b.WriteRune('#')
			case ObjDoor:
				if c.State == Closed {
					b.WriteRune('D')
				} else {
					b.WriteRune('d')
				}
			case ObjGoal:
				b.WriteRune('G')
			default:
				b.WriteRune(' ')
			}
		}
	}
	return b.String()
}

func (d *DoorCorridor) String() string {
	str := "DoorCorridor | At: %v  |  Facing: %v  |  Goal: %v  |  " +
		"Condition: %v"

	return fmt.Sprintf(str, d.agent, d.direction, d.GoalPosition(),
		d.GoalCondition())
}
