package doorcorridor

import (
	"fmt"
	"strings"
)

// Object is the identity of a grid cell, as encoded in channel 0 of an
// observation
type Object uint8

const (
	ObjUnseen Object = iota
	ObjEmpty
	ObjWall
	ObjDoor
	ObjAgent
	ObjGoal
)

func (o Object) String() string {
	switch o {
	case ObjUnseen:
		return "UNSEEN"
	case ObjEmpty:
		return "EMPTY"
	case ObjWall:
		return "WALL"
	case ObjDoor:
		return "DOOR"
	case ObjAgent:
		return "AGENT"
	case ObjGoal:
		return "GOAL"
	}
	return fmt.Sprintf("Object(%d)", uint8(o))
}

// State is the status of a door, as encoded in channel 1 of an
// observation. Cells that are not doors are always Open.
type State uint8

const (
	Open State = iota
	Closed
)

// Toggle returns the opposite state
func (s State) Toggle() State {
	return (s + 1) % 2
}

func (s State) String() string {
	if s == Open {
		return "OPEN"
	}
	return "CLOSED"
}

// Direction is the way an agent faces
type Direction int

const (
	Right Direction = iota
	Down
	Left
	Up
	numDirections
)

var directionNames = [numDirections]string{"RIGHT", "DOWN", "LEFT", "UP"}

// TurnLeft returns the direction after turning 90 degrees
// anti-clockwise
func (d Direction) TurnLeft() Direction {
	return (d + numDirections - 1) % numDirections
}

// TurnRight returns the direction after turning 90 degrees clockwise
func (d Direction) TurnRight() Direction {
	return (d + 1) % numDirections
}

// forward returns the unit offset of one step in direction d. The y
// axis points down the grid.
func (d Direction) forward() Point {
	switch d {
	case Right:
		return Point{1, 0}
	case Down:
		return Point{0, 1}
	case Left:
		return Point{-1, 0}
	default:
		return Point{0, -1}
	}
}

func (d Direction) valid() bool {
	return d >= Right && d < numDirections
}

func (d Direction) String() string {
	if !d.valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("marshalText: unknown direction %d", int(d))
	}
	return []byte(strings.ToLower(d.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting
// direction names in any case
func (d *Direction) UnmarshalText(text []byte) error {
	name := strings.ToUpper(string(text))
	for i, n := range directionNames {
		if n == name {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unmarshalText: unknown direction %q", text)
}

// Actions
const (
	TurnLeft int = iota
	TurnRight
	Forward
	Toggle
	NumActions
)

var actionNames = [NumActions]string{"LEFT", "RIGHT", "FORWARD", "TOGGLE"}

// Point is a cell of the grid. X indexes columns and Y indexes rows,
// with (0, 0) the top-left corner.
type Point struct {
	X, Y int
}

// Add returns the point p translated by q
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Scale returns p with both coordinates multiplied by k
func (p Point) Scale(k int) Point {
	return Point{p.X * k, p.Y * k}
}

// Door is a door in the corridor and its current status
type Door struct {
	Position Point
	Status   State
}

// Cell is the encoding of a single grid cell
type Cell struct {
	Object Object
	State  State
}
