// Package sim provides the board simulation engine for the sliding-block
// puzzle: typed cells, agents, slides and victory tracking.
// This package is UI-agnostic and deterministic.
package sim

import (
	"fmt"
	"strings"
)

// Coord represents a cell address on the board.
// X increases to the right, Y increases downward (screen coordinates).
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the coordinate one step in the given direction.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Direction is a movement or slide direction.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the four real directions in a stable order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirNone:
		return "none"
	default:
		return "unknown"
	}
}

// Delta returns the (dx, dy) offset for one step in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction. None stays None.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return d
	}
}

// ParseDirection accepts full names ("up") and the console letters ("u").
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u", "up":
		return DirUp, true
	case "d", "down":
		return DirDown, true
	case "l", "left":
		return DirLeft, true
	case "r", "right":
		return DirRight, true
	case "none":
		return DirNone, true
	default:
		return DirNone, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, ok := ParseDirection(string(text))
	if !ok {
		return fmt.Errorf("sim: unknown direction %q", string(text))
	}
	*d = parsed
	return nil
}

// AgentID identifies an agent in [0, NumAgents).
type AgentID int

// Position is an agent's location: either a cell on the board or off it.
// The zero value is off-board.
type Position struct {
	coord   Coord
	onBoard bool
}

// OffBoard is the position of an ejected agent.
var OffBoard = Position{}

// OnBoard returns the position of a cell on the board.
func OnBoard(c Coord) Position {
	return Position{coord: c, onBoard: true}
}

// Coord returns the cell and true, or the zero Coord and false when off-board.
func (p Position) Coord() (Coord, bool) {
	return p.coord, p.onBoard
}

// IsOnBoard reports whether the position refers to a cell.
func (p Position) IsOnBoard() bool {
	return p.onBoard
}

// String returns "(x,y)" or "off-board".
func (p Position) String() string {
	if !p.onBoard {
		return "off-board"
	}
	return p.coord.String()
}

// GameState is the derived outcome of the game.
type GameState uint8

const (
	Running GameState = iota
	Won
	Lost
)

// String returns a human-readable name for the state.
func (s GameState) String() string {
	switch s {
	case Running:
		return "running"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *GameState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*s = Running
	case "won":
		*s = Won
	case "lost":
		*s = Lost
	default:
		return fmt.Errorf("sim: unknown game state %q", string(text))
	}
	return nil
}
