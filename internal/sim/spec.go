package sim

import (
	"fmt"
	"maps"
	"math"
	"sort"
)

// ValidationError contains details about a level description that the
// board refuses to be built from.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// BlockSpec is the frozen description of one cell: a registered kind plus
// free-form per-kind configuration.
type BlockSpec struct {
	Kind string
	Tags map[string]any
}

// Has reports whether the tag is present.
func (s BlockSpec) Has(name string) bool {
	_, ok := s.Tags[name]
	return ok
}

// Bool returns a required boolean tag.
func (s BlockSpec) Bool(name string) (bool, error) {
	v, ok := s.Tags[name]
	if !ok {
		return false, s.missing(name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, s.mistyped(name, "a boolean", v)
	}
	return b, nil
}

// Int returns a required integer tag. Whole floats are accepted because
// JSON decoding produces them.
func (s BlockSpec) Int(name string) (int, error) {
	v, ok := s.Tags[name]
	if !ok {
		return 0, s.missing(name)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, s.mistyped(name, "an integer", v)
}

// String returns a required string tag.
func (s BlockSpec) String(name string) (string, error) {
	v, ok := s.Tags[name]
	if !ok {
		return "", s.missing(name)
	}
	str, ok := v.(string)
	if !ok {
		return "", s.mistyped(name, "a string", v)
	}
	return str, nil
}

// Clone returns a copy whose tag table can be modified independently.
func (s BlockSpec) Clone() BlockSpec {
	return BlockSpec{Kind: s.Kind, Tags: maps.Clone(s.Tags)}
}

func (s BlockSpec) missing(name string) error {
	return ValidationError{
		Code:    "MISSING_TAG",
		Message: fmt.Sprintf("%s is missing tag %q", s.Kind, name),
	}
}

func (s BlockSpec) mistyped(name, want string, got any) error {
	return ValidationError{
		Code:    "BAD_TAG",
		Message: fmt.Sprintf("%s tag %q must be %s, got %T", s.Kind, name, want, got),
	}
}

// LevelSpec is everything needed to build a board. The board keeps a
// frozen copy for resets.
type LevelSpec struct {
	Width  int
	Height int

	// Blocks holds the non-Air placements.
	Blocks map[Coord]BlockSpec

	NumAgents  int
	MustFinish int
	// Starts[a] is the start cell of agent a.
	Starts []Coord

	// Goals maps every tracked statistic to its victory predicate.
	Goals map[string]Goal
}

// InBounds reports whether c lies on the grid.
func (s LevelSpec) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < s.Width && c.Y >= 0 && c.Y < s.Height
}

// BlockAt returns the placement at c, Air when none is given.
func (s LevelSpec) BlockAt(c Coord) BlockSpec {
	if b, ok := s.Blocks[c]; ok {
		return b
	}
	return BlockSpec{Kind: KindAir}
}

// Clone returns a deep copy of the description.
func (s LevelSpec) Clone() LevelSpec {
	out := s
	out.Blocks = make(map[Coord]BlockSpec, len(s.Blocks))
	for c, b := range s.Blocks {
		out.Blocks[c] = b.Clone()
	}
	out.Starts = append([]Coord(nil), s.Starts...)
	out.Goals = maps.Clone(s.Goals)
	return out
}

// Board size limits enforced by Validate.
const (
	MaxBoardSide  = 1000
	MaxBoardCells = 10000
)

// Validate checks the structural rules the board relies on:
//   - positive dimensions within MaxBoardSide and MaxBoardCells, placements in bounds, known kinds with valid tags
//   - one start per agent, on a cell agents can stand in
//   - must-finish within [0, NumAgents]
//   - at least one goal, and every statistic a block reports is tracked
func (s LevelSpec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return ValidationError{
			Code:    "BAD_SIZE",
			Message: fmt.Sprintf("board size %dx%d must be positive", s.Width, s.Height),
		}
	}
	if s.Width > MaxBoardSide || s.Height > MaxBoardSide || s.Width > MaxBoardCells/s.Height {
		msg := fmt.Sprintf("board size %dx%d exceeds the limit of %d per side and %d cells",
			s.Width, s.Height, MaxBoardSide, MaxBoardCells)
		return ValidationError{Code: "BAD_SIZE", Message: msg}
	}

	for _, c := range sortedCoords(s.Blocks) {
		if !s.InBounds(c) {
			return ValidationError{
				Code:    "OUT_OF_BOUNDS",
				Message: fmt.Sprintf("block at %s is outside the %dx%d board", c, s.Width, s.Height),
			}
		}
		b, err := NewBlock(s.Blocks[c])
		if err != nil {
			return fmt.Errorf("block at %s: %w", c, err)
		}
		if e, ok := b.(StatReporter); ok {
			for _, stat := range e.Stats() {
				if _, tracked := s.Goals[stat]; !tracked {
					return ValidationError{
						Code:    "UNTRACKED_STAT",
						Message: fmt.Sprintf("block at %s reports %q, which has no victory condition", c, stat),
					}
				}
			}
		}
	}

	if s.NumAgents <= 0 {
		return ValidationError{
			Code:    "AGENT_COUNT",
			Message: fmt.Sprintf("level needs at least one agent, has %d", s.NumAgents),
		}
	}
	if len(s.Starts) != s.NumAgents {
		return ValidationError{
			Code:    "AGENT_COUNT",
			Message: fmt.Sprintf("%d agents declared but %d start positions given", s.NumAgents, len(s.Starts)),
		}
	}
	if s.MustFinish < 0 || s.MustFinish > s.NumAgents {
		return ValidationError{
			Code:    "MUST_FINISH",
			Message: fmt.Sprintf("must-finish count %d is outside [0, %d]", s.MustFinish, s.NumAgents),
		}
	}

	for a, c := range s.Starts {
		if !s.InBounds(c) {
			return ValidationError{
				Code:    "BAD_START",
				Message: fmt.Sprintf("agent %d starts at %s, outside the board", a, c),
			}
		}
		b, err := NewBlock(s.BlockAt(c))
		if err != nil {
			return fmt.Errorf("agent %d start %s: %w", a, c, err)
		}
		if !b.CanEnter(DirNone) {
			return ValidationError{
				Code:    "BAD_START",
				Message: fmt.Sprintf("agent %d starts at %s on %s, which does not hold agents", a, c, b.Kind()),
			}
		}
	}

	if len(s.Goals) == 0 {
		return ValidationError{
			Code:    "NO_GOALS",
			Message: "level has no victory conditions",
		}
	}

	return nil
}

// StatReporter is implemented by blocks that emit progress updates, so a
// level can be rejected before play when a statistic is not tracked.
type StatReporter interface {
	Stats() []string
}

func sortedCoords[V any](m map[Coord]V) []Coord {
	out := make([]Coord, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}
