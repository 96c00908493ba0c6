package sim

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"maps"
	"slices"
)

// MarshalText implements encoding.TextMarshaler.
func (k TextureKind) MarshalText() ([]byte, error) {
	switch k {
	case TextureNone:
		return []byte("none"), nil
	case TextureBasic:
		return []byte("basic"), nil
	case TextureImpassable:
		return []byte("impassable"), nil
	case TextureGoal:
		return []byte("goal"), nil
	default:
		return nil, fmt.Errorf("sim: unknown texture kind %d", k)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TextureKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*k = TextureNone
	case "basic":
		*k = TextureBasic
	case "impassable":
		*k = TextureImpassable
	case "goal":
		*k = TextureGoal
	default:
		return fmt.Errorf("sim: unknown texture kind %q", string(text))
	}
	return nil
}

// MarshalJSON encodes an on-board position as {"x":..,"y":..} and an
// off-board one as null.
func (p Position) MarshalJSON() ([]byte, error) {
	if !p.onBoard {
		return []byte("null"), nil
	}
	return json.Marshal(p.coord)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Position) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = OffBoard
		return nil
	}
	var c Coord
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("sim: position: %w", err)
	}
	*p = OnBoard(c)
	return nil
}

// CellSnapshot is the exported state of one cell.
type CellSnapshot struct {
	At      Coord          `json:"at"`
	Kind    string         `json:"kind"`
	Tags    map[string]any `json:"tags,omitempty"`
	Texture Texture        `json:"texture"`
	Agents  []AgentID      `json:"agents,omitempty"`
}

// Snapshot captures the complete board state for determinism testing,
// persistence and remote clients.
type Snapshot struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Cells     []CellSnapshot  `json:"cells"` // column-major, same order as the board
	Positions []Position      `json:"positions"`
	Alive     int             `json:"alive"`
	Progress  map[string]uint `json:"progress"`
	State     GameState       `json:"state"`
	Actions   []Action        `json:"actions"`
}

// Snapshot returns a deep copy of the current board state.
func (b *Board) Snapshot() Snapshot {
	s := Snapshot{
		Width:     b.width,
		Height:    b.height,
		Cells:     make([]CellSnapshot, 0, len(b.cells)),
		Positions: slices.Clone(b.positions),
		Alive:     b.alive,
		Progress:  maps.Clone(b.progress),
		State:     b.state,
		Actions:   b.Actions(),
	}
	for x := 0; x < b.width; x++ {
		for y := 0; y < b.height; y++ {
			c := Coord{X: x, Y: y}
			blk := b.block(c)
			spec := blk.Spec()
			s.Cells = append(s.Cells, CellSnapshot{
				At:      c,
				Kind:    blk.Kind(),
				Tags:    spec.Tags,
				Texture: blk.Texture(),
				Agents:  blk.Agents(),
			})
		}
	}
	return s
}

// Hash returns a deterministic hash of the board state. The action log is
// not included, so two boards that reach the same layout through
// different histories hash equal.
func (s Snapshot) Hash() uint64 {
	h := fnv.New64a()

	fmt.Fprintf(h, "S:%dx%d;", s.Width, s.Height)

	fmt.Fprintf(h, "C:")
	for _, c := range s.Cells {
		// fmt prints maps with sorted keys.
		fmt.Fprintf(h, "%d,%d:%s:%v:%v,", c.At.X, c.At.Y, c.Kind, c.Tags, c.Agents)
	}

	fmt.Fprintf(h, ";P:")
	for a, p := range s.Positions {
		fmt.Fprintf(h, "%d=%s,", a, p)
	}

	fmt.Fprintf(h, ";A:%d;G:", s.Alive)
	for _, stat := range slices.Sorted(maps.Keys(s.Progress)) {
		fmt.Fprintf(h, "%s=%d,", stat, s.Progress[stat])
	}

	fmt.Fprintf(h, ";S:%d", s.State)

	return h.Sum64()
}

// CheckInvariants verifies that the position table and the cells'
// occupant sets agree, that every grid position holds a block, that
// the alive count matches the agents on the board, and that the
// BlocksSatisfied counter matches the goal cells holding enough agents.
func (b *Board) CheckInvariants() error {
	if len(b.cells) != b.width*b.height {
		return fmt.Errorf("sim: board has %d cells, want %d", len(b.cells), b.width*b.height)
	}

	seen := make(map[AgentID]Coord, len(b.positions))
	var satisfied uint
	for x := 0; x < b.width; x++ {
		for y := 0; y < b.height; y++ {
			c := Coord{X: x, Y: y}
			blk := b.cells[b.index(c)]
			if blk == nil {
				return fmt.Errorf("sim: no block at %s", c)
			}
			for _, a := range blk.Agents() {
				if a < 0 || int(a) >= len(b.positions) {
					return fmt.Errorf("sim: cell %s lists unknown agent %d", c, a)
				}
				if prev, dup := seen[a]; dup {
					return fmt.Errorf("sim: agent %d listed at both %s and %s", a, prev, c)
				}
				seen[a] = c
			}
			if bb, ok := blk.(*BasicBlock); ok && bb.goal > 0 && len(bb.agents) >= bb.goal {
				satisfied++
			}
		}
	}

	onBoard := 0
	for i, p := range b.positions {
		a := AgentID(i)
		at, listed := seen[a]
		c, ok := p.Coord()
		switch {
		case ok && !listed:
			return fmt.Errorf("sim: agent %d is at %s but no cell lists it", a, c)
		case ok && at != c:
			return fmt.Errorf("sim: agent %d is at %s but listed at %s", a, c, at)
		case !ok && listed:
			return fmt.Errorf("sim: agent %d is off the board but listed at %s", a, at)
		}
		if ok {
			onBoard++
		}
	}
	if onBoard != b.alive {
		return fmt.Errorf("sim: %d agents on the board but alive count is %d", onBoard, b.alive)
	}
	if got := b.progress[StatBlocksSatisfied]; got != satisfied {
		return fmt.Errorf("sim: %s is %d but %d goal cells are satisfied", StatBlocksSatisfied, got, satisfied)
	}
	return nil
}
