package sim

import (
	"io"
	"maps"

	"github.com/charmbracelet/log"
)

// DefaultStepLimit caps the number of steps a single slide may take before
// the game is declared lost.
const DefaultStepLimit = 100

// View is the read-only surface of a board consumed by renderers and
// front ends. Implementations must not expose mutation.
type View interface {
	Dimensions() (width, height int)
	Cell(c Coord) CellView
	AgentPosition(a AgentID) Position
	NumAgents() int
	AliveAgents() int
	State() GameState
	ProgressMap() map[string]uint
	Goals() map[string]Goal
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the logger used for debug tracing of moves and slides.
func WithLogger(l *log.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithStepLimit overrides DefaultStepLimit. Non-positive values are ignored.
func WithStepLimit(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.stepLimit = n
		}
	}
}

// Board owns the grid, the agent position table, progress tracking and
// the action log. It is not safe for concurrent use.
type Board struct {
	spec LevelSpec // frozen start configuration

	width  int
	height int
	cells  []Block // indexed by x*height + y

	positions []Position // authoritative agent positions
	alive     int
	progress  map[string]uint
	state     GameState
	actions   []Action

	stepLimit int
	logger    *log.Logger
}

// NewBoard builds a board in its starting configuration.
// Panics with an *InvariantError if spec does not validate; loaders are
// expected to call spec.Validate first and report the error themselves.
func NewBoard(spec LevelSpec, opts ...Option) *Board {
	if err := spec.Validate(); err != nil {
		invariantf("invalid level: %v", err)
	}

	b := &Board{
		spec:      spec.Clone(),
		width:     spec.Width,
		height:    spec.Height,
		stepLimit: DefaultStepLimit,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.reset()
	return b
}

// reset restores the frozen starting configuration. The action log is
// left to the caller.
func (b *Board) reset() {
	b.cells = make([]Block, b.width*b.height)
	for x := 0; x < b.width; x++ {
		for y := 0; y < b.height; y++ {
			c := Coord{X: x, Y: y}
			b.cells[b.index(c)] = mustBlock(b.spec.BlockAt(c))
		}
	}

	b.progress = make(map[string]uint, len(b.spec.Goals))
	for stat := range b.spec.Goals {
		b.progress[stat] = 0
	}

	b.alive = b.spec.NumAgents
	b.positions = make([]Position, b.spec.NumAgents)
	for a, start := range b.spec.Starts {
		b.positions[a] = OnBoard(start)
		b.processUpdate(b.block(start).EnterAgent(AgentID(a)))
	}

	b.state = Running
}

func (b *Board) index(c Coord) int {
	return c.X*b.height + c.Y
}

func (b *Board) block(c Coord) Block {
	if !b.InBounds(c) {
		invariantf("cell %s is outside the %dx%d board", c, b.width, b.height)
	}
	return b.cells[b.index(c)]
}

func (b *Board) checkAgent(a AgentID) {
	if a < 0 || int(a) >= len(b.positions) {
		invariantf("agent %d does not exist (level has %d)", a, len(b.positions))
	}
}

// Dimensions returns the grid size.
func (b *Board) Dimensions() (width, height int) {
	return b.width, b.height
}

// InBounds reports whether c lies on the grid.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.height
}

// Cell returns a read-only view of the cell at c. Panics when c is off the board.
func (b *Board) Cell(c Coord) CellView {
	return b.block(c)
}

// AgentPosition returns where agent a currently is.
func (b *Board) AgentPosition(a AgentID) Position {
	b.checkAgent(a)
	return b.positions[a]
}

// State returns the current game state.
func (b *Board) State() GameState { return b.state }

// Progress returns the value of a tracked statistic. Panics when the
// statistic is not tracked.
func (b *Board) Progress(stat string) uint {
	v, ok := b.progress[stat]
	if !ok {
		invariantf("statistic %q is not tracked", stat)
	}
	return v
}

// ProgressMap returns a copy of all tracked statistics.
func (b *Board) ProgressMap() map[string]uint { return maps.Clone(b.progress) }

// Goals returns a copy of the victory conditions.
func (b *Board) Goals() map[string]Goal { return maps.Clone(b.spec.Goals) }

// NumAgents returns the number of agents the level declares.
func (b *Board) NumAgents() int { return b.spec.NumAgents }

// AliveAgents returns the number of agents still on the board.
func (b *Board) AliveAgents() int { return b.alive }

// MustFinish returns the minimum number of agents that must stay on the board.
func (b *Board) MustFinish() int { return b.spec.MustFinish }

// StepLimit returns the per-slide step ceiling.
func (b *Board) StepLimit() int { return b.stepLimit }

// Actions returns a copy of the action log.
func (b *Board) Actions() []Action { return append([]Action(nil), b.actions...) }

// Turns returns the number of logged actions.
func (b *Board) Turns() int { return len(b.actions) }

// Spec returns a copy of the starting configuration.
func (b *Board) Spec() LevelSpec { return b.spec.Clone() }

// CanMoveAgent reports whether MoveAgent(a, d) would relocate the agent.
// It never mutates the board.
func (b *Board) CanMoveAgent(a AgentID, d Direction) bool {
	b.checkAgent(a)
	if b.state != Running || d == DirNone {
		return false
	}
	cur, ok := b.positions[a].Coord()
	if !ok {
		return false
	}
	target := cur.Step(d)
	return b.InBounds(target) && b.block(target).CanEnter(d)
}

// processUpdate folds a block's status update into the progress map.
func (b *Board) processUpdate(u StatusUpdate) {
	for _, p := range u.Progress {
		cur, ok := b.progress[p.Stat]
		if !ok {
			invariantf("update %s addresses untracked statistic %q", p, p.Stat)
		}
		switch p.Op {
		case IncreaseStat:
			cur += p.Value
		case DecreaseStat:
			if p.Value > cur {
				invariantf("update %s would take %q below zero (currently %d)", p, p.Stat, cur)
			}
			cur -= p.Value
		case SetStat:
			cur = p.Value
		default:
			invariantf("unknown progress operation %d", p.Op)
		}
		b.progress[p.Stat] = cur
	}
	for _, s := range u.Signals {
		b.logger.Debug("ignoring signal", "signal", s)
	}
}

// checkVictory recomputes the game state from progress. Lost is sticky.
func (b *Board) checkVictory() {
	if b.state == Lost {
		return
	}

	next := Won
	for stat, goal := range b.spec.Goals {
		if !goal.Satisfied(b.progress[stat]) {
			next = Running
			break
		}
	}

	if next != b.state {
		b.logger.Debug("state changed", "from", b.state, "to", next)
		b.state = next
	}
}
