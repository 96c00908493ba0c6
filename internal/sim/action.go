package sim

import "fmt"

// ActionKind distinguishes the two player inputs.
type ActionKind uint8

const (
	ActionMove ActionKind = iota
	ActionSlide
)

// String returns "move" or "slide".
func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionSlide:
		return "slide"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ActionKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "move":
		*k = ActionMove
	case "slide":
		*k = ActionSlide
	default:
		return fmt.Errorf("sim: unknown action kind %q", string(text))
	}
	return nil
}

// Action is one logged player input.
type Action struct {
	Kind      ActionKind `json:"kind"`
	Agent     AgentID    `json:"agent"`
	Direction Direction  `json:"direction"`
}

// MoveAction returns a Move input.
func MoveAction(a AgentID, d Direction) Action {
	return Action{Kind: ActionMove, Agent: a, Direction: d}
}

// SlideAction returns a Slide input.
func SlideAction(a AgentID, d Direction) Action {
	return Action{Kind: ActionSlide, Agent: a, Direction: d}
}

// String returns e.g. "slide(0, up)".
func (a Action) String() string {
	return fmt.Sprintf("%s(%d, %s)", a.Kind, a.Agent, a.Direction)
}

// Outcome describes what one action did to the board.
type Outcome struct {
	Action Action
	// Moved is true when any cell or agent changed place.
	Moved bool
	// Steps is the number of slide steps taken.
	Steps int
	// Ejected lists agents pushed off the board by this action.
	Ejected []AgentID
	State   GameState
}

// Apply dispatches an action to MoveAgent or SlideAgent.
func (b *Board) Apply(act Action) Outcome {
	switch act.Kind {
	case ActionMove:
		return b.MoveAgent(act.Agent, act.Direction)
	case ActionSlide:
		return b.SlideAgent(act.Agent, act.Direction)
	default:
		invariantf("unknown action kind %d", act.Kind)
		return Outcome{}
	}
}

// Undo drops the most recent action and rebuilds the board by replaying
// the rest of the log from the starting configuration. Returns false when
// there is nothing to undo.
func (b *Board) Undo() bool {
	if len(b.actions) == 0 {
		return false
	}

	history := append([]Action(nil), b.actions[:len(b.actions)-1]...)
	b.logger.Debug("undo", "dropped", b.actions[len(b.actions)-1], "replaying", len(history))

	b.reset()
	b.actions = b.actions[:0]
	for _, act := range history {
		b.Apply(act)
	}
	return true
}

// Restart clears the action log and returns to the starting configuration.
func (b *Board) Restart() {
	b.actions = nil
	b.reset()
}

// Replay builds a board from spec and applies a stored action log.
// Unlike NewBoard it reports bad input as an error: the level must
// validate, and every action must name an existing agent and arrive
// while the game is still running.
func Replay(spec LevelSpec, actions []Action, opts ...Option) (*Board, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("sim: replay: %w", err)
	}

	b := NewBoard(spec, opts...)
	for i, act := range actions {
		if act.Agent < 0 || int(act.Agent) >= b.NumAgents() {
			return nil, fmt.Errorf("sim: replay: action %d (%s): agent out of range", i, act)
		}
		if act.Kind != ActionMove && act.Kind != ActionSlide {
			return nil, fmt.Errorf("sim: replay: action %d: unknown kind %d", i, act.Kind)
		}
		if b.State() != Running {
			return nil, fmt.Errorf("sim: replay: action %d (%s) after the game ended (%s)", i, act, b.State())
		}
		b.Apply(act)
	}
	return b, nil
}
