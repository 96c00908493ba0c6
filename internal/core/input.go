package core

// Action is a semantic player intent, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // Up arrow, k - move, or slide when blocked
	ActionDown              // Down arrow, j
	ActionLeft              // Left arrow, h
	ActionRight             // Right arrow, l
	ActionSlideUp           // Shift+Up, K - always slide
	ActionSlideDown         // Shift+Down, J
	ActionSlideLeft         // Shift+Left, H
	ActionSlideRight        // Shift+Right, L
	ActionNextAgent         // Tab
	ActionPrevAgent         // Shift+Tab
	ActionUndo              // u, z
	ActionRestart           // r
	ActionSave              // Ctrl+S
	ActionConfirm           // Enter
	ActionBack              // Esc, b
	ActionQuit              // q, Ctrl+C
)

var actionNames = map[Action]string{
	ActionNone:       "None",
	ActionUp:         "Up",
	ActionDown:       "Down",
	ActionLeft:       "Left",
	ActionRight:      "Right",
	ActionSlideUp:    "SlideUp",
	ActionSlideDown:  "SlideDown",
	ActionSlideLeft:  "SlideLeft",
	ActionSlideRight: "SlideRight",
	ActionNextAgent:  "NextAgent",
	ActionPrevAgent:  "PrevAgent",
	ActionUndo:       "Undo",
	ActionRestart:    "Restart",
	ActionSave:       "Save",
	ActionConfirm:    "Confirm",
	ActionBack:       "Back",
	ActionQuit:       "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "Unknown"
}

// Heading returns the unit step (dx, dy) of a directional action and whether
// it forces a slide. ok is false for non-directional actions.
func (a Action) Heading() (dx, dy int, slide, ok bool) {
	switch a {
	case ActionUp, ActionSlideUp:
		dx, dy = 0, -1
	case ActionDown, ActionSlideDown:
		dx, dy = 0, 1
	case ActionLeft, ActionSlideLeft:
		dx, dy = -1, 0
	case ActionRight, ActionSlideRight:
		dx, dy = 1, 0
	default:
		return 0, 0, false, false
	}
	return dx, dy, a >= ActionSlideUp && a <= ActionSlideRight, true
}
