package sim

import "fmt"

// StatBlocksSatisfied counts goal cells holding their required agents.
const StatBlocksSatisfied = "BlocksSatisfied"

// ProgressOp is the kind of change a ProgressUpdate applies.
type ProgressOp uint8

const (
	IncreaseStat ProgressOp = iota
	DecreaseStat
	SetStat
)

// String returns the operation name.
func (op ProgressOp) String() string {
	switch op {
	case IncreaseStat:
		return "IncreaseStat"
	case DecreaseStat:
		return "DecreaseStat"
	case SetStat:
		return "SetStat"
	default:
		return "Unknown"
	}
}

// ProgressUpdate is a single change to a named progress statistic.
type ProgressUpdate struct {
	Op    ProgressOp
	Stat  string
	Value uint
}

// String returns a compact description such as "BlocksSatisfied+1".
func (u ProgressUpdate) String() string {
	switch u.Op {
	case IncreaseStat:
		return fmt.Sprintf("%s+%d", u.Stat, u.Value)
	case DecreaseStat:
		return fmt.Sprintf("%s-%d", u.Stat, u.Value)
	default:
		return fmt.Sprintf("%s=%d", u.Stat, u.Value)
	}
}

// Increase returns an update adding v to stat.
func Increase(stat string, v uint) ProgressUpdate {
	return ProgressUpdate{Op: IncreaseStat, Stat: stat, Value: v}
}

// Decrease returns an update subtracting v from stat.
func Decrease(stat string, v uint) ProgressUpdate {
	return ProgressUpdate{Op: DecreaseStat, Stat: stat, Value: v}
}

// Set returns an update assigning v to stat.
func Set(stat string, v uint) ProgressUpdate {
	return ProgressUpdate{Op: SetStat, Stat: stat, Value: v}
}

// Signal is reserved for block-to-board notifications other than progress.
// No block emits one yet.
type Signal uint8

// StatusUpdate is the side channel through which a block reports
// changes to global game statistics.
type StatusUpdate struct {
	Progress []ProgressUpdate
	Signals  []Signal
}

// Nothing returns an empty status update.
func Nothing() StatusUpdate {
	return StatusUpdate{}
}

// Progressed returns a status update carrying the given progress changes.
func Progressed(updates ...ProgressUpdate) StatusUpdate {
	return StatusUpdate{Progress: updates}
}

// IsEmpty reports whether the update carries no changes.
func (u StatusUpdate) IsEmpty() bool {
	return len(u.Progress) == 0 && len(u.Signals) == 0
}

// Merge appends other's changes after u's, preserving order.
func (u StatusUpdate) Merge(other StatusUpdate) StatusUpdate {
	if other.IsEmpty() {
		return u
	}
	return StatusUpdate{
		Progress: append(append([]ProgressUpdate(nil), u.Progress...), other.Progress...),
		Signals:  append(append([]Signal(nil), u.Signals...), other.Signals...),
	}
}

// GoalMode is the comparison a Goal applies to its statistic.
type GoalMode uint8

const (
	Exactly GoalMode = iota
	AtLeast
	AtMost
)

// String returns the mode name as used in level files.
func (m GoalMode) String() string {
	switch m {
	case Exactly:
		return "exactly"
	case AtLeast:
		return "at_least"
	case AtMost:
		return "at_most"
	default:
		return "unknown"
	}
}

// ParseGoalMode parses "exactly", "at_least" or "at_most".
func ParseGoalMode(s string) (GoalMode, bool) {
	switch s {
	case "exactly":
		return Exactly, true
	case "at_least":
		return AtLeast, true
	case "at_most":
		return AtMost, true
	default:
		return Exactly, false
	}
}

// Goal is a predicate over one progress statistic.
type Goal struct {
	Mode      GoalMode
	Threshold uint
}

// Satisfied reports whether current meets the goal.
func (g Goal) Satisfied(current uint) bool {
	switch g.Mode {
	case AtLeast:
		return current >= g.Threshold
	case AtMost:
		return current <= g.Threshold
	default:
		return current == g.Threshold
	}
}

// String returns e.g. "exactly 1".
func (g Goal) String() string {
	return fmt.Sprintf("%s %d", g.Mode, g.Threshold)
}
