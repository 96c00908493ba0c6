// Package formats provides pluggable level file format parsers.
// Every parser produces a Level whose Spec already passed validation.
package formats

import (
	"fmt"

	"github.com/vovakirdan/tui-slide/internal/sim"
)

// Level represents a parsed level ready for use.
type Level struct {
	ID          string
	Name        string
	Description string
	Spec        sim.LevelSpec
	Metadata    map[string]string
}

// FieldError reports a missing or malformed field in a level file.
type FieldError struct {
	Field string
	Msg   string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".toml"}
}

// Parse routes to the parser registered for ext.
func Parse(data []byte, ext string) (Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}

// ParseGoal builds a goal from a mode name and threshold.
func ParseGoal(field, mode string, n int64) (sim.Goal, error) {
	m, ok := sim.ParseGoalMode(mode)
	if !ok {
		return sim.Goal{}, fieldErr(field, "unknown goal mode %q (want exactly, at_least or at_most)", mode)
	}
	if n < 0 {
		return sim.Goal{}, fieldErr(field, "goal threshold must not be negative, got %d", n)
	}
	return sim.Goal{Mode: m, Threshold: uint(n)}, nil
}

// finish validates the assembled spec and wraps any error as a FieldError.
func finish(lvl Level) (Level, error) {
	if lvl.Spec.Blocks == nil {
		lvl.Spec.Blocks = map[sim.Coord]sim.BlockSpec{}
	}
	if err := lvl.Spec.Validate(); err != nil {
		return Level{}, &FieldError{Field: "level", Msg: err.Error(), Err: err}
	}
	return lvl, nil
}
