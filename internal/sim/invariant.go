package sim

import "fmt"

// InvariantError is the panic value raised when the engine detects a
// contract violation: malformed level data that slipped past validation,
// or a caller misusing the board. It is not meant to be recovered from
// except to abort the session that triggered it.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "sim: invariant violated: " + e.Msg
}

// invariantf panics with an *InvariantError.
func invariantf(format string, args ...any) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}

// AsInvariant extracts an *InvariantError from a recovered panic value.
func AsInvariant(recovered any) (*InvariantError, bool) {
	err, ok := recovered.(*InvariantError)
	return err, ok
}
