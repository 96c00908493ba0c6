package sim

import (
	"fmt"
	"sort"
	"sync"
)

// BlockFactory builds an empty block from its description.
type BlockFactory func(spec BlockSpec) (Block, error)

var (
	blockFactories = make(map[string]BlockFactory)
	blockMu        sync.RWMutex
)

// RegisterBlock adds a block kind.
// Typically called from an init() function.
// Panics if the kind is already registered.
func RegisterBlock(kind string, f BlockFactory) {
	blockMu.Lock()
	defer blockMu.Unlock()

	if _, exists := blockFactories[kind]; exists {
		panic(fmt.Sprintf("sim: block kind %q already registered", kind))
	}
	blockFactories[kind] = f
}

// NewBlock creates a block from its description.
// Returns an error if the kind is unknown or its tags are invalid.
func NewBlock(spec BlockSpec) (Block, error) {
	blockMu.RLock()
	f, ok := blockFactories[spec.Kind]
	blockMu.RUnlock()

	if !ok {
		return nil, ValidationError{
			Code:    "UNKNOWN_BLOCK",
			Message: fmt.Sprintf("unknown block type %q", spec.Kind),
		}
	}
	return f(spec)
}

// BlockKinds returns the registered kinds, sorted.
func BlockKinds() []string {
	blockMu.RLock()
	defer blockMu.RUnlock()

	kinds := make([]string, 0, len(blockFactories))
	for k := range blockFactories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// mustBlock builds a block from a description the board already validated.
func mustBlock(spec BlockSpec) Block {
	b, err := NewBlock(spec)
	if err != nil {
		invariantf("rebuilding validated block: %v", err)
	}
	return b
}
