// Package strategies contains reference signal generators. The engine
// itself only consumes a signal column; these produce one from raw bars.
package strategies

import (
	"fmt"
	"strings"

	"github.com/stratlab/backsim/market"
)

// Signaler produces one signal per bar from an ordered bar sequence.
// Implementations must be deterministic: the same bars always yield the
// same column.
type Signaler interface {
	Name() string
	Signals(bars []market.Bar) ([]market.Signal, error)
}

var registry = make(map[string]Signaler)

// Register adds a signaler to the registry, keyed by its Name().
func Register(s Signaler) {
	registry[s.Name()] = s
}

// Get retrieves a registered signaler by name, or nil.
func Get(name string) Signaler {
	return registry[name]
}

// ByName builds a signaler from a CLI-style name and parameters.
func ByName(name string, fast, slow int) (Signaler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "sma-cross", "smacross":
		return NewSMACross(fast, slow)

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, sma-cross)", name)
	}
}
