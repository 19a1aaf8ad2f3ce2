package strategies

import "github.com/stratlab/backsim/market"

// Noop emits only hold signals. Useful as a baseline: a noop run must
// produce no trades and a flat equity curve.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Signals(bars []market.Bar) ([]market.Signal, error) {
	return make([]market.Signal, len(bars)), nil
}
