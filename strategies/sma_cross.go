package strategies

import (
	"fmt"

	"github.com/stratlab/backsim/indicators"
	"github.com/stratlab/backsim/market"
)

// SMACross is a simple moving average crossover: enter long when the fast
// SMA crosses above the slow SMA, exit when it crosses back below. Bars
// before the slow window fills are hold.
type SMACross struct {
	Fast int
	Slow int
}

// NewSMACross validates the periods and returns the signaler.
func NewSMACross(fast, slow int) (*SMACross, error) {
	if fast <= 0 || slow <= 0 {
		return nil, fmt.Errorf("sma-cross: periods must be positive, got fast=%d slow=%d", fast, slow)
	}
	if fast >= slow {
		return nil, fmt.Errorf("sma-cross: fast period %d must be below slow period %d", fast, slow)
	}
	return &SMACross{Fast: fast, Slow: slow}, nil
}

func (s *SMACross) Name() string { return "sma-cross" }

func (s *SMACross) Signals(bars []market.Bar) ([]market.Signal, error) {
	signals := make([]market.Signal, len(bars))

	var prevAbove, havePrev bool
	for i := s.Slow - 1; i < len(bars); i++ {
		window := bars[:i+1]

		fast, err := indicators.SMA(window, s.Fast)
		if err != nil {
			return nil, err
		}
		slow, err := indicators.SMA(window, s.Slow)
		if err != nil {
			return nil, err
		}

		above := fast > slow
		if havePrev && above != prevAbove {
			if above {
				signals[i] = market.Enter
			} else {
				signals[i] = market.Exit
			}
		}
		prevAbove = above
		havePrev = true
	}

	return signals, nil
}
