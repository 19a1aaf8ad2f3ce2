package market

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSeries marks structurally malformed input: an empty series,
// timestamps out of order, non-positive prices or mismatched columns.
// These abort a run; there is no silent repair.
var ErrInvalidSeries = errors.New("invalid price series")

// PriceSeries is an ordered, validated sequence of bars with a parallel
// signal column and an optional per-bar position-size fraction column.
// It is read-only after construction; the engine is a pure function of it.
type PriceSeries struct {
	bars      []Bar
	signals   []Signal
	fractions []float64 // 0 = unset, use the simulator default
}

// NewSeries validates bars and signals and builds a PriceSeries.
// Timestamps must be strictly increasing and every close must be a
// positive finite number.
func NewSeries(bars []Bar, signals []Signal) (*PriceSeries, error) {
	return NewSeriesSized(bars, signals, nil)
}

// NewSeriesSized is NewSeries with an optional per-bar position-size
// fraction column. A nil column means "no hints"; otherwise it must be the
// same length as bars, with every value either 0 (unset) or in (0, 1].
func NewSeriesSized(bars []Bar, signals []Signal, fractions []float64) (*PriceSeries, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrInvalidSeries)
	}
	if len(signals) != len(bars) {
		return nil, fmt.Errorf("%w: %d bars but %d signals", ErrInvalidSeries, len(bars), len(signals))
	}
	if fractions != nil && len(fractions) != len(bars) {
		return nil, fmt.Errorf("%w: %d bars but %d size fractions", ErrInvalidSeries, len(bars), len(fractions))
	}

	for i, b := range bars {
		if b.Close <= 0 || math.IsInf(b.Close, 0) || math.IsNaN(b.Close) {
			return nil, fmt.Errorf("%w: bar %d has close %v", ErrInvalidSeries, i, b.Close)
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return nil, fmt.Errorf("%w: bar %d time %s not after bar %d time %s",
				ErrInvalidSeries, i, b.Time.Format("2006-01-02T15:04:05Z07:00"),
				i-1, bars[i-1].Time.Format("2006-01-02T15:04:05Z07:00"))
		}
	}
	for i, f := range fractions {
		if f != 0 && (f <= 0 || f > 1 || math.IsNaN(f)) {
			return nil, fmt.Errorf("%w: bar %d size fraction %v outside (0,1]", ErrInvalidSeries, i, f)
		}
	}

	s := &PriceSeries{
		bars:    append([]Bar(nil), bars...),
		signals: append([]Signal(nil), signals...),
	}
	if fractions != nil {
		s.fractions = append([]float64(nil), fractions...)
	}
	return s, nil
}

// Len returns the fixed number of bars.
func (s *PriceSeries) Len() int { return len(s.bars) }

// Bar returns the bar at index i.
func (s *PriceSeries) Bar(i int) Bar { return s.bars[i] }

// Signal returns the signal attached to bar i.
func (s *PriceSeries) Signal(i int) Signal { return s.signals[i] }

// SizeHint returns the position-size fraction suggested for bar i, or 0
// when no hint was provided.
func (s *PriceSeries) SizeHint(i int) float64 {
	if s.fractions == nil {
		return 0
	}
	return s.fractions[i]
}

// First and Last return the boundary bars. Len() >= 1 is guaranteed by
// construction.
func (s *PriceSeries) First() Bar { return s.bars[0] }
func (s *PriceSeries) Last() Bar  { return s.bars[len(s.bars)-1] }
