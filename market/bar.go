package market

import "time"

// Bar represents one OHLCV (Open, High, Low, Close, Volume) observation
// at a discrete timestamp.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Signal is a per-bar directional instruction produced by a strategy.
type Signal int

const (
	Exit  Signal = -1 // close the open long position
	Hold  Signal = 0  // no action
	Enter Signal = 1  // open a long position
)

// Valid reports whether the signal is one of the recognized values.
// Anything else is treated as Hold by the simulator (logged, never fatal).
func (s Signal) Valid() bool {
	return s == Exit || s == Hold || s == Enter
}

func (s Signal) String() string {
	switch s {
	case Exit:
		return "exit"
	case Enter:
		return "enter"
	case Hold:
		return "hold"
	}
	return "unknown"
}
