package backtest

import "time"

// Side of an execution.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Position is the single open long holding. Shares > 0 iff a position is
// open; the account never holds more than one.
type Position struct {
	EntryPrice float64
	Shares     int64
	EntryTime  time.Time
}

// Open reports whether the position is held.
func (p Position) Open() bool { return p.Shares > 0 }

// Account is the simulation state threaded through the bar fold: cash plus
// the optional open position. It is mutated exactly once per executed
// trade.
type Account struct {
	Cash     float64
	Position Position
}

// Equity values the account at the given price, marking any open position
// to market.
func (a Account) Equity(price float64) float64 {
	if !a.Position.Open() {
		return a.Cash
	}
	return a.Cash + float64(a.Position.Shares)*price
}

// Trade is one executed buy or sell. Records are immutable once appended
// to the trade log. The profit fields are populated on sells only.
type Trade struct {
	Time   time.Time
	Side   Side
	Price  float64 // rounded to Config.PriceDecimals
	Shares int64
	Value  float64 // Price * Shares

	CashBefore   float64
	CashAfter    float64
	EquityBefore float64
	EquityAfter  float64

	// Sell-only fields.
	Profit        float64
	ProfitPercent float64
	HoldingDays   int
	EntryPrice    float64
}

// SkipReason classifies a signal that produced no trade. Skips are
// diagnostics, never errors: the run always continues.
type SkipReason string

const (
	SkipInsufficientCapital SkipReason = "insufficient capital"
	SkipAlreadyPositioned   SkipReason = "already positioned"
	SkipNoPosition          SkipReason = "no position to sell"
	SkipBadSignal           SkipReason = "unrecognized signal value"
)

// Skip records one signal that had no effect.
type Skip struct {
	Index  int
	Time   time.Time
	Signal int
	Reason SkipReason
}
