// Package journal persists backtest runs: one summary row per run plus
// the full trade log and equity curve, keyed by a ULID run ID.
package journal

import "time"

// RunRecord summarizes one backtest run.
type RunRecord struct {
	RunID    string
	Created  time.Time
	Strategy string
	Dataset  string

	Start time.Time
	End   time.Time

	Capital     float64
	FinalEquity float64

	Trades int
	Wins   int
	Losses int
	Skips  int

	TotalReturn  float64
	AnnualReturn float64
	SharpeRatio  float64
	MaxDrawdown  float64
	WinRate      float64
	ProfitFactor float64
}

// TradeRecord is one executed trade belonging to a run.
type TradeRecord struct {
	RunID   string
	TradeID string
	Time    time.Time
	Side    string
	Price   float64
	Shares  int64
	Value   float64

	CashBefore   float64
	CashAfter    float64
	EquityBefore float64
	EquityAfter  float64

	Profit        float64
	ProfitPercent float64
	HoldingDays   int
	EntryPrice    float64
}

// EquityRecord is one equity-curve point belonging to a run.
type EquityRecord struct {
	RunID  string
	Time   time.Time
	Equity float64
}

// Journal records runs with their trades and equity curves.
type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}
