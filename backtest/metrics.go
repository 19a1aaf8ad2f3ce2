package backtest

import "math"

// Trading-calendar constants used for annualization.
const (
	calendarDaysPerYear = 365.0
	tradingDaysPerYear  = 252.0
)

// Metrics are the aggregate performance statistics derived from the equity
// curve and trade log. Returns and drawdown are fractions (0.25 = 25%).
type Metrics struct {
	TotalReturn  float64
	AnnualReturn float64
	SharpeRatio  float64
	MaxDrawdown  float64 // non-positive
	WinRate      float64
	ProfitFactor float64

	// Degenerate flags distinguish "the statistic is genuinely zero" from
	// "the statistic is undefined and defaulted to zero".
	Degenerate DegenerateFlags
}

// DegenerateFlags mark metrics whose defining ratio had a zero denominator
// and were resolved to the documented 0 default.
type DegenerateFlags struct {
	AnnualReturn bool // single-bar series: zero elapsed calendar days
	SharpeRatio  bool // fewer than 2 daily returns, or zero variance
	WinRate      bool // no sell trades
	ProfitFactor bool // no losing trades
}

// Analyze computes Metrics from an equity curve and trade log. Numeric
// degeneracies never escape as NaN/Inf or errors: every undefined ratio
// resolves to 0 with its Degenerate flag set, so any structurally valid
// input yields a complete result.
func Analyze(curve []EquityPoint, trades []Trade, capital float64) Metrics {
	var m Metrics
	if len(curve) == 0 || capital <= 0 {
		return m
	}

	finalEquity := curve[len(curve)-1].Equity
	m.TotalReturn = (finalEquity - capital) / capital

	elapsedDays := curve[len(curve)-1].Time.Sub(curve[0].Time).Hours() / 24
	if elapsedDays > 0 {
		m.AnnualReturn = m.TotalReturn * (calendarDaysPerYear / elapsedDays)
	} else {
		m.Degenerate.AnnualReturn = true
	}

	m.SharpeRatio, m.Degenerate.SharpeRatio = sharpe(curve)
	m.MaxDrawdown = maxDrawdown(curve)
	m.WinRate, m.ProfitFactor, m.Degenerate.WinRate, m.Degenerate.ProfitFactor = tradeStats(trades)

	return m
}

// sharpe annualizes mean/stdev of per-bar equity returns by sqrt(252).
// Sample standard deviation; fewer than 2 observations or zero variance is
// degenerate.
func sharpe(curve []EquityPoint) (ratio float64, degenerate bool) {
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}
	if len(returns) < 2 {
		return 0, true
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)

	if variance == 0 {
		return 0, true
	}
	return mean / math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear), false
}

// maxDrawdown is the deepest decline from the running equity peak,
// expressed as a non-positive fraction. Zero for a monotonically
// non-decreasing curve.
func maxDrawdown(curve []EquityPoint) float64 {
	peak := curve[0].Equity
	worst := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := p.Equity/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

func tradeStats(trades []Trade) (winRate, profitFactor float64, wrDegen, pfDegen bool) {
	var sells, wins int
	var grossWin, grossLoss float64

	for _, t := range trades {
		if t.Side != Sell {
			continue
		}
		sells++
		switch {
		case t.Profit > 0:
			wins++
			grossWin += t.Profit
		case t.Profit < 0:
			grossLoss += t.Profit // negative
		}
	}

	if sells == 0 {
		return 0, 0, true, true
	}
	winRate = float64(wins) / float64(sells)

	if grossLoss == 0 {
		// No losing trades: the ratio is unbounded; we keep the 0 sentinel
		// and flag it (see DESIGN.md).
		return winRate, 0, false, true
	}
	return winRate, grossWin / -grossLoss, false, false
}
