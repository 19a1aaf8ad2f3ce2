package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/stratlab/backsim/market"
)

// Result is the engine's single output value: the ordered trade log, the
// per-bar equity curve, the derived metrics and any skipped-signal
// diagnostics. Assembly is side-effect free; persistence is the caller's
// business.
type Result struct {
	Trades      []Trade
	EquityCurve []EquityPoint
	Metrics     Metrics
	Skips       []Skip

	Capital     float64
	FinalEquity float64
	Start       time.Time
	End         time.Time
}

// Run executes the full pipeline over one series: simulate executions,
// rebuild the equity curve, analyze it and assemble the result. Rerunning
// identical input reproduces an identical result.
func Run(series *market.PriceSeries, cfg Config) (*Result, error) {
	sim, err := NewSimulator(cfg)
	if err != nil {
		return nil, err
	}

	st := sim.Run(series)
	curve := BuildEquityCurve(series, st.Trades, cfg.Capital)
	metrics := Analyze(curve, st.Trades, cfg.Capital)

	return &Result{
		Trades:      st.Trades,
		EquityCurve: curve,
		Metrics:     metrics,
		Skips:       st.Skips,
		Capital:     cfg.Capital,
		FinalEquity: curve[len(curve)-1].Equity,
		Start:       series.First().Time,
		End:         series.Last().Time,
	}, nil
}

// Print writes a human-readable report of the run.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Period:        %s -> %s\n",
		r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Bars:          %d\n", len(r.EquityCurve))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Capital: %.2f\n", r.Capital)
	fmt.Fprintf(w, "Final Equity:  %.2f\n", r.FinalEquity)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total Return:  %.2f%%\n", r.Metrics.TotalReturn*100)
	fmt.Fprintf(w, "Annual Return: %.2f%%%s\n", r.Metrics.AnnualReturn*100, degenNote(r.Metrics.Degenerate.AnnualReturn))
	fmt.Fprintf(w, "Sharpe Ratio:  %.2f%s\n", r.Metrics.SharpeRatio, degenNote(r.Metrics.Degenerate.SharpeRatio))
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.Metrics.MaxDrawdown*100)
	fmt.Fprintf(w, "Win Rate:      %.2f%%%s\n", r.Metrics.WinRate*100, degenNote(r.Metrics.Degenerate.WinRate))
	fmt.Fprintf(w, "Profit Factor: %.2f%s\n", r.Metrics.ProfitFactor, degenNote(r.Metrics.Degenerate.ProfitFactor))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trades")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Executed:      %d\n", len(r.Trades))
	fmt.Fprintf(w, "Skipped:       %d\n", len(r.Skips))

	for _, s := range r.Skips {
		fmt.Fprintf(w, "  - bar %d (%s): signal %d skipped: %s\n",
			s.Index, s.Time.Format("2006-01-02"), s.Signal, s.Reason)
	}

	fmt.Fprintln(w)
}

// PrintTrades writes the trade log, one line per execution.
func (r *Result) PrintTrades(w io.Writer) {
	for i, t := range r.Trades {
		switch t.Side {
		case Buy:
			fmt.Fprintf(w, "#%d | %s | %s %d @ %.2f | cash %.2f -> %.2f\n",
				i+1, t.Time.Format("2006-01-02 15:04"), t.Side, t.Shares, t.Price,
				t.CashBefore, t.CashAfter)
		case Sell:
			fmt.Fprintf(w, "#%d | %s | %s %d @ %.2f | P&L %.2f (%.2f%%) | held %dd\n",
				i+1, t.Time.Format("2006-01-02 15:04"), t.Side, t.Shares, t.Price,
				t.Profit, t.ProfitPercent*100, t.HoldingDays)
		}
	}
}

func degenNote(d bool) string {
	if d {
		return " (undefined, defaulted)"
	}
	return ""
}
