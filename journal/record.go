package journal

import (
	"fmt"
	"time"

	"github.com/stratlab/backsim/backtest"
	"github.com/stratlab/backsim/pkg/id"
)

// RecordResult writes a full backtest result to the journal: the run
// summary, every trade and every equity point, all keyed by a fresh ULID
// run ID. It returns the run ID.
func RecordResult(j Journal, res *backtest.Result, strategy, dataset string) (string, error) {
	runID := id.New()

	wins, losses := 0, 0
	for _, t := range res.Trades {
		if t.Side != backtest.Sell {
			continue
		}
		if t.Profit > 0 {
			wins++
		} else if t.Profit < 0 {
			losses++
		}
	}

	run := RunRecord{
		RunID:        runID,
		Created:      time.Now().UTC(),
		Strategy:     strategy,
		Dataset:      dataset,
		Start:        res.Start,
		End:          res.End,
		Capital:      res.Capital,
		FinalEquity:  res.FinalEquity,
		Trades:       len(res.Trades),
		Wins:         wins,
		Losses:       losses,
		Skips:        len(res.Skips),
		TotalReturn:  res.Metrics.TotalReturn,
		AnnualReturn: res.Metrics.AnnualReturn,
		SharpeRatio:  res.Metrics.SharpeRatio,
		MaxDrawdown:  res.Metrics.MaxDrawdown,
		WinRate:      res.Metrics.WinRate,
		ProfitFactor: res.Metrics.ProfitFactor,
	}
	if err := j.RecordRun(run); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	for _, t := range res.Trades {
		rec := TradeRecord{
			RunID:         runID,
			TradeID:       id.New(),
			Time:          t.Time,
			Side:          string(t.Side),
			Price:         t.Price,
			Shares:        t.Shares,
			Value:         t.Value,
			CashBefore:    t.CashBefore,
			CashAfter:     t.CashAfter,
			EquityBefore:  t.EquityBefore,
			EquityAfter:   t.EquityAfter,
			Profit:        t.Profit,
			ProfitPercent: t.ProfitPercent,
			HoldingDays:   t.HoldingDays,
			EntryPrice:    t.EntryPrice,
		}
		if err := j.RecordTrade(rec); err != nil {
			return "", fmt.Errorf("record trade at %s: %w", t.Time.Format(time.RFC3339), err)
		}
	}

	for _, p := range res.EquityCurve {
		if err := j.RecordEquity(EquityRecord{RunID: runID, Time: p.Time, Equity: p.Equity}); err != nil {
			return "", fmt.Errorf("record equity at %s: %w", p.Time.Format(time.RFC3339), err)
		}
	}

	return runID, nil
}
