package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, strategy, dataset, start_time, end_time, capital, final_equity,
		 trades, wins, losses, skips,
		 total_return, annual_return, sharpe_ratio, max_drawdown, win_rate, profit_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Strategy, r.Dataset, r.Start, r.End, r.Capital, r.FinalEquity,
		r.Trades, r.Wins, r.Losses, r.Skips,
		r.TotalReturn, r.AnnualReturn, r.SharpeRatio, r.MaxDrawdown, r.WinRate, r.ProfitFactor,
	)
	return err
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, time, side, price, shares, value,
		 cash_before, cash_after, equity_before, equity_after,
		 profit, profit_percent, holding_days, entry_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Time, t.Side, t.Price, t.Shares, t.Value,
		t.CashBefore, t.CashAfter, t.EquityBefore, t.EquityAfter,
		t.Profit, t.ProfitPercent, t.HoldingDays, t.EntryPrice,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, equity) VALUES (?, ?, ?)`,
		e.RunID, e.Time, e.Equity,
	)
	return err
}

// ListRuns returns run summaries, most recent first.
func (j *SQLiteJournal) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, strategy, dataset, start_time, end_time, capital, final_equity,
		       trades, wins, losses, skips,
		       total_return, annual_return, sharpe_ratio, max_drawdown, win_rate, profit_factor
		FROM runs ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.RunID, &r.Created, &r.Strategy, &r.Dataset, &r.Start, &r.End, &r.Capital, &r.FinalEquity,
			&r.Trades, &r.Wins, &r.Losses, &r.Skips,
			&r.TotalReturn, &r.AnnualReturn, &r.SharpeRatio, &r.MaxDrawdown, &r.WinRate, &r.ProfitFactor,
		); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the summary for one run ID.
func (j *SQLiteJournal) GetRun(runID string) (RunRecord, error) {
	var r RunRecord
	err := j.db.QueryRow(`
		SELECT run_id, created, strategy, dataset, start_time, end_time, capital, final_equity,
		       trades, wins, losses, skips,
		       total_return, annual_return, sharpe_ratio, max_drawdown, win_rate, profit_factor
		FROM runs WHERE run_id = ?`, runID).Scan(
		&r.RunID, &r.Created, &r.Strategy, &r.Dataset, &r.Start, &r.End, &r.Capital, &r.FinalEquity,
		&r.Trades, &r.Wins, &r.Losses, &r.Skips,
		&r.TotalReturn, &r.AnnualReturn, &r.SharpeRatio, &r.MaxDrawdown, &r.WinRate, &r.ProfitFactor,
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("run %s: %w", runID, err)
	}
	return r, nil
}

// ListTradesByRun returns a run's trades in execution order.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, time, side, price, shares, value,
		       cash_before, cash_after, equity_before, equity_after,
		       profit, profit_percent, holding_days, entry_price
		FROM trades WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(
			&t.TradeID, &t.RunID, &t.Time, &t.Side, &t.Price, &t.Shares, &t.Value,
			&t.CashBefore, &t.CashAfter, &t.EquityBefore, &t.EquityAfter,
			&t.Profit, &t.ProfitPercent, &t.HoldingDays, &t.EntryPrice,
		); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// ListEquityByRun returns a run's equity curve in time order.
func (j *SQLiteJournal) ListEquityByRun(runID string) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, equity FROM equity WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []EquityRecord
	for rows.Next() {
		var e EquityRecord
		if err := rows.Scan(&e.RunID, &e.Time, &e.Equity); err != nil {
			return nil, err
		}
		points = append(points, e)
	}
	return points, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
