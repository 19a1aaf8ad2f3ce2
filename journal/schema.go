package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	strategy TEXT NOT NULL,
	dataset TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	capital REAL NOT NULL,
	final_equity REAL NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	skips INTEGER NOT NULL,
	total_return REAL NOT NULL,
	annual_return REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	max_drawdown REAL NOT NULL,
	win_rate REAL NOT NULL,
	profit_factor REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	time DATETIME NOT NULL,
	side TEXT NOT NULL,
	price REAL NOT NULL,
	shares INTEGER NOT NULL,
	value REAL NOT NULL,
	cash_before REAL NOT NULL,
	cash_after REAL NOT NULL,
	equity_before REAL NOT NULL,
	equity_after REAL NOT NULL,
	profit REAL NOT NULL,
	profit_percent REAL NOT NULL,
	holding_days INTEGER NOT NULL,
	entry_price REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	time DATETIME NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, time);
`
