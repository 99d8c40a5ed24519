package journal

// Decimal columns are stored as TEXT so values round-trip exactly.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity TEXT NOT NULL,
	price TEXT NOT NULL,
	cost_basis TEXT NOT NULL,
	winning INTEGER NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);

CREATE TABLE IF NOT EXISTS snapshots (
	timestamp DATETIME NOT NULL,
	starting_balance TEXT NOT NULL,
	current_balance TEXT NOT NULL,
	quantity_held TEXT NOT NULL,
	avg_buy_price TEXT NOT NULL,
	current_price TEXT NOT NULL,
	realized_pl TEXT NOT NULL,
	unrealized_pl TEXT NOT NULL,
	total_pl TEXT NOT NULL,
	pl_percent TEXT NOT NULL,
	total_trades INTEGER NOT NULL,
	winning_trades INTEGER NOT NULL,
	sell_trades INTEGER NOT NULL,
	win_rate TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_timestamp ON snapshots(timestamp);
`
