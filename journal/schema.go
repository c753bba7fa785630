package journal

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	time_window TEXT NOT NULL,
	playlist TEXT NOT NULL,
	current_index INTEGER NOT NULL,
	completed INTEGER NOT NULL,
	win_rate_policy INTEGER NOT NULL,
	total_trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	expired INTEGER NOT NULL,
	total_pnl REAL NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	time_window TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	outcome TEXT NOT NULL,
	exit_price REAL NOT NULL,
	exit_time DATETIME,
	pnl_points REAL NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	a_grade INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_session ON trades(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades(exit_time);
`
