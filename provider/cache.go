package provider

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"daxsim/internal/logging"
	"daxsim/market"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS candles (
	symbol TEXT NOT NULL,
	timeframe INTEGER NOT NULL,
	ts INTEGER NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	PRIMARY KEY (symbol, timeframe, ts)
);
`

// Cache decorates another provider with a SQLite candle store, so each
// (symbol, date, timeframe) is fetched from the source at most once.
type Cache struct {
	db     *sql.DB
	source Provider
	log    logging.Logger
}

// NewCache opens (or creates) the cache database at path.
func NewCache(path string, source Provider, log logging.Logger) (*Cache, error) {
	if log == nil {
		log = logging.Nop{}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db, source: source, log: log}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) Bars(ctx context.Context, symbol string, date time.Time, tf market.Timeframe) ([]market.Candle, error) {
	start, end := dayBounds(date)

	cached, err := c.read(ctx, symbol, tf, start, end)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		c.log.Debugf("cache hit %s %s %s: %d bars", symbol, start.Format("2006-01-02"), tf, len(cached))
		return cached, nil
	}

	bars, err := c.source.Bars(ctx, symbol, date, tf)
	if err != nil {
		return nil, err
	}
	if err := c.write(ctx, symbol, tf, bars); err != nil {
		// A failed write shouldn't cost the caller the data.
		c.log.Warnf("cache write %s %s: %v", symbol, tf, err)
	}
	c.log.Infof("cached %d %s bars for %s %s", len(bars), tf, symbol, start.Format("2006-01-02"))
	return bars, nil
}

func (c *Cache) read(ctx context.Context, symbol string, tf market.Timeframe, start, end time.Time) ([]market.Candle, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT ts, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND timeframe = ? AND ts >= ? AND ts < ?
		ORDER BY ts ASC`,
		symbol, int32(tf), start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()

	var out []market.Candle
	for rows.Next() {
		var ts int64
		var c market.Candle
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		c.Time = time.Unix(ts, 0).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

func (c *Cache) write(ctx context.Context, symbol string, tf market.Timeframe, bars []market.Candle) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO candles (symbol, timeframe, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, int32(tf), b.Time.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// HasData reports whether any bar exists for the symbol/date/timeframe,
// either cached or fetchable. Used by callers that need to confirm the
// data-presence precondition for a scenario date.
func (c *Cache) HasData(ctx context.Context, symbol string, date time.Time, tf market.Timeframe) bool {
	_, err := c.Bars(ctx, symbol, date, tf)
	return err == nil
}
