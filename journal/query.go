package journal

import (
	"context"
	"time"

	"daxsim/session"
)

// TradesClosedBetween returns finalized trades whose exit time is
// within [start, end), oldest first.
func (j *SQLite) TradesClosedBetween(ctx context.Context, start, end time.Time) ([]*session.Trade, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+tradeColumns+` FROM trades
		 WHERE exit_time IS NOT NULL AND exit_time >= ? AND exit_time < ?
		 ORDER BY exit_time ASC`,
		start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*session.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SessionIDs lists all stored sessions, newest first.
func (j *SQLite) SessionIDs(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id FROM sessions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
