package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"daxsim/outcome"
	"daxsim/rules"
	"daxsim/session"
)

// SQLite implements Store on a local SQLite file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

const dateLayout = "2006-01-02"

func marshalPlaylist(dates []time.Time) (string, error) {
	strs := make([]string, len(dates))
	for i, d := range dates {
		strs[i] = d.UTC().Format(dateLayout)
	}
	b, err := json.Marshal(strs)
	return string(b), err
}

func unmarshalPlaylist(raw string) ([]time.Time, error) {
	var strs []string
	if err := json.Unmarshal([]byte(raw), &strs); err != nil {
		return nil, err
	}
	out := make([]time.Time, len(strs))
	for i, s := range strs {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, err
		}
		out[i] = d.UTC()
	}
	return out, nil
}

// SaveSession upserts the session row, counters included.
func (j *SQLite) SaveSession(ctx context.Context, s *session.Session) error {
	playlist, err := marshalPlaylist(s.Playlist)
	if err != nil {
		return fmt.Errorf("marshal playlist: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO sessions
		(id, time_window, playlist, current_index, completed, win_rate_policy,
		 total_trades, wins, losses, expired, total_pnl, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_index = excluded.current_index,
			completed = excluded.completed,
			total_trades = excluded.total_trades,
			wins = excluded.wins,
			losses = excluded.losses,
			expired = excluded.expired,
			total_pnl = excluded.total_pnl`,
		s.ID, s.Window, playlist, s.Index, s.Completed, int(s.Policy()),
		s.TotalTrades, s.Wins, s.Losses, s.Expired, s.TotalPnL, s.CreatedAt.UTC(),
	)
	return err
}

// Session loads a session and its trades.
func (j *SQLite) Session(ctx context.Context, id string) (*session.Session, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, time_window, playlist, current_index, completed, win_rate_policy,
		       total_trades, wins, losses, expired, total_pnl, created_at
		FROM sessions WHERE id = ?`, id)

	var (
		sid, window, playlist              string
		index, policy                      int
		completed                          bool
		totalTrades, wins, losses, expired int
		totalPnL                           float64
		createdAt                          time.Time
	)
	err := row.Scan(&sid, &window, &playlist, &index, &completed, &policy,
		&totalTrades, &wins, &losses, &expired, &totalPnL, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	dates, err := unmarshalPlaylist(playlist)
	if err != nil {
		return nil, fmt.Errorf("session %q playlist: %w", id, err)
	}

	s := session.Restore(sid, window, dates, index, completed,
		rules.WinRatePolicy(policy), createdAt.UTC())
	s.TotalTrades = totalTrades
	s.Wins = wins
	s.Losses = losses
	s.Expired = expired
	s.TotalPnL = totalPnL

	s.Trades, err = j.TradesBySession(ctx, sid)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SaveTrade upserts a trade row; the second save after finalization
// fills the exit fields.
func (j *SQLite) SaveTrade(ctx context.Context, t *session.Trade) error {
	var exitTime any
	if t.Finalized() {
		exitTime = t.ExitTime.UTC()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(id, session_id, date, time_window, direction, entry_price, entry_time,
		 stop_loss, take_profit, outcome, exit_price, exit_time, pnl_points,
		 notes, a_grade, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			outcome = excluded.outcome,
			exit_price = excluded.exit_price,
			exit_time = excluded.exit_time,
			pnl_points = excluded.pnl_points,
			notes = excluded.notes,
			a_grade = excluded.a_grade`,
		t.ID, t.SessionID, t.Date.UTC(), t.Window, t.Direction.String(),
		t.EntryPrice, t.EntryTime.UTC(), t.StopLoss, t.TakeProfit,
		t.Outcome.String(), t.ExitPrice, exitTime, t.PnLPoints,
		t.Notes, t.AGrade, t.CreatedAt.UTC(),
	)
	return err
}

const tradeColumns = `id, session_id, date, time_window, direction, entry_price, entry_time,
	stop_loss, take_profit, outcome, exit_price, exit_time, pnl_points,
	notes, a_grade, created_at`

func scanTrade(row interface{ Scan(...any) error }) (*session.Trade, error) {
	var (
		t         session.Trade
		direction string
		out       string
		exitTime  sql.NullTime
	)
	err := row.Scan(&t.ID, &t.SessionID, &t.Date, &t.Window, &direction,
		&t.EntryPrice, &t.EntryTime, &t.StopLoss, &t.TakeProfit, &out,
		&t.ExitPrice, &exitTime, &t.PnLPoints, &t.Notes, &t.AGrade, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	d, err := outcome.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	t.Direction = d

	o, err := outcome.ParseOutcome(out)
	if err != nil {
		return nil, err
	}
	t.Outcome = o

	if exitTime.Valid {
		t.ExitTime = exitTime.Time.UTC()
	}
	t.Date = t.Date.UTC()
	t.EntryTime = t.EntryTime.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

// Trade loads one trade by id.
func (j *SQLite) Trade(ctx context.Context, id string) (*session.Trade, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	t, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trade %q: %w", id, ErrNotFound)
	}
	return t, err
}

// TradesBySession lists a session's trades in creation order.
func (j *SQLite) TradesBySession(ctx context.Context, sessionID string) ([]*session.Trade, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE session_id = ? ORDER BY created_at ASC, id ASC`,
		sessionID)
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
