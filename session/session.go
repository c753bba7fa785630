// Package session tracks one practice run: an ordered playlist of
// scenario dates, the trader's position in it, and the running
// aggregate counters.
package session

import (
	"errors"
	"fmt"
	"time"

	"daxsim/outcome"
	"daxsim/rules"
)

var (
	// ErrSessionCompleted rejects mutations against a completed session.
	ErrSessionCompleted = errors.New("session completed")
	// ErrTradePending rejects recording a trade the evaluator has not
	// finalized yet.
	ErrTradePending = errors.New("trade not finalized")
)

// Session is owned by one logical actor at a time; it carries no
// internal locking. A hosting system with concurrent writers must
// serialize access per session id.
type Session struct {
	ID       string
	Window   string
	Playlist []time.Time
	Index    int

	Trades []*Trade

	TotalTrades int
	Wins        int
	Losses      int
	Expired     int
	TotalPnL    float64

	Completed bool
	CreatedAt time.Time

	policy rules.WinRatePolicy
}

// New creates an active session positioned at the first playlist date.
func New(id, window string, playlist []time.Time, policy rules.WinRatePolicy, createdAt time.Time) (*Session, error) {
	if len(playlist) == 0 {
		return nil, fmt.Errorf("%w: empty playlist", outcome.ErrInvalidInput)
	}
	return &Session{
		ID:        id,
		Window:    window,
		Playlist:  append([]time.Time(nil), playlist...),
		CreatedAt: createdAt,
		policy:    policy,
	}, nil
}

// Restore rebuilds a session from persisted fields without validation
// of the playlist length; used by storage only.
func Restore(id, window string, playlist []time.Time, index int, completed bool, policy rules.WinRatePolicy, createdAt time.Time) *Session {
	return &Session{
		ID:        id,
		Window:    window,
		Playlist:  playlist,
		Index:     index,
		Completed: completed,
		CreatedAt: createdAt,
		policy:    policy,
	}
}

// Policy returns the win-rate policy the session was created with.
func (s *Session) Policy() rules.WinRatePolicy {
	return s.policy
}

// CurrentDate returns the playlist date the session is positioned at,
// or false once completed.
func (s *Session) CurrentDate() (time.Time, bool) {
	if s.Completed || s.Index >= len(s.Playlist) {
		return time.Time{}, false
	}
	return s.Playlist[s.Index], true
}

// Advance moves to the next playlist date and reports whether the
// session is now completed. Once completed it stays completed and
// further calls change nothing.
func (s *Session) Advance() bool {
	if s.Completed {
		return true
	}
	s.Index++
	if s.Index >= len(s.Playlist) {
		s.Index = len(s.Playlist)
		s.Completed = true
	}
	return s.Completed
}

// RecordTrade adds a finalized trade and updates the aggregate
// counters. Expired trades count toward the total and the pnl but are
// tracked separately for the win rate. Rejected without side effects if
// the session is completed or the trade is still pending.
func (s *Session) RecordTrade(t *Trade) error {
	if s.Completed {
		return fmt.Errorf("%w: session %s", ErrSessionCompleted, s.ID)
	}
	if !t.Finalized() {
		return fmt.Errorf("%w: trade %s", ErrTradePending, t.ID)
	}

	// A store-loaded session already carries the pending copy of this
	// trade; replace it rather than holding both.
	replaced := false
	for i, prev := range s.Trades {
		if prev.ID == t.ID {
			s.Trades[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		s.Trades = append(s.Trades, t)
	}
	s.TotalTrades++
	switch t.Outcome {
	case outcome.Win:
		s.Wins++
	case outcome.Loss:
		s.Losses++
	case outcome.Expired:
		s.Expired++
	}
	s.TotalPnL += t.PnLPoints
	return nil
}

// WinRate returns the win percentage under the configured policy: by
// default expired trades are excluded from the denominator.
func (s *Session) WinRate() float64 {
	den := s.Wins + s.Losses
	if s.policy == rules.IncludeExpired {
		den = s.TotalTrades
	}
	if den == 0 {
		return 0
	}
	return float64(s.Wins) / float64(den) * 100
}

// AveragePnL is the mean pnl per recorded trade, in points.
func (s *Session) AveragePnL() float64 {
	if s.TotalTrades == 0 {
		return 0
	}
	return s.TotalPnL / float64(s.TotalTrades)
}

// Progress is how far through the playlist the session is, 0-100.
func (s *Session) Progress() float64 {
	if len(s.Playlist) == 0 {
		return 0
	}
	return float64(s.Index) / float64(len(s.Playlist)) * 100
}
