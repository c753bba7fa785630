package session

import (
	"errors"
	"fmt"
	"math"
	"time"

	"daxsim/outcome"
	"daxsim/rules"
)

// ErrTradeFinalized is returned when finalizing a trade twice. A trade
// is mutated exactly once, by the evaluator's result.
var ErrTradeFinalized = errors.New("trade already finalized")

// Trade is one simulated entry inside a practice session. It starts
// pending and is finalized once with the evaluator's verdict; after
// that it is read-only.
type Trade struct {
	ID        string
	SessionID string
	Date      time.Time // scenario date the trade belongs to
	Window    string

	Direction  outcome.Direction
	EntryPrice float64
	EntryTime  time.Time
	StopLoss   float64
	TakeProfit float64

	Outcome   outcome.Outcome
	ExitPrice float64
	ExitTime  time.Time
	PnLPoints float64

	Notes  string
	AGrade bool // trader's own checklist flag, not validated here

	CreatedAt time.Time
}

// NewTrade creates a pending trade with stop and target placed from the
// strategy rules.
func NewTrade(id, sessionID string, date time.Time, window string, d outcome.Direction, entryPrice float64, entryTime time.Time, r rules.Rules) (*Trade, error) {
	if d != outcome.Long && d != outcome.Short {
		return nil, fmt.Errorf("%w: direction %d", outcome.ErrInvalidInput, int8(d))
	}
	if entryPrice <= 0 || math.IsNaN(entryPrice) || math.IsInf(entryPrice, 0) {
		return nil, fmt.Errorf("%w: entry price %v", outcome.ErrInvalidInput, entryPrice)
	}

	lv := outcome.LevelsFor(d, entryPrice, r.StopPoints, r.TargetPoints())
	return &Trade{
		ID:         id,
		SessionID:  sessionID,
		Date:       date,
		Window:     window,
		Direction:  d,
		EntryPrice: entryPrice,
		EntryTime:  entryTime,
		StopLoss:   lv.Stop,
		TakeProfit: lv.Target,
		Outcome:    outcome.Pending,
		CreatedAt:  entryTime,
	}, nil
}

// Levels returns the trade's absolute stop/target prices.
func (t *Trade) Levels() outcome.Levels {
	return outcome.Levels{Stop: t.StopLoss, Target: t.TakeProfit}
}

// Finalize applies the evaluator's result. All-or-nothing: a second
// call fails and leaves the trade unchanged.
func (t *Trade) Finalize(res outcome.Result) error {
	if t.Outcome != outcome.Pending {
		return fmt.Errorf("%w: trade %s is %s", ErrTradeFinalized, t.ID, t.Outcome)
	}
	if res.Outcome == outcome.Pending {
		return fmt.Errorf("%w: cannot finalize trade %s as pending", outcome.ErrInvalidInput, t.ID)
	}
	t.Outcome = res.Outcome
	t.ExitPrice = res.ExitPrice
	t.ExitTime = res.ExitTime
	t.PnLPoints = res.PnLPoints
	return nil
}

// Finalized reports whether the trade has left the pending state.
func (t *Trade) Finalized() bool {
	return t.Outcome != outcome.Pending
}

// Duration is the time between entry and exit, zero while pending.
func (t *Trade) Duration() time.Duration {
	if !t.Finalized() {
		return 0
	}
	return t.ExitTime.Sub(t.EntryTime)
}
