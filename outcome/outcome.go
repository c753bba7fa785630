// Package outcome decides, deterministically, how a trade ended: walk
// the bars after entry and find the first one whose range reaches the
// stop or the target.
package outcome

import (
	"errors"
	"fmt"
	"math"
	"time"

	"daxsim/market"
)

// ErrInvalidInput marks caller bugs: empty or unordered bar sequences,
// a bad direction, a non-finite entry price. Never retryable.
var ErrInvalidInput = errors.New("invalid input")

// Direction is the trade side. The numeric values double as the pnl
// sign: pnl = Direction * (exit - entry).
type Direction int8

const (
	Long  Direction = +1
	Short Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "long"
	case Short:
		return "short"
	}
	return fmt.Sprintf("direction(%d)", int8(d))
}

// ParseDirection converts "long"/"short" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "long":
		return Long, nil
	case "short":
		return Short, nil
	}
	return 0, fmt.Errorf("%w: direction %q", ErrInvalidInput, s)
}

// Outcome is the terminal state of a finalized trade.
type Outcome uint8

const (
	Pending Outcome = iota
	Win
	Loss
	// Expired means the bar sequence ran out before either level was
	// touched. A "ran out of data" terminal state, not a strategy
	// outcome.
	Expired
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Expired:
		return "expired"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// ParseOutcome converts a stored outcome label back to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "win":
		return Win, nil
	case "loss":
		return Loss, nil
	case "expired":
		return Expired, nil
	}
	return 0, fmt.Errorf("%w: outcome %q", ErrInvalidInput, s)
}

// Levels are the absolute stop and target prices for one trade.
type Levels struct {
	Stop   float64
	Target float64
}

// LevelsFor places the stop against the position and the target with
// it: long SL = entry - stop distance, TP = entry + target distance;
// mirrored for short.
func LevelsFor(d Direction, entry, stopPts, targetPts float64) Levels {
	return Levels{
		Stop:   entry - float64(d)*stopPts,
		Target: entry + float64(d)*targetPts,
	}
}

// Result is the evaluator's verdict.
type Result struct {
	Outcome   Outcome
	ExitPrice float64
	ExitTime  time.Time
	PnLPoints float64
}

// Evaluate scans barsAfterEntry in order and returns the first terminal
// state.
//
// Exit prices are the theoretical level hit, not the bar close, so a
// win is always exactly +target points and a loss exactly -stop points.
// If a single bar touches both levels the stop is deemed hit first:
// with no intra-bar path information we assume price moved against the
// position before reaching the favorable level. That pessimistic
// tie-break is policy, not an artifact of scan order.
//
// If no bar touches either level the trade expires at the last bar's
// close and the pnl is whatever the signed distance from entry happens
// to be.
func Evaluate(d Direction, entry float64, lv Levels, barsAfterEntry []market.Candle) (Result, error) {
	if d != Long && d != Short {
		return Result{}, fmt.Errorf("%w: direction %d", ErrInvalidInput, int8(d))
	}
	if entry <= 0 || math.IsNaN(entry) || math.IsInf(entry, 0) {
		return Result{}, fmt.Errorf("%w: entry price %v", ErrInvalidInput, entry)
	}
	if len(barsAfterEntry) == 0 {
		return Result{}, fmt.Errorf("%w: no bars after entry", ErrInvalidInput)
	}
	if err := market.Ordered(barsAfterEntry); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for _, c := range barsAfterEntry {
		var stopHit, targetHit bool
		switch d {
		case Long:
			stopHit = c.Low <= lv.Stop
			targetHit = c.High >= lv.Target
		case Short:
			stopHit = c.High >= lv.Stop
			targetHit = c.Low <= lv.Target
		}

		if stopHit {
			return Result{
				Outcome:   Loss,
				ExitPrice: lv.Stop,
				ExitTime:  c.Time,
				PnLPoints: float64(d) * (lv.Stop - entry),
			}, nil
		}
		if targetHit {
			return Result{
				Outcome:   Win,
				ExitPrice: lv.Target,
				ExitTime:  c.Time,
				PnLPoints: float64(d) * (lv.Target - entry),
			}, nil
		}
	}

	last := barsAfterEntry[len(barsAfterEntry)-1]
	return Result{
		Outcome:   Expired,
		ExitPrice: last.Close,
		ExitTime:  last.Time,
		PnLPoints: float64(d) * (last.Close - entry),
	}, nil
}
