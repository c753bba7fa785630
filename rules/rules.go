// Package rules holds the fixed strategy parameters: which weekdays may
// be traded and the stop/target distances applied to every trade. The
// distances are deliberately not user-editable; the whole point of the
// trainer is rehearsing one mechanical strategy.
package rules

import (
	"fmt"
	"time"
)

// WinRatePolicy decides whether expired trades count toward the
// win-rate denominator. Expired trades always count toward the trade
// total and total pnl either way.
type WinRatePolicy int

const (
	// ExcludeExpired divides wins by wins+losses only. Default.
	ExcludeExpired WinRatePolicy = iota
	// IncludeExpired divides wins by all finalized trades.
	IncludeExpired
)

// Rules is the process-wide strategy configuration. Construct with
// Default and pass it down; nothing in this package is a singleton.
type Rules struct {
	ValidWeekdays []time.Weekday
	StopPoints    float64
	RiskReward    float64
	WinRate       WinRatePolicy
	MaxPlaylist   int
}

// Default returns the German30 strategy rules: Monday/Thursday/Friday
// only, 18-point stop, 1:3 risk-reward (54-point target), at most 50
// dates per practice session.
func Default() Rules {
	return Rules{
		ValidWeekdays: []time.Weekday{time.Monday, time.Thursday, time.Friday},
		StopPoints:    18,
		RiskReward:    3,
		WinRate:       ExcludeExpired,
		MaxPlaylist:   50,
	}
}

// TargetPoints is the take-profit distance derived from the stop and
// the risk-reward multiple.
func (r Rules) TargetPoints() float64 {
	return r.StopPoints * r.RiskReward
}

// ValidDay reports whether the weekday is tradeable under these rules.
func (r Rules) ValidDay(d time.Weekday) bool {
	for _, w := range r.ValidWeekdays {
		if w == d {
			return true
		}
	}
	return false
}

// Validate checks the rules are usable.
func (r Rules) Validate() error {
	if len(r.ValidWeekdays) == 0 {
		return fmt.Errorf("rules: no valid weekdays configured")
	}
	if r.StopPoints <= 0 {
		return fmt.Errorf("rules: stop_points must be positive")
	}
	if r.RiskReward <= 0 {
		return fmt.Errorf("rules: risk_reward must be positive")
	}
	if r.MaxPlaylist <= 0 {
		return fmt.Errorf("rules: max_playlist must be positive")
	}
	return nil
}
