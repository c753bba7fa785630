package practice

import (
	"context"

	"daxsim/outcome"
	"daxsim/rules"
	"daxsim/session"
)

// SideStats is the per-direction or per-grade breakdown.
type SideStats struct {
	Trades  int
	Wins    int
	Losses  int
	WinRate float64
}

// Stats is the full report for one session.
type Stats struct {
	SessionID   string
	Window      string
	TotalTrades int
	Wins        int
	Losses      int
	Expired     int
	WinRate     float64
	TotalPnL    float64
	AveragePnL  float64
	Progress    float64
	Completed   bool

	Long   SideStats
	Short  SideStats
	AGrade SideStats

	BestTrade  float64
	WorstTrade float64
}

// Stats loads a session and computes its report. Per-side win rates
// follow the same expired-trade policy as the session's overall rate.
func (sim *Simulator) Stats(ctx context.Context, sessionID string) (*Stats, error) {
	s, err := sim.store.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		SessionID:   s.ID,
		Window:      s.Window,
		TotalTrades: s.TotalTrades,
		Wins:        s.Wins,
		Losses:      s.Losses,
		Expired:     s.Expired,
		WinRate:     s.WinRate(),
		TotalPnL:    s.TotalPnL,
		AveragePnL:  s.AveragePnL(),
		Progress:    s.Progress(),
		Completed:   s.Completed,
	}

	policy := s.Policy()
	first := true
	for _, t := range s.Trades {
		if !t.Finalized() {
			continue
		}

		switch t.Direction {
		case outcome.Long:
			tally(&st.Long, t)
		case outcome.Short:
			tally(&st.Short, t)
		}
		if t.AGrade {
			tally(&st.AGrade, t)
		}

		if first || t.PnLPoints > st.BestTrade {
			st.BestTrade = t.PnLPoints
		}
		if first || t.PnLPoints < st.WorstTrade {
			st.WorstTrade = t.PnLPoints
		}
		first = false
	}

	finishRates(&st.Long, policy)
	finishRates(&st.Short, policy)
	finishRates(&st.AGrade, policy)
	return st, nil
}

func tally(side *SideStats, t *session.Trade) {
	side.Trades++
	switch t.Outcome {
	case outcome.Win:
		side.Wins++
	case outcome.Loss:
		side.Losses++
	}
}

func finishRates(side *SideStats, policy rules.WinRatePolicy) {
	den := side.Wins + side.Losses
	if policy == rules.IncludeExpired {
		den = side.Trades
	}
	if den > 0 {
		side.WinRate = float64(side.Wins) / float64(den) * 100
	}
}
