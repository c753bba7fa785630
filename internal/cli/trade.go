package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"daxsim/calendar"
	"daxsim/outcome"
	"daxsim/session"
)

func newTradeCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Enter and resolve practice trades",
	}
	cmd.AddCommand(
		newTradeEnterCmd(rc),
		newTradeResolveCmd(rc),
		newTradeListCmd(rc),
	)
	return cmd
}

func newTradeEnterCmd(rc *RootConfig) *cobra.Command {
	var (
		sessionID string
		dirStr    string
		price     float64
		timeStr   string
		notes     string
		aGrade    bool
	)

	cmd := &cobra.Command{
		Use:   "enter",
		Short: "Enter a trade on the session's current scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := outcome.ParseDirection(dirStr)
			if err != nil {
				return err
			}

			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := context.Background()

			s, err := a.sim.Session(ctx, sessionID)
			if err != nil {
				return err
			}
			date, ok := s.CurrentDate()
			if !ok {
				return fmt.Errorf("%w: session %s", session.ErrSessionCompleted, s.ID)
			}

			entry, err := parseEntryTime(timeStr, date)
			if err != nil {
				return err
			}

			t, err := a.sim.EnterTrade(ctx, s, d, price, entry, notes, aGrade)
			if err != nil {
				return err
			}
			fmt.Printf("trade %s: %s @ %.2f  SL %.2f  TP %.2f\n",
				t.ID, t.Direction, t.EntryPrice, t.StopLoss, t.TakeProfit)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id")
	cmd.Flags().StringVar(&dirStr, "direction", "", "long or short")
	cmd.Flags().Float64Var(&price, "price", 0, "Entry price")
	cmd.Flags().StringVar(&timeStr, "time", "", "Entry time: HH:MM London clock, or RFC3339")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form trade notes")
	cmd.Flags().BoolVar(&aGrade, "a-grade", false, "Mark the setup as A-grade")
	cmd.MarkFlagRequired("session")
	cmd.MarkFlagRequired("direction")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("time")

	return cmd
}

// parseEntryTime accepts a bare London wall-clock time on the scenario
// date, or a full RFC3339 instant.
func parseEntryTime(s string, date time.Time) (time.Time, error) {
	if hm, err := time.Parse("15:04", s); err == nil {
		return calendar.At(date, hm.Hour(), hm.Minute()), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad --time %q: want HH:MM or RFC3339", s)
	}
	return t.UTC(), nil
}

func newTradeResolveCmd(rc *RootConfig) *cobra.Command {
	var (
		sessionID string
		tradeID   string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Replay the bars after entry and settle a pending trade",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := context.Background()

			s, err := a.sim.Session(ctx, sessionID)
			if err != nil {
				return err
			}
			t, err := a.store.Trade(ctx, tradeID)
			if err != nil {
				return err
			}

			res, err := a.sim.ResolveTrade(ctx, s, t)
			if err != nil {
				return err
			}
			if res.Outcome == outcome.Pending {
				fmt.Printf("trade %s still pending: no bars after entry yet\n", t.ID)
				return nil
			}
			fmt.Printf("trade %s: %s  exit %.2f @ %s  %+.2f points\n",
				t.ID, res.Outcome, res.ExitPrice, res.ExitTime.Format(time.RFC3339), res.PnLPoints)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id")
	cmd.Flags().StringVar(&tradeID, "trade", "", "Trade id")
	cmd.MarkFlagRequired("session")
	cmd.MarkFlagRequired("trade")

	return cmd
}

func newTradeListCmd(rc *RootConfig) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a session's trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()

			trades, err := a.store.TradesBySession(context.Background(), sessionID)
			if err != nil {
				return err
			}
			for _, t := range trades {
				grade := " "
				if t.AGrade {
					grade = "A"
				}
				fmt.Printf("%s  %s %-5s %s @ %.2f  %-7s %+.2f %s\n",
					t.ID, t.Date.Format(dateLayout), t.Direction, grade,
					t.EntryPrice, t.Outcome, t.PnLPoints, t.Notes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id")
	cmd.MarkFlagRequired("session")

	return cmd
}
