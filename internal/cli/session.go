package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"daxsim/session"
)

func newSessionCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Create and inspect practice sessions",
	}
	cmd.AddCommand(
		newSessionStartCmd(rc),
		newSessionShowCmd(rc),
		newSessionNextCmd(rc),
		newSessionStatsCmd(rc),
		newSessionListCmd(rc),
	)
	return cmd
}

func newSessionStartCmd(rc *RootConfig) *cobra.Command {
	var (
		fromStr  string
		toStr    string
		datesStr string
		window   string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a session over a date range or an explicit date list",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := context.Background()

			var dates []time.Time
			switch {
			case datesStr != "":
				for _, s := range strings.Split(datesStr, ",") {
					d, err := time.Parse(dateLayout, strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("bad --dates entry %q: %w", s, err)
					}
					dates = append(dates, d)
				}
			case fromStr != "" && toStr != "":
				from, err := time.Parse(dateLayout, fromStr)
				if err != nil {
					return fmt.Errorf("bad --from: %w", err)
				}
				to, err := time.Parse(dateLayout, toStr)
				if err != nil {
					return fmt.Errorf("bad --to: %w", err)
				}
				dates, err = a.sim.AvailableDates(from, to, window)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("provide --dates or --from/--to")
			}

			s, err := a.sim.StartSession(ctx, dates, window)
			if err != nil {
				return err
			}
			fmt.Printf("session %s started: %d dates, window %s\n", s.ID, len(s.Playlist), s.Window)
			printCurrent(s)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&datesStr, "dates", "", "Comma-separated explicit dates")
	cmd.Flags().StringVar(&window, "window", "morning_1", "Practice window key")

	return cmd
}

func newSessionShowCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session's position and counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.sim.Session(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("session %s  window %s  created %s\n",
				s.ID, s.Window, s.CreatedAt.Format(time.RFC3339))
			fmt.Printf("progress: %d/%d dates (%.0f%%)\n", s.Index, len(s.Playlist), s.Progress())
			fmt.Printf("trades: %d  wins %d  losses %d  expired %d\n",
				s.TotalTrades, s.Wins, s.Losses, s.Expired)
			fmt.Printf("win rate %.1f%%  total %+.2f points\n", s.WinRate(), s.TotalPnL)
			printCurrent(s)
			return nil
		},
	}
	return cmd
}

func newSessionNextCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next <session-id>",
		Short: "Advance a session to its next scenario date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := context.Background()

			s, err := a.sim.Session(ctx, args[0])
			if err != nil {
				return err
			}
			completed, err := a.sim.Advance(ctx, s)
			if err != nil {
				return err
			}
			if completed {
				fmt.Printf("session %s completed: %d trades, %.1f%% win rate, %+.2f points\n",
					s.ID, s.TotalTrades, s.WinRate(), s.TotalPnL)
				return nil
			}
			printCurrent(s)
			return nil
		},
	}
	return cmd
}

func newSessionStatsCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <session-id>",
		Short: "Full session report with per-direction breakdowns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.sim.Stats(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("session %s  window %s  completed %v\n", st.SessionID, st.Window, st.Completed)
			fmt.Printf("trades %d  wins %d  losses %d  expired %d\n",
				st.TotalTrades, st.Wins, st.Losses, st.Expired)
			fmt.Printf("win rate %.1f%%  total %+.2f  avg %+.2f points\n",
				st.WinRate, st.TotalPnL, st.AveragePnL)
			fmt.Printf("long:    %d trades, %.1f%% win rate\n", st.Long.Trades, st.Long.WinRate)
			fmt.Printf("short:   %d trades, %.1f%% win rate\n", st.Short.Trades, st.Short.WinRate)
			fmt.Printf("a-grade: %d trades, %.1f%% win rate\n", st.AGrade.Trades, st.AGrade.WinRate)
			if st.TotalTrades > 0 {
				fmt.Printf("best %+.2f  worst %+.2f points\n", st.BestTrade, st.WorstTrade)
			}
			return nil
		},
	}
	return cmd
}

func newSessionListCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := context.Background()

			ids, err := a.store.SessionIDs(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				s, err := a.store.Session(ctx, id)
				if err != nil {
					return err
				}
				state := "active"
				if s.Completed {
					state = "completed"
				}
				fmt.Printf("%s  %-12s %-9s %d/%d dates  %d trades\n",
					s.ID, s.Window, state, s.Index, len(s.Playlist), s.TotalTrades)
			}
			return nil
		},
	}
	return cmd
}

func printCurrent(s *session.Session) {
	if date, ok := s.CurrentDate(); ok {
		fmt.Printf("current date: %s (%s)\n", date.Format(dateLayout), date.Weekday())
	}
}
