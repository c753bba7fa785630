package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"daxsim/journal"
	"daxsim/session"
)

func newExportCmd(rc *RootConfig) *cobra.Command {
	var (
		sessionID string
		fromStr   string
		toStr     string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trades as CSV, by session or by exit-time range",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := context.Background()

			var trades []*session.Trade
			switch {
			case sessionID != "":
				trades, err = a.store.TradesBySession(ctx, sessionID)
			case fromStr != "" && toStr != "":
				var from, to time.Time
				from, err = time.Parse(dateLayout, fromStr)
				if err != nil {
					return fmt.Errorf("bad --from: %w", err)
				}
				to, err = time.Parse(dateLayout, toStr)
				if err != nil {
					return fmt.Errorf("bad --to: %w", err)
				}
				trades, err = a.store.TradesClosedBetween(ctx, from, to.AddDate(0, 0, 1))
			default:
				return fmt.Errorf("provide --session or --from/--to")
			}
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" {
				out, err = os.Create(outPath)
				if err != nil {
					return err
				}
				defer out.Close()
			}
			if err := journal.WriteTradesCSV(out, trades); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Printf("wrote %d trades to %s\n", len(trades), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id")
	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default stdout)")

	return cmd
}
