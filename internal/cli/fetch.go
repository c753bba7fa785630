package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"daxsim/market"
)

func newFetchCmd(rc *RootConfig) *cobra.Command {
	var (
		fromStr string
		toStr   string
		window  string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Prefetch candle data for the valid dates in a range",
		Long: `Fetch pulls all timeframes for every valid practice date in the
range through the provider chain, warming the candle cache so later
sessions work offline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse(dateLayout, fromStr)
			if err != nil {
				return fmt.Errorf("bad --from: %w", err)
			}
			to, err := time.Parse(dateLayout, toStr)
			if err != nil {
				return fmt.Errorf("bad --to: %w", err)
			}

			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := context.Background()

			dates, err := a.sim.AvailableDates(from, to, window)
			if err != nil {
				return err
			}

			var fetched, missing int
			for _, d := range dates {
				ok := true
				for _, tf := range market.Timeframes {
					if _, err := a.bars.Bars(ctx, a.cfg.Symbol, d, tf); err != nil {
						a.log.Warnf("no %s data for %s: %v", tf, d.Format(dateLayout), err)
						ok = false
						break
					}
				}
				if ok {
					fetched++
				} else {
					missing++
				}
			}
			fmt.Printf("fetched %d dates, %d without data\n", fetched, missing)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&window, "window", "morning_1", "Practice window key")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}
