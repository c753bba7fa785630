package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"daxsim/calendar"
)

const dateLayout = "2006-01-02"

func newDatesCmd(rc *RootConfig) *cobra.Command {
	var (
		fromStr string
		toStr   string
		window  string
	)

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List valid practice dates in a range",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse(dateLayout, fromStr)
			if err != nil {
				return fmt.Errorf("bad --from: %w", err)
			}
			to, err := time.Parse(dateLayout, toStr)
			if err != nil {
				return fmt.Errorf("bad --to: %w", err)
			}
			if to.Before(from) {
				return fmt.Errorf("--from must not be after --to")
			}

			a, err := newApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()

			dates, err := a.sim.AvailableDates(from, to, window)
			if err != nil {
				return err
			}
			if len(dates) == 0 {
				fmt.Println("no valid dates in range")
				return nil
			}
			for _, d := range dates {
				fmt.Printf("%s  %s\n", d.Format(dateLayout), d.Weekday())
			}
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

func newWindowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "windows",
		Short: "List the practice time windows",
		Run: func(cmd *cobra.Command, args []string) {
			for _, w := range calendar.Windows() {
				fmt.Printf("%-12s %s\n", w.Key, w.Label)
			}
		},
	}
}
