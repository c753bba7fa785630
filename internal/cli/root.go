// Package cli wires the cobra command tree for the daxsim binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootConfig carries the persistent flags shared by every subcommand.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "daxsim",
		Short:         "daxsim — DAX replay practice: sessions, trades, stats",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite journal database (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")

	cmd.AddCommand(
		newDatesCmd(rc),
		newWindowsCmd(),
		newSessionCmd(rc),
		newTradeCmd(rc),
		newExportCmd(rc),
		newFetchCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("daxsim (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
