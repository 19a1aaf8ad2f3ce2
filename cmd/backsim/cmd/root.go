package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backsim",
	Short: "A single-instrument, long-only backtest engine",
	Long: `Backsim replays a signal-annotated OHLCV series through a cash-account
simulator and reports the resulting trades, equity curve and performance
statistics.

It provides tools for:
  - Running backtests from CSV bar data with embedded or generated signals
  - Computing returns, Sharpe ratio, drawdown, win rate and profit factor
  - Journaling runs, trade logs and equity curves to SQLite or CSV
  - Reviewing past runs`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
