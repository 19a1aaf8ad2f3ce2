package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratlab/backsim/journal"
)

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "List journaled runs or show one run in detail",
	Long: `Report reads the SQLite journal. Without arguments it lists all runs,
most recent first. With a run ID it prints that run's summary and trade log.

Example:
  backsim report --db runs.sqlite
  backsim report --db runs.sqlite 01JF8PXN1LZ41K9Q9QZJ4T3SBV`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var reportDBPath string

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDBPath, "db", "./runs.sqlite", "path to SQLite journal DB")
}

func runReport(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(reportDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	if len(args) == 0 {
		return listRuns(j)
	}
	return showRun(j, args[0])
}

func listRuns(j *journal.SQLiteJournal) error {
	runs, err := j.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no journaled runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCREATED\tSTRATEGY\tDATASET\tTRADES\tRETURN\tSHARPE\tMAX DD")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f%%\t%.2f\t%.2f%%\n",
			r.RunID,
			r.Created.Format("2006-01-02 15:04"),
			r.Strategy,
			r.Dataset,
			r.Trades,
			r.TotalReturn*100,
			r.SharpeRatio,
			r.MaxDrawdown*100,
		)
	}
	return w.Flush()
}

func showRun(j *journal.SQLiteJournal, runID string) error {
	r, err := j.GetRun(runID)
	if err != nil {
		return err
	}

	fmt.Println("==================================================")
	fmt.Println(" Backtest Run")
	fmt.Println("==================================================")
	fmt.Printf("Run ID:        %s\n", r.RunID)
	fmt.Printf("Created:       %s\n", r.Created.Format(time.RFC3339))
	fmt.Printf("Strategy:      %s\n", r.Strategy)
	fmt.Printf("Dataset:       %s\n", r.Dataset)
	fmt.Printf("Period:        %s -> %s\n", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	fmt.Println()
	fmt.Printf("Start Capital: %.2f\n", r.Capital)
	fmt.Printf("Final Equity:  %.2f\n", r.FinalEquity)
	fmt.Printf("Total Return:  %.2f%%\n", r.TotalReturn*100)
	fmt.Printf("Annual Return: %.2f%%\n", r.AnnualReturn*100)
	fmt.Printf("Sharpe Ratio:  %.2f\n", r.SharpeRatio)
	fmt.Printf("Max Drawdown:  %.2f%%\n", r.MaxDrawdown*100)
	fmt.Printf("Win Rate:      %.2f%%\n", r.WinRate*100)
	fmt.Printf("Profit Factor: %.2f\n", r.ProfitFactor)
	fmt.Println()
	fmt.Printf("Trades:        %d (%d wins / %d losses, %d skips)\n", r.Trades, r.Wins, r.Losses, r.Skips)

	trades, err := j.ListTradesByRun(runID)
	if err != nil {
		return err
	}
	for i, t := range trades {
		if t.Side == "SELL" {
			fmt.Printf("#%d | %s | %s %d @ %.2f | P&L %.2f (%.2f%%) | held %dd\n",
				i+1, t.Time.Format("2006-01-02 15:04"), t.Side, t.Shares, t.Price,
				t.Profit, t.ProfitPercent*100, t.HoldingDays)
		} else {
			fmt.Printf("#%d | %s | %s %d @ %.2f | cash %.2f -> %.2f\n",
				i+1, t.Time.Format("2006-01-02 15:04"), t.Side, t.Shares, t.Price,
				t.CashBefore, t.CashAfter)
		}
	}

	return nil
}
