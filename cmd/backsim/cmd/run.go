package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratlab/backsim/backtest"
	"github.com/stratlab/backsim/config"
	"github.com/stratlab/backsim/journal"
	"github.com/stratlab/backsim/market"
	"github.com/stratlab/backsim/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest over a CSV bar series",
	Long: `Run loads an OHLCV CSV (time,open,high,low,close,volume[,signal[,fraction]]),
obtains a signal column (embedded in the file or generated by a strategy),
simulates the trades and prints the performance report.

Example:
  backsim run --data bars.csv --capital 10000
  backsim run --data bars.csv --strategy sma-cross --fast 10 --slow 30 --db runs.sqlite`,
}

var (
	runConfigPath string
	runDataPath   string
	runStrategy   string
	runFast       int
	runSlow       int
	runCapital    float64
	runFraction   float64
	runDecimals   int
	runDBPath     string
	runTradesCSV  string
	runEquityCSV  string
	runShowTrades bool
)

func init() {
	runCmd.RunE = runRun
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to YAML/JSON config file")
	runCmd.Flags().StringVarP(&runDataPath, "data", "d", "", "path to bar CSV (time,open,high,low,close,volume[,signal[,fraction]])")
	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "embedded", "signal source (embedded, noop, sma-cross)")
	runCmd.Flags().IntVar(&runFast, "fast", 10, "sma-cross: fast SMA period")
	runCmd.Flags().IntVar(&runSlow, "slow", 30, "sma-cross: slow SMA period")
	runCmd.Flags().Float64VarP(&runCapital, "capital", "b", 100_000, "starting capital")
	runCmd.Flags().Float64Var(&runFraction, "fraction", 1.0, "fraction of cash committed per buy (0,1]")
	runCmd.Flags().IntVar(&runDecimals, "decimals", 2, "price rounding decimals")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "journal runs to this SQLite database")
	runCmd.Flags().StringVar(&runTradesCSV, "trades-csv", "", "journal trades to this CSV file")
	runCmd.Flags().StringVar(&runEquityCSV, "equity-csv", "", "journal equity curve to this CSV file")
	runCmd.Flags().BoolVar(&runShowTrades, "show-trades", false, "print the full trade log")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}

	series, err := market.LoadCSV(cfg.Data.Path)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	if cfg.Strategy.Name != "embedded" {
		series, err = applyStrategy(series, cfg.Strategy)
		if err != nil {
			return err
		}
	}

	res, err := backtest.Run(series, backtest.Config{
		Capital:          cfg.Account.Capital,
		PositionFraction: cfg.Sizing.PositionFraction,
		PriceDecimals:    cfg.Sizing.PriceDecimals,
	})
	if err != nil {
		return err
	}

	res.Print(os.Stdout)
	if runShowTrades {
		res.PrintTrades(os.Stdout)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		runID, err := journal.RecordResult(j, res, cfg.Strategy.Name, cfg.Data.Path)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		fmt.Printf("Journaled run %s\n", runID)
	}

	return nil
}

// effectiveConfig merges the optional config file with command-line flags;
// explicit flags win.
func effectiveConfig() (*config.Config, error) {
	var cfg *config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if runDataPath != "" {
		cfg.Data.Path = runDataPath
	}

	f := runCmd.Flags()
	if f.Changed("strategy") {
		cfg.Strategy.Name = runStrategy
	}
	if f.Changed("fast") {
		cfg.Strategy.Fast = runFast
	}
	if f.Changed("slow") {
		cfg.Strategy.Slow = runSlow
	}
	if f.Changed("capital") {
		cfg.Account.Capital = runCapital
	}
	if f.Changed("fraction") {
		cfg.Sizing.PositionFraction = runFraction
	}
	if f.Changed("decimals") {
		cfg.Sizing.PriceDecimals = runDecimals
	}
	if f.Changed("db") {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = runDBPath
	}
	if f.Changed("trades-csv") || f.Changed("equity-csv") {
		cfg.Journal.Type = "csv"
		cfg.Journal.TradesFile = runTradesCSV
		cfg.Journal.EquityFile = runEquityCSV
	}

	if cfg.Strategy.Fast == 0 {
		cfg.Strategy.Fast = runFast
	}
	if cfg.Strategy.Slow == 0 {
		cfg.Strategy.Slow = runSlow
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyStrategy(series *market.PriceSeries, sc config.StrategyConfig) (*market.PriceSeries, error) {
	sig, err := strategies.ByName(sc.Name, sc.Fast, sc.Slow)
	if err != nil {
		return nil, err
	}

	bars := make([]market.Bar, series.Len())
	fractions := make([]float64, series.Len())
	anyFraction := false
	for i := range bars {
		bars[i] = series.Bar(i)
		fractions[i] = series.SizeHint(i)
		if fractions[i] != 0 {
			anyFraction = true
		}
	}

	signals, err := sig.Signals(bars)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", sig.Name(), err)
	}

	if !anyFraction {
		fractions = nil
	}
	return market.NewSeriesSized(bars, signals, fractions)
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return nil, nil
	case "sqlite":
		j, err := journal.NewSQLite(jc.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open journal db: %w", err)
		}
		return j, nil
	case "csv":
		j, err := journal.NewCSV(jc.TradesFile, jc.EquityFile)
		if err != nil {
			return nil, fmt.Errorf("open journal csv: %w", err)
		}
		return j, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", jc.Type)
}
