package backtest

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/stratlab/backsim/market"
)

// Simulator converts a signal-annotated price series into discrete trade
// executions in a single forward pass. It owns the account state and trade
// log for the duration of one run; runs are independent and deterministic.
type Simulator struct {
	cfg Config
	log *slog.Logger
}

// NewSimulator validates the configuration and returns a simulator.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest config: %w", err)
	}
	return &Simulator{cfg: cfg, log: slog.Default()}, nil
}

// SetLogger overrides the logger used for malformed-signal warnings.
func (s *Simulator) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
	}
}

// RunState is the output of a simulation pass: the ordered trade log, the
// final account (cash and any still-open position) and the signals that
// produced no trade.
type RunState struct {
	Trades  []Trade
	Account Account
	Skips   []Skip
}

// Run walks the series once, in time order. Per bar:
//
//   - signal 1 while flat: buy floor(budget/price) shares, where budget is
//     cash scaled by the bar's size hint (or the configured fraction).
//     Zero affordable shares is an insufficient-capital skip, not an error.
//   - signal -1 while positioned: sell the entire holding at this bar's
//     close, realizing profit against the entry price.
//   - anything else is a no-op; unmet preconditions and out-of-range
//     signal values are recorded as skips.
func (s *Simulator) Run(series *market.PriceSeries) *RunState {
	st := &RunState{
		Account: Account{Cash: s.cfg.Capital},
	}

	for i := 0; i < series.Len(); i++ {
		bar := series.Bar(i)
		sig := series.Signal(i)

		if !sig.Valid() {
			s.log.Warn("treating unrecognized signal as hold",
				"index", i, "time", bar.Time, "signal", int(sig))
			st.Skips = append(st.Skips, Skip{
				Index: i, Time: bar.Time, Signal: int(sig), Reason: SkipBadSignal,
			})
			continue
		}

		switch sig {
		case market.Enter:
			if st.Account.Position.Open() {
				st.Skips = append(st.Skips, Skip{
					Index: i, Time: bar.Time, Signal: int(sig), Reason: SkipAlreadyPositioned,
				})
				continue
			}
			s.buy(st, i, series)

		case market.Exit:
			if !st.Account.Position.Open() {
				st.Skips = append(st.Skips, Skip{
					Index: i, Time: bar.Time, Signal: int(sig), Reason: SkipNoPosition,
				})
				continue
			}
			s.sell(st, i, series)
		}
	}

	return st
}

func (s *Simulator) buy(st *RunState, i int, series *market.PriceSeries) {
	bar := series.Bar(i)
	price := roundTo(bar.Close, s.cfg.PriceDecimals)

	fraction := s.cfg.PositionFraction
	if hint := series.SizeHint(i); hint > 0 {
		fraction = hint
	}

	budget := st.Account.Cash * fraction
	shares := int64(math.Floor(budget / price))
	if shares == 0 {
		st.Skips = append(st.Skips, Skip{
			Index: i, Time: bar.Time, Signal: int(market.Enter), Reason: SkipInsufficientCapital,
		})
		return
	}

	value := float64(shares) * price
	cashBefore := st.Account.Cash
	equityBefore := st.Account.Equity(price)

	st.Account.Cash -= value
	st.Account.Position = Position{
		EntryPrice: price,
		Shares:     shares,
		EntryTime:  bar.Time,
	}

	st.Trades = append(st.Trades, Trade{
		Time:         bar.Time,
		Side:         Buy,
		Price:        price,
		Shares:       shares,
		Value:        value,
		CashBefore:   cashBefore,
		CashAfter:    st.Account.Cash,
		EquityBefore: equityBefore,
		EquityAfter:  st.Account.Equity(price),
	})
}

func (s *Simulator) sell(st *RunState, i int, series *market.PriceSeries) {
	bar := series.Bar(i)
	price := roundTo(bar.Close, s.cfg.PriceDecimals)
	pos := st.Account.Position

	proceeds := float64(pos.Shares) * price
	profit := proceeds - float64(pos.Shares)*pos.EntryPrice
	profitPct := (price - pos.EntryPrice) / pos.EntryPrice

	// Same-bar round trips still count as one day held.
	days := int(bar.Time.Sub(pos.EntryTime).Hours() / 24)
	if days < 1 {
		days = 1
	}

	cashBefore := st.Account.Cash
	equityBefore := st.Account.Equity(price)

	st.Account.Cash += proceeds
	st.Account.Position = Position{}

	st.Trades = append(st.Trades, Trade{
		Time:          bar.Time,
		Side:          Sell,
		Price:         price,
		Shares:        pos.Shares,
		Value:         proceeds,
		CashBefore:    cashBefore,
		CashAfter:     st.Account.Cash,
		EquityBefore:  equityBefore,
		EquityAfter:   st.Account.Cash,
		Profit:        profit,
		ProfitPercent: profitPct,
		HoldingDays:   days,
		EntryPrice:    pos.EntryPrice,
	})
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow10(decimals)
	return math.Round(v*pow) / pow
}
