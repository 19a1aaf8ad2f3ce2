package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratlab/backsim/market"
)

func dailyBars(t *testing.T, closes ...float64) []market.Bar {
	t.Helper()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func newSeries(t *testing.T, closes []float64, signals []market.Signal) *market.PriceSeries {
	t.Helper()

	s, err := market.NewSeries(dailyBars(t, closes...), signals)
	require.NoError(t, err)
	return s
}

func newSim(t *testing.T, capital float64) *Simulator {
	t.Helper()

	sim, err := NewSimulator(DefaultConfig(capital))
	require.NoError(t, err)
	return sim
}

func TestSimulatorBuyThenSellAtLoss(t *testing.T) {
	t.Parallel()

	series := newSeries(t,
		[]float64{10, 12, 8, 15},
		[]market.Signal{market.Enter, market.Hold, market.Exit, market.Hold})

	st := newSim(t, 10000).Run(series)

	require.Len(t, st.Trades, 2)

	buy := st.Trades[0]
	assert.Equal(t, Buy, buy.Side)
	assert.Equal(t, int64(1000), buy.Shares)
	assert.Equal(t, 10.0, buy.Price)
	assert.Equal(t, 10000.0, buy.CashBefore)
	assert.Equal(t, 0.0, buy.CashAfter)
	assert.Equal(t, 10000.0, buy.EquityAfter)

	sell := st.Trades[1]
	assert.Equal(t, Sell, sell.Side)
	assert.Equal(t, int64(1000), sell.Shares)
	assert.Equal(t, 8.0, sell.Price)
	assert.Equal(t, -2000.0, sell.Profit)
	assert.InDelta(t, -0.20, sell.ProfitPercent, 1e-12)
	assert.Equal(t, 2, sell.HoldingDays)
	assert.Equal(t, 10.0, sell.EntryPrice)
	assert.Equal(t, 8000.0, sell.CashAfter)
	assert.Equal(t, 8000.0, sell.EquityAfter)

	assert.False(t, st.Account.Position.Open())
	assert.Equal(t, 8000.0, st.Account.Cash)
	assert.Empty(t, st.Skips)
}

func TestSimulatorSingleBarOpenPosition(t *testing.T) {
	t.Parallel()

	series := newSeries(t, []float64{5}, []market.Signal{market.Enter})

	st := newSim(t, 1000).Run(series)

	require.Len(t, st.Trades, 1)
	assert.Equal(t, int64(200), st.Trades[0].Shares)
	assert.Equal(t, 0.0, st.Account.Cash)
	assert.True(t, st.Account.Position.Open())
	assert.Equal(t, 1000.0, st.Trades[0].EquityAfter)
}

func TestSimulatorSecondBuyIsNoOp(t *testing.T) {
	t.Parallel()

	series := newSeries(t, []float64{50, 50}, []market.Signal{market.Enter, market.Enter})

	st := newSim(t, 100).Run(series)

	require.Len(t, st.Trades, 1)
	require.Len(t, st.Skips, 1)
	assert.Equal(t, SkipAlreadyPositioned, st.Skips[0].Reason)
	assert.Equal(t, 1, st.Skips[0].Index)
}

func TestSimulatorSellWhileFlatIsNoOp(t *testing.T) {
	t.Parallel()

	series := newSeries(t, []float64{10, 11}, []market.Signal{market.Exit, market.Exit})

	st := newSim(t, 1000).Run(series)

	assert.Empty(t, st.Trades)
	assert.Equal(t, 1000.0, st.Account.Cash)
	require.Len(t, st.Skips, 2)
	assert.Equal(t, SkipNoPosition, st.Skips[0].Reason)
}

func TestSimulatorInsufficientCapitalSkips(t *testing.T) {
	t.Parallel()

	series := newSeries(t, []float64{500, 510}, []market.Signal{market.Enter, market.Hold})

	st := newSim(t, 100).Run(series)

	assert.Empty(t, st.Trades)
	require.Len(t, st.Skips, 1)
	assert.Equal(t, SkipInsufficientCapital, st.Skips[0].Reason)
	assert.Equal(t, 100.0, st.Account.Cash)
}

func TestSimulatorMalformedSignalTreatedAsHold(t *testing.T) {
	t.Parallel()

	series := newSeries(t, []float64{10, 10}, []market.Signal{market.Signal(7), market.Enter})

	st := newSim(t, 100).Run(series)

	require.Len(t, st.Trades, 1)
	assert.Equal(t, Buy, st.Trades[0].Side)
	require.Len(t, st.Skips, 1)
	assert.Equal(t, SkipBadSignal, st.Skips[0].Reason)
	assert.Equal(t, 7, st.Skips[0].Signal)
}

func TestSimulatorPositionFraction(t *testing.T) {
	t.Parallel()

	series := newSeries(t, []float64{10}, []market.Signal{market.Enter})

	cfg := DefaultConfig(1000)
	cfg.PositionFraction = 0.5
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)

	st := sim.Run(series)

	require.Len(t, st.Trades, 1)
	assert.Equal(t, int64(50), st.Trades[0].Shares)
	assert.Equal(t, 500.0, st.Account.Cash)
}

func TestSimulatorPerBarSizeHintOverridesConfig(t *testing.T) {
	t.Parallel()

	s, err := market.NewSeriesSized(
		dailyBars(t, 10, 10),
		[]market.Signal{market.Enter, market.Hold},
		[]float64{0.2, 0},
	)
	require.NoError(t, err)

	st := newSim(t, 1000).Run(s)

	require.Len(t, st.Trades, 1)
	assert.Equal(t, int64(20), st.Trades[0].Shares)
	assert.Equal(t, 800.0, st.Account.Cash)
}

func TestSimulatorRoundsTradePrices(t *testing.T) {
	t.Parallel()

	series := newSeries(t, []float64{10.004999}, []market.Signal{market.Enter})

	st := newSim(t, 1000).Run(series)

	require.Len(t, st.Trades, 1)
	assert.Equal(t, 10.0, st.Trades[0].Price)
}

func TestSimulatorSameDayRoundTripHoldsOneDay(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	bars := []market.Bar{
		{Time: base, Open: 10, High: 10, Low: 10, Close: 10, Volume: 1},
		{Time: base.Add(time.Hour), Open: 11, High: 11, Low: 11, Close: 11, Volume: 1},
	}
	series, err := market.NewSeries(bars, []market.Signal{market.Enter, market.Exit})
	require.NoError(t, err)

	st := newSim(t, 100).Run(series)

	require.Len(t, st.Trades, 2)
	assert.Equal(t, 1, st.Trades[1].HoldingDays)
}

func TestSimulatorRejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := NewSimulator(Config{Capital: 0, PositionFraction: 1, PriceDecimals: 2})
	assert.Error(t, err)

	_, err = NewSimulator(Config{Capital: 100, PositionFraction: 1.5, PriceDecimals: 2})
	assert.Error(t, err)

	_, err = NewSimulator(Config{Capital: 100, PositionFraction: 1, PriceDecimals: -1})
	assert.Error(t, err)
}
