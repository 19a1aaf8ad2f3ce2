package backtest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratlab/backsim/market"
)

func TestRunEndToEndLossScenario(t *testing.T) {
	t.Parallel()

	series := newSeries(t,
		[]float64{10, 12, 8, 15},
		[]market.Signal{market.Enter, market.Hold, market.Exit, market.Hold})

	res, err := Run(series, DefaultConfig(10000))
	require.NoError(t, err)

	require.Len(t, res.Trades, 2)
	require.Len(t, res.EquityCurve, 4)
	assert.Equal(t, 8000.0, res.FinalEquity)
	assert.InDelta(t, -0.20, res.Metrics.TotalReturn, 1e-12)
	assert.Equal(t, series.First().Time, res.Start)
	assert.Equal(t, series.Last().Time, res.End)
}

func TestRunNoSignalsProducesFlatCurve(t *testing.T) {
	t.Parallel()

	series := newSeries(t,
		[]float64{10, 20, 5, 40},
		[]market.Signal{market.Hold, market.Hold, market.Hold, market.Hold})

	res, err := Run(series, DefaultConfig(10000))
	require.NoError(t, err)

	assert.Empty(t, res.Trades)
	for _, p := range res.EquityCurve {
		assert.Equal(t, 10000.0, p.Equity)
	}
	assert.Equal(t, 0.0, res.Metrics.TotalReturn)
	assert.Equal(t, 0.0, res.Metrics.MaxDrawdown)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	series := newSeries(t,
		[]float64{10, 12, 8, 15, 9, 11},
		[]market.Signal{market.Enter, market.Hold, market.Exit, market.Enter, market.Hold, market.Exit})

	first, err := Run(series, DefaultConfig(10000))
	require.NoError(t, err)
	second, err := Run(series, DefaultConfig(10000))
	require.NoError(t, err)

	assert.Equal(t, first.Trades, second.Trades)
	assert.Equal(t, first.EquityCurve, second.EquityCurve)
	assert.Equal(t, first.Metrics, second.Metrics)
	assert.Equal(t, first.Skips, second.Skips)
}

func TestRunBuyFollowedBySellProfitIdentity(t *testing.T) {
	t.Parallel()

	series := newSeries(t,
		[]float64{10, 14},
		[]market.Signal{market.Enter, market.Exit})

	res, err := Run(series, DefaultConfig(10000))
	require.NoError(t, err)

	require.Len(t, res.Trades, 2)
	buy, sell := res.Trades[0], res.Trades[1]
	assert.Equal(t, float64(sell.Shares)*(sell.Price-buy.Price), sell.Profit)
}

func TestResultPrintIncludesDegenerateMarkers(t *testing.T) {
	t.Parallel()

	series := newSeries(t, []float64{5}, []market.Signal{market.Enter})

	res, err := Run(series, DefaultConfig(1000))
	require.NoError(t, err)

	var buf bytes.Buffer
	res.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Backtest Result")
	assert.Contains(t, out, "(undefined, defaulted)")

	buf.Reset()
	res.PrintTrades(&buf)
	assert.Contains(t, buf.String(), "BUY")
}
