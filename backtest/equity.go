package backtest

import (
	"time"

	"github.com/stratlab/backsim/market"
)

// EquityPoint is the reconstructed total portfolio value at one bar:
// cash plus the mark-to-market value of any open position.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// BuildEquityCurve produces one point per bar, consistent with the trade
// log. A bar that carries a trade adopts that trade's recorded after-cash
// and after-equity (transaction price beats mark-to-market recomputation,
// so the curve matches the log exactly at every execution). Otherwise an
// open position is valued at the bar's close and a flat account is just
// cash. An open position at series end stays marked to the final close.
func BuildEquityCurve(series *market.PriceSeries, trades []Trade, capital float64) []EquityPoint {
	curve := make([]EquityPoint, 0, series.Len())

	cash := capital
	var pos Position
	next := 0 // index of the next unconsumed trade

	for i := 0; i < series.Len(); i++ {
		bar := series.Bar(i)

		if next < len(trades) && trades[next].Time.Equal(bar.Time) {
			tr := trades[next]
			next++

			cash = tr.CashAfter
			if tr.Side == Buy {
				pos = Position{EntryPrice: tr.Price, Shares: tr.Shares, EntryTime: tr.Time}
			} else {
				pos = Position{}
			}

			curve = append(curve, EquityPoint{Time: bar.Time, Equity: tr.EquityAfter})
			continue
		}

		eq := cash
		if pos.Open() {
			eq = cash + float64(pos.Shares)*bar.Close
		}
		curve = append(curve, EquityPoint{Time: bar.Time, Equity: eq})
	}

	return curve
}
