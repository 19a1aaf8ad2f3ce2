package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratlab/backsim/market"
)

func barsOf(closes ...float64) []market.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{Time: start.AddDate(0, 0, i), Close: c}
	}
	return bars
}

func TestNewSMACrossValidation(t *testing.T) {
	t.Parallel()

	_, err := NewSMACross(0, 3)
	assert.Error(t, err)

	_, err = NewSMACross(5, 3)
	assert.Error(t, err)

	s, err := NewSMACross(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "sma-cross", s.Name())
}

func TestSMACrossSignals(t *testing.T) {
	t.Parallel()

	s, err := NewSMACross(2, 3)
	require.NoError(t, err)

	signals, err := s.Signals(barsOf(10, 10, 10, 20, 20, 5, 5))
	require.NoError(t, err)
	require.Len(t, signals, 7)

	assert.Equal(t, market.Enter, signals[3]) // fast crosses above slow
	assert.Equal(t, market.Exit, signals[5])  // fast crosses back below

	for _, i := range []int{0, 1, 2, 4, 6} {
		assert.Equal(t, market.Hold, signals[i], "bar %d", i)
	}
}

func TestSMACrossDeterministic(t *testing.T) {
	t.Parallel()

	s, err := NewSMACross(2, 4)
	require.NoError(t, err)

	bars := barsOf(10, 11, 9, 13, 15, 8, 7, 12, 16, 14)
	a, err := s.Signals(bars)
	require.NoError(t, err)
	b, err := s.Signals(bars)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestByName(t *testing.T) {
	t.Parallel()

	s, err := ByName("noop", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "noop", s.Name())

	s, err = ByName("SMA-Cross", 5, 20)
	require.NoError(t, err)
	assert.Equal(t, "sma-cross", s.Name())

	_, err = ByName("martingale", 0, 0)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	Register(Noop{})
	assert.NotNil(t, Get("noop"))
	assert.Nil(t, Get("missing"))
}
