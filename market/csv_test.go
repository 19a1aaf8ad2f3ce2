package market

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVWithHeaderAndSignals(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"time,open,high,low,close,volume,signal",
		"2024-01-01T00:00:00Z,10,10.5,9.5,10,1000,1",
		"2024-01-02T00:00:00Z,10,12.5,9.9,12,1100,0",
		"2024-01-03T00:00:00Z,12,12.1,7.8,8,900,-1",
	}, "\n")

	s, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, Enter, s.Signal(0))
	assert.Equal(t, Hold, s.Signal(1))
	assert.Equal(t, Exit, s.Signal(2))
	assert.Equal(t, 8.0, s.Bar(2).Close)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), s.Bar(1).Time)
	assert.Equal(t, 0.0, s.SizeHint(0))
}

func TestReadCSVNoHeaderNoSignals(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"2024-01-01T00:00:00Z,10,10.5,9.5,10,1000",
		"2024-01-02T00:00:00Z,10,12.5,9.9,12,1100",
	}, "\n")

	s, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, Hold, s.Signal(0))
	assert.Equal(t, Hold, s.Signal(1))
}

func TestReadCSVFractionColumn(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"time,open,high,low,close,volume,signal,fraction",
		"2024-01-01T00:00:00Z,10,10.5,9.5,10,1000,1,0.25",
		"2024-01-02T00:00:00Z,10,12.5,9.9,12,1100,-1,",
	}, "\n")

	s, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 0.25, s.SizeHint(0))
	assert.Equal(t, 0.0, s.SizeHint(1))
}

func TestReadCSVBadRows(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"short row":  "2024-01-01T00:00:00Z,10,10,10,10",
		"bad time":   "yesterday,10,10,10,10,1000",
		"bad close":  "2024-01-01T00:00:00Z,10,10,10,ten,1000",
		"bad signal": "2024-01-01T00:00:00Z,10,10,10,10,1000,maybe",
	}

	for name, row := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(row))
			assert.Error(t, err)
		})
	}
}

func TestReadCSVEmptyInputIsInvalidSeries(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader("time,open,high,low,close,volume\n"))
	assert.ErrorIs(t, err, ErrInvalidSeries)
}
