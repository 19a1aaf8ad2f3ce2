package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads a bar series from a CSV file with rows of the form:
//
//	time,open,high,low,close,volume[,signal[,fraction]]
//
// where time is RFC3339 or RFC3339Nano. A single header row starting with
// "time" is allowed. Blank lines are skipped; anything else malformed is
// an error. Missing signal columns default to Hold.
func LoadCSV(path string) (*PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(rd io.Reader) (*PriceSeries, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1

	var (
		bars      []Bar
		signals   []Signal
		fractions []float64
		sawFirst  bool
		sawFrac   bool
	)

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row.
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		bar, sig, frac, err := parseBarRow(row)
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
		signals = append(signals, sig)
		fractions = append(fractions, frac)
		if frac != 0 {
			sawFrac = true
		}
	}

	if !sawFrac {
		fractions = nil
	}
	return NewSeriesSized(bars, signals, fractions)
}

func parseBarRow(row []string) (Bar, Signal, float64, error) {
	// Need at least: time,open,high,low,close,volume
	if len(row) < 6 {
		return Bar{}, 0, 0, fmt.Errorf("bad row (need at least 6 cols time,open,high,low,close,volume): %v", row)
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, ts)
		if err2 != nil {
			return Bar{}, 0, 0, fmt.Errorf("bad time %q: %w", ts, err)
		}
		t = t2
	}

	var vals [5]float64
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Bar{}, 0, 0, fmt.Errorf("bad %s %q: %w", names[i], row[i+1], err)
		}
		vals[i] = v
	}

	bar := Bar{
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}

	sig := Hold
	if len(row) > 6 && strings.TrimSpace(row[6]) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(row[6]))
		if err != nil {
			return Bar{}, 0, 0, fmt.Errorf("bad signal %q: %w", row[6], err)
		}
		sig = Signal(n)
	}

	frac := 0.0
	if len(row) > 7 && strings.TrimSpace(row[7]) != "" {
		frac, err = strconv.ParseFloat(strings.TrimSpace(row[7]), 64)
		if err != nil {
			return Bar{}, 0, 0, fmt.Errorf("bad fraction %q: %w", row[7], err)
		}
	}

	return bar, sig, frac, nil
}
