package backtest

import "fmt"

// Config holds every recognized simulation option in one place. The
// simulator takes no other knobs; per-bar size hints from the series can
// override PositionFraction for a single buy.
type Config struct {
	// Capital is the starting cash balance. Must be positive.
	Capital float64

	// PositionFraction is the fraction of available cash committed to a
	// buy when the series carries no per-bar hint. Must be in (0, 1].
	PositionFraction float64

	// PriceDecimals is the number of decimals transaction prices are
	// rounded to before any share or cash arithmetic.
	PriceDecimals int
}

// DefaultConfig returns the standard run options: full-cash buys and
// 2-decimal prices.
func DefaultConfig(capital float64) Config {
	return Config{
		Capital:          capital,
		PositionFraction: 1.0,
		PriceDecimals:    2,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Capital <= 0 {
		return fmt.Errorf("capital must be positive, got %v", c.Capital)
	}
	if c.PositionFraction <= 0 || c.PositionFraction > 1 {
		return fmt.Errorf("position_fraction must be in (0,1], got %v", c.PositionFraction)
	}
	if c.PriceDecimals < 0 {
		return fmt.Errorf("price_decimals must be non-negative, got %d", c.PriceDecimals)
	}
	return nil
}
