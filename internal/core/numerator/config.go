// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"fmt"
	"time"
)

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "ORD", "SAL")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: false,
		PadWidth:    5,
	}
}

// SequenceKey returns the sequence identity for this configuration.
// Numbers reset per year only when the year is part of the key.
func (c Config) SequenceKey(period time.Time) string {
	if c.IncludeYear {
		return fmt.Sprintf("%s-%d", c.Prefix, period.Year())
	}
	return c.Prefix
}

// FormatNumber renders a counter value as a document number.
// Pattern: PREFIX-XXXXX or PREFIX-YEAR-XXXXX.
func (c Config) FormatNumber(period time.Time, value int64) string {
	pad := c.PadWidth
	if pad <= 0 {
		pad = 5
	}
	if c.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", c.Prefix, period.Year(), pad, value)
	}
	return fmt.Sprintf("%s-%0*d", c.Prefix, pad, value)
}
