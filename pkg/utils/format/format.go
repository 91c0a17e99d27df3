// Package format holds human-readable rendering helpers for statistics
// output, shared by the CLI and log lines.
package format

import (
	"fmt"
	"math"
)

// Count renders a large count in short form: 1234 -> "1.2K", 2500000 -> "2.5M".
//
// Counts below 1000 are rendered as plain integers.
func Count(n float64) string {
	abs := math.Abs(n)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.1fB", n/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", n/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", n/1e3)
	default:
		return fmt.Sprintf("%.0f", n)
	}
}

// Percent renders a ratio as a percentage with one decimal: 47.03 -> "47.0%".
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
