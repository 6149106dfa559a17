// Package renderer turns engine results into markdown documents.
package renderer

import (
	"fmt"

	"github.com/etnz/worth"
)

// amount formats a float market value for table cells.
func amount(v float64) string { return fmt.Sprintf("%.2f", v) }

// signedAmount formats a float delta with an explicit sign, zero as "-".
func signedAmount(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.2f", v)
}

// dietzCell formats a Modified Dietz performance cell, "n/a" when the return
// is undefined for the key.
func dietzCell(d *worth.Dietz) string {
	if d == nil {
		return "n/a"
	}
	perf, ok := d.Performance()
	if !ok {
		return "n/a"
	}
	return perf.SignedString()
}

// title resolves a display title for a key, falling back to the key itself.
func title(key, t string) string {
	if t == "" {
		return key
	}
	return t
}
