package sheet

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Ready-made formatters for use with [RegisterFormatter]:
//
//	sheet.RegisterFormatter(r, sheet.Minutes)
//	sheet.RegisterFormatter(r, sheet.Thousands)

// Minutes renders a duration as whole minutes, e.g. "2min". Fractions are
// truncated.
func Minutes(d time.Duration) string {
	return fmt.Sprintf("%dmin", int64(d/time.Minute))
}

// Thousands renders an integer with comma thousands separators, e.g.
// "1,234,567".
func Thousands(n int64) string { return humanize.Comma(n) }

// ThousandsFloat is [Thousands] for floating point values.
func ThousandsFloat(f float64) string { return humanize.Commaf(f) }

// Bytes renders a byte count in SI units, e.g. "83 MB".
func Bytes(n uint64) string { return humanize.Bytes(n) }

// IBytes renders a byte count in IEC units, e.g. "79 MiB".
func IBytes(n uint64) string { return humanize.IBytes(n) }

// TimeLayout returns a formatter rendering times with layout.
func TimeLayout(layout string) func(time.Time) string {
	return func(t time.Time) string { return t.Format(layout) }
}
