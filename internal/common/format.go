package common

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatMoney renders an amount with thousands separators and two decimals,
// e.g. 20000 -> "20,000.00".
func FormatMoney(amount float64) string {
	return humanize.FormatFloat("#,###.##", amount)
}

// FormatPercent renders a percentage with one decimal, e.g. 12.345 -> "12.3%".
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
