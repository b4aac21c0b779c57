package render

import "fmt"

// BytesToGB converts bytes to gigabytes (base 10).
func BytesToGB(b float64) float64 {
	return b / 1e9
}

// CentsToDollars converts cents to dollars.
func CentsToDollars(c float64) float64 {
	return c / 100
}

// FormatStorage renders a size in gigabytes with two decimals, switching to
// TB or PB so the value stays below 1000 (base 10).
func FormatStorage(gb float64) (value, unit string) {
	switch {
	case gb < 1e3:
		return fmt.Sprintf("%.2f", gb), "GB"
	case gb < 1e6:
		return fmt.Sprintf("%.2f", gb/1e3), "TB"
	default:
		return fmt.Sprintf("%.2f", gb/1e6), "PB"
	}
}

// formatDollars renders an amount in cents as dollars with two decimals.
func formatDollars(cents float64) string {
	return fmt.Sprintf("%.2f", CentsToDollars(cents))
}

// share returns the integer width of part within a bar of width total.
// Zero when whole is not positive.
func share(part, whole float64, total int) int {
	if whole <= 0 {
		return 0
	}
	return int(part / whole * float64(total))
}
