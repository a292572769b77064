package extract

import (
	"strconv"
	"strings"
)

// parseDecimal parses a number written in Brazilian format, where "." is
// the thousands separator and "," the decimal separator ("8.500,00" →
// 8500.00). A malformed token reports ok = false so the caller can treat
// the field as not found.
func parseDecimal(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
