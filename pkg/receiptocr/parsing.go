package receiptocr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var paiseRE = regexp.MustCompile(`[.,]\d{2}$`)

// ParseAmount normalizes a matched substring into whole rupees. A trailing
// two-digit paise part (10,500.00 -> 10500) is dropped; grouping separators
// in either Indian (1,00,000) or western (100,000) style are removed.
func ParseAmount(found string) (int64, error) {
	foundTrim := strings.TrimSpace(found)
	if foundTrim == "" {
		return 0, fmt.Errorf("empty")
	}
	var digits string
	if paiseRE.MatchString(foundTrim) {
		lastDot := strings.LastIndex(foundTrim, ".")
		lastComma := strings.LastIndex(foundTrim, ",")
		cut := lastDot
		if lastComma > lastDot {
			cut = lastComma
		}
		digits = onlyDigits(foundTrim[:cut])
	} else {
		digits = onlyDigits(foundTrim)
	}
	if digits == "" {
		return 0, fmt.Errorf("no digits extracted from %q", found)
	}
	amt, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", digits, err)
	}
	if amt < 0 {
		amt = -amt
	}
	return amt, nil
}
