package receiptocr

import "strings"

// isPlausibleAmount applies lightweight heuristics to decide whether a
// matched numeric substring likely represents a monetary amount rather than
// a phone number, UPI reference or transaction id. Prefer strings with
// currency hints or grouping separators; reject very long digit-only runs
// and anything starting with 0.
func isPlausibleAmount(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if hasCurrencyMarker(s) {
		return true
	}
	if strings.Contains(s, ".") || strings.Contains(s, ",") {
		d := onlyDigits(s)
		return len(d) >= 3 && d[0] != '0'
	}
	d := onlyDigits(s)
	if d == "" || d[0] == '0' {
		return false
	}
	if len(d) < 2 || len(d) > 7 {
		return false
	}
	// Bare mid-size digit runs are usually ids unless they look like a round
	// rupee figure (rents and bills land on 50/100 boundaries).
	if len(d) >= 5 {
		return strings.HasSuffix(d, "00") || strings.HasSuffix(d, "50")
	}
	return true
}
