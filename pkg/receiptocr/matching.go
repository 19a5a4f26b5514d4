package receiptocr

import (
	"regexp"
	"strings"
)

// Receipt amounts show up in several shapes: "Rs. 10,500", "INR 10500",
// "₹1,00,000" (Indian lakh grouping), "Total: 10,500.00". The context pattern
// runs first so "Total"-adjacent numbers keep their context in the raw match.
var matchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:grand\s+total|total|amount\s+paid|amount|rent\s+paid|paid)[:\s]*(?:rs\.?|inr|₹)?\s*([0-9][0-9.,]*)`),
	regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([0-9][0-9.,]*)`),
	regexp.MustCompile(`([0-9]{1,2}(?:,[0-9]{2})+,[0-9]{3}(?:\.[0-9]{2})?)`), // 1,00,000 style
	regexp.MustCompile(`([0-9]{1,3}(?:,[0-9]{3})+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`([0-9]{4,7})`),
}

// FindMatches returns all numeric substrings in text that look like amounts,
// in the order found, de-duplicated and filtered for plausibility. When the
// full match carried a currency marker that the capture group stripped, the
// marker is re-attached so scoring can prioritize it.
func FindMatches(text string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, re := range matchPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			s := strings.TrimSpace(m[1])
			if s == "" {
				continue
			}
			if hasCurrencyMarker(m[0]) && !hasCurrencyMarker(s) {
				s = "Rs" + s
			}
			if strings.Contains(strings.ToLower(m[0]), "total") && !strings.Contains(strings.ToLower(s), "total") {
				s = "Total " + s
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			if !isPlausibleAmount(s) {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}
