package receiptocr

import "strings"

// BestAmount selects the most likely amount among the matched substrings.
// Currency markers beat everything, "total" context beats bare numbers, and
// ties fall back to the larger amount then the longer raw match so the choice
// is deterministic.
func BestAmount(matches []string) (int64, string, bool) {
	type cand struct {
		amt   int64
		raw   string
		score int
	}
	scoreFor := func(raw string) int {
		s := 0
		low := strings.ToLower(raw)
		if hasCurrencyMarker(raw) {
			s += 10
		}
		if strings.Contains(low, "total") {
			s += 8
		}
		if strings.Contains(raw, ".") || strings.Contains(raw, ",") {
			s += 5
		}
		if paiseRE.MatchString(raw) {
			s += 3
		}
		if len(onlyDigits(raw)) >= 4 {
			s += 1
		}
		return s
	}
	var cands []cand
	for _, m := range matches {
		amt, err := ParseAmount(m)
		if err != nil || amt <= 0 {
			continue
		}
		cands = append(cands, cand{amt: amt, raw: m, score: scoreFor(m)})
	}
	if len(cands) == 0 {
		return 0, "", false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		replace := false
		if c.score > best.score {
			replace = true
		} else if c.score == best.score {
			if c.amt > best.amt {
				replace = true
			} else if c.amt == best.amt {
				if len(c.raw) > len(best.raw) {
					replace = true
				} else if len(c.raw) == len(best.raw) && c.raw < best.raw {
					replace = true
				}
			}
		}
		if replace {
			best = c
		}
	}
	return best.amt, best.raw, true
}
