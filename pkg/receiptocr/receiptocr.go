package receiptocr

import (
	"fmt"
	"log"
)

// ExtractAmountFromImage performs light preprocessing + Tesseract OCR and
// attempts to extract the billed/paid amount from a receipt image. Returns
// the amount in whole rupees plus a rough confidence in [0,1] and the raw
// matched substring. ErrNoAmount when nothing plausible is found.
func ExtractAmountFromImage(path string) (int64, float64, string, error) {
	variants, err := runOCRPasses(path)
	if err != nil {
		return 0, 0, "", fmt.Errorf("ocr passes: %w", err)
	}
	text := variants["text"]
	aggregate := variants["aggregate"]

	matches := FindMatches(aggregate)
	if len(matches) == 0 {
		log.Printf("receipt OCR found no candidates; text snippet=%q", snippet(aggregate, 140))
		return 0, 0, "", ErrNoAmount
	}

	amt, raw, ok := BestAmount(matches)
	if !ok {
		return 0, 0, "", ErrNoAmount
	}
	log.Printf("receipt OCR: snippet=%q candidates=%v chosen_raw=%s chosen_amt=%d", snippet(text, 160), matches, raw, amt)

	// Confidence proxy based on substring length vs OCR text size.
	conf := float64(len(raw)) / float64(len(text)+1)
	if conf > 1 {
		conf = 1
	}
	// An explicit currency marker or paise suffix is a strong signal.
	if hasCurrencyMarker(raw) || paiseRE.MatchString(raw) {
		if conf < 0.85 {
			conf = 0.85
		}
	}
	return amt, conf, raw, nil
}
