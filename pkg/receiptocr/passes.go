package receiptocr

import (
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

const (
	currencyWhitelist = "0123456789RsINRrsin.,:()/- "
	digitWhitelist    = "0123456789., "
	fullWhitelist     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.,:()/- "
)

func ocrPass(imgPath, whitelist string, psm *gosseract.PageSegMode) string {
	cl := gosseract.NewClient()
	defer cl.Close()
	_ = cl.SetLanguage("eng")
	_ = cl.SetWhitelist(whitelist)
	if psm != nil {
		_ = cl.SetPageSegMode(*psm)
	}
	cl.SetImage(imgPath)
	t, err := cl.Text()
	if err != nil {
		return ""
	}
	return normalizeOCRText(t)
}

// runOCRPasses executes the multi-pass OCR strategy: a preprocessed pass with
// a currency whitelist, a digits-only pass, a full-alphabet pass on the
// untouched image and a sparse-text pass. Returns the variant texts plus an
// aggregate of all of them.
func runOCRPasses(path string) (map[string]string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < 900 {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}
	bin := binarize(gray, 210)

	prepPath := path
	if tmp, err := os.CreateTemp("", "receipt-*.png"); err == nil {
		_ = tmp.Close()
		if err := imaging.Save(bin, tmp.Name()); err == nil {
			prepPath = tmp.Name()
			defer os.Remove(prepPath)
		}
	}

	out := map[string]string{}
	out["text"] = ocrPass(prepPath, currencyWhitelist, nil)
	out["textDigits"] = ocrPass(prepPath, digitWhitelist, nil)
	out["textOrig"] = ocrPass(path, fullWhitelist, nil)
	sparse := gosseract.PSM_SPARSE_TEXT
	out["textSparse"] = ocrPass(path, currencyWhitelist, &sparse)

	out["aggregate"] = strings.Join([]string{out["text"], out["textDigits"], out["textOrig"], out["textSparse"]}, " ")
	return out, nil
}
