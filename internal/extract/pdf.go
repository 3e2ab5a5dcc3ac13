package extract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

func inspectPDF(content []byte) (info *PDFInfo, err error) {
	// The reader panics on some malformed inputs instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			info, err = nil, fmt.Errorf("open PDF: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	if numPages == 0 {
		return nil, errors.New("PDF has no pages")
	}
	info = &PDFInfo{Size: int64(len(content)), Pages: numPages}
	for i := 1; i <= numPages && !info.HasText; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		info.HasText = len(bytes.TrimSpace([]byte(text))) > 0
	}
	return info, nil
}
