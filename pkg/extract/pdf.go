// Package extract pulls plain text out of uploaded documents on a best-effort
// basis. Extraction failure is never fatal: callers get an empty string and
// decide for themselves how to degrade.
package extract

import (
	"bytes"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// IsPDF reports whether the uploaded bytes look like a PDF document.
func IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is("application/pdf")
}

// Text returns the concatenated plain text of all pages, in page order.
// Corrupt files, unreadable pages and parser panics all resolve to "".
func Text(data []byte) (out string) {
	// The pdf parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()

	if len(data) == 0 {
		return ""
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	builder := strings.Builder{}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip the unreadable page, keep the rest.
			continue
		}
		builder.WriteString(text)
	}

	return builder.String()
}
