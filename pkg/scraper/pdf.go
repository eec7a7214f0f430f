package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParser opens a PDF held in memory.
type PDFParser interface {
	Open(data []byte) (PDFDocument, error)
}

// PDFDocument gives page-level access to an opened PDF. Pages are numbered
// from 1.
type PDFDocument interface {
	NumPage() int
	PageText(page int) (string, error)
}

// LedongthucParser is the default PDFParser.
type LedongthucParser struct{}

func (LedongthucParser) Open(data []byte) (PDFDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return &ledongthucDocument{reader: reader}, nil
}

type ledongthucDocument struct {
	reader *pdf.Reader
}

func (d *ledongthucDocument) NumPage() int {
	return d.reader.NumPage()
}

func (d *ledongthucDocument) PageText(n int) (string, error) {
	page := d.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// extractPages concatenates the text of at most maxPages pages, each followed
// by a blank line, and appends a note when pages were skipped.
func extractPages(doc PDFDocument, maxPages int) (text string, total int, err error) {
	total = doc.NumPage()
	limit := min(maxPages, total)

	var sb strings.Builder
	for i := 1; i <= limit; i++ {
		pageText, err := doc.PageText(i)
		if err != nil {
			return "", total, fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}

	if limit < total {
		fmt.Fprintf(&sb, "\n[Note: This is a truncated version of the document. Only the first %d of %d pages were processed due to token limitations.]", limit, total)
	}

	return sb.String(), total, nil
}
