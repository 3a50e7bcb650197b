package document

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// LoadPDF reads a statement PDF from disk and extracts per-page plain text.
func LoadPDF(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadPDF: reading %q: %w", path, err)
	}
	return LoadPDFBytes(data)
}

// LoadPDFBytes extracts per-page plain text from raw PDF bytes. A document
// whose pages yield no text is still a valid (empty-ish) document; only a
// structurally unreadable file is an error.
func LoadPDFBytes(data []byte) (*Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("LoadPDFBytes: opening pdf: %w", err)
	}

	doc := &Document{}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single corrupt page should not sink the statement; the
			// pipeline treats missing text as an empty page.
			text = ""
		}
		doc.Pages = append(doc.Pages, Page{Text: text, Index: len(doc.Pages)})
	}

	return doc, nil
}
