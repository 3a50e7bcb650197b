package document

// Page is one page of extracted statement text.
type Page struct {
	Text  string
	Index int
}

// Document is an ordered sequence of pages. Immutable once loaded; the
// pipeline never writes back into it.
type Document struct {
	Pages []Page
}

// FromPages builds a document from raw page texts, assigning indices in
// the order given.
func FromPages(texts []string) *Document {
	pages := make([]Page, 0, len(texts))
	for i, t := range texts {
		pages = append(pages, Page{Text: t, Index: i})
	}
	return &Document{Pages: pages}
}
