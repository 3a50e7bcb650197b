package pipeline

import (
	"github.com/budgetwise/budgetwise/internal/document"
)

// SplitPages splits each page's text into windows of at most size
// characters, with consecutive windows on the same page overlapping by
// overlap characters. Splitting is purely size-based; windows never cross
// page boundaries and the overlap means a record printed across a window
// boundary still appears whole in one of them. Empty input yields an
// empty slice.
func SplitPages(pages []document.Page, size, overlap int) []Window {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	step := size - overlap

	var windows []Window
	for _, page := range pages {
		text := page.Text
		if text == "" {
			continue
		}
		for start := 0; start < len(text); start += step {
			end := start + size
			if end > len(text) {
				end = len(text)
			}
			windows = append(windows, Window{
				Content:    text[start:end],
				ChunkIndex: len(windows),
			})
			if end == len(text) {
				break
			}
		}
	}
	return windows
}
