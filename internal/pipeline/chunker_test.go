package pipeline

import (
	"strings"
	"testing"

	"github.com/budgetwise/budgetwise/internal/document"
)

func TestSplitPages_Empty(t *testing.T) {
	if got := SplitPages(nil, 100, 10); len(got) != 0 {
		t.Errorf("SplitPages(nil) = %d windows, want 0", len(got))
	}
	if got := SplitPages([]document.Page{{Text: "", Index: 0}}, 100, 10); len(got) != 0 {
		t.Errorf("SplitPages(empty page) = %d windows, want 0", len(got))
	}
}

func TestSplitPages_SinglePageFits(t *testing.T) {
	pages := []document.Page{{Text: "short statement line", Index: 0}}
	windows := SplitPages(pages, 100, 10)
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	if windows[0].Content != "short statement line" {
		t.Errorf("window content = %q", windows[0].Content)
	}
	if windows[0].ChunkIndex != 0 {
		t.Errorf("chunk index = %d, want 0", windows[0].ChunkIndex)
	}
}

func TestSplitPages_Overlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 25) // 250 chars
	pages := []document.Page{{Text: text, Index: 0}}

	windows := SplitPages(pages, 100, 20)
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}

	// Every window is bounded by the configured size.
	for _, w := range windows {
		if len(w.Content) > 100 {
			t.Errorf("window %d has %d chars, want <= 100", w.ChunkIndex, len(w.Content))
		}
	}

	// Consecutive windows share the configured overlap.
	for i := 1; i < len(windows); i++ {
		prev := windows[i-1].Content
		tail := prev[len(prev)-20:]
		if !strings.HasPrefix(windows[i].Content, tail) {
			t.Errorf("window %d does not start with the previous window's tail", i)
		}
	}

	// Concatenating windows minus overlaps reconstructs the page.
	rebuilt := windows[0].Content
	for i := 1; i < len(windows); i++ {
		rebuilt += windows[i].Content[20:]
	}
	if rebuilt != text {
		t.Error("windows do not cover the full page text")
	}
}

func TestSplitPages_WindowsDoNotCrossPages(t *testing.T) {
	pages := []document.Page{
		{Text: strings.Repeat("a", 150), Index: 0},
		{Text: strings.Repeat("b", 50), Index: 1},
	}

	windows := SplitPages(pages, 100, 10)
	for _, w := range windows {
		if strings.Contains(w.Content, "a") && strings.Contains(w.Content, "b") {
			t.Errorf("window %d spans two pages", w.ChunkIndex)
		}
	}

	// Chunk indices are assigned in document order.
	for i, w := range windows {
		if w.ChunkIndex != i {
			t.Errorf("window at position %d has chunk index %d", i, w.ChunkIndex)
		}
	}
}

func TestSplitPages_BadOverlapFallsBack(t *testing.T) {
	pages := []document.Page{{Text: strings.Repeat("x", 300), Index: 0}}

	// overlap >= size would never advance; it must be ignored.
	windows := SplitPages(pages, 100, 100)
	if len(windows) != 3 {
		t.Errorf("got %d windows, want 3", len(windows))
	}
}
