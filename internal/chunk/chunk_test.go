package chunk_test

import (
	"strings"
	"testing"

	"github.com/chriscorrea/atol/internal/chunk"
	"github.com/chriscorrea/atol/internal/counter"
)

func TestSplitPages(t *testing.T) {
	words := counter.NewWordCounter()

	tests := []struct {
		name  string
		text  string
		size  int
		pages []string
	}{
		{
			name: "empty string",
			text: "",
			size: 100,
		},
		{
			name: "whitespace only",
			text: "   \n\t   ",
			size: 100,
		},
		{
			name: "zero size",
			text: "Some text",
			size: 0,
		},
		{
			name:  "text fits in single page",
			text:  "  a short page of text  ",
			size:  10,
			pages: []string{"a short page of text"},
		},
		{
			name:  "word splitting",
			text:  "w1 w2 w3 w4 w5 w6 w7",
			size:  3,
			pages: []string{"w1\nw2\nw3", "w4\nw5\nw6", "w7"},
		},
		{
			name:  "paragraphs are packed together when they fit",
			text:  "a b\n\nc d\n\ne f",
			size:  4,
			pages: []string{"a b\nc d", "e f"},
		},
		{
			name:  "sentence boundaries before words",
			text:  "one two three. four five six. seven",
			size:  4,
			pages: []string{"one two three", "four five six\nseven"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunk.SplitPages(tt.text, tt.size, words)
			if len(got) != len(tt.pages) {
				t.Fatalf("SplitPages() = %q, want %q", got, tt.pages)
			}
			for i := range got {
				if got[i] != tt.pages[i] {
					t.Errorf("page %d = %q, want %q", i, got[i], tt.pages[i])
				}
			}
		})
	}
}

func TestSplitPagesOversizedWord(t *testing.T) {
	got := chunk.SplitPages("abcdefgh ij", 3, counter.NewCharCounter())
	want := []string{"abcdefgh", "ij"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("SplitPages() = %q, want %q", got, want)
	}
}

func TestSplitPagesPreservesWords(t *testing.T) {
	words := counter.NewWordCounter()
	text := strings.Repeat("The market sells rifles. Vendors ship worldwide!\nContact us today? ", 40) +
		"\n\n" + strings.Repeat("escrow ", 75)

	for _, size := range []int{1, 7, 50, 150, 1000} {
		pages := chunk.SplitPages(text, size, words)
		total := 0
		for i, p := range pages {
			n := words.Count(p)
			if n > size {
				t.Errorf("size %d: page %d has %d words", size, i, n)
			}
			if n == 0 {
				t.Errorf("size %d: page %d is empty", size, i)
			}
			total += n
		}
		if want := words.Count(text); total != want {
			t.Errorf("size %d: pages hold %d words, want %d", size, total, want)
		}
	}
}
