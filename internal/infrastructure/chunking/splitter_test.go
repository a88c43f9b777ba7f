package chunking

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitAccumulatesParagraphsUpToBound(t *testing.T) {
	s := NewSplitter(20)
	chunks := s.Split("alpha\nbeta\n\ngamma delta epsilon\n")

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "alpha\n\nbeta" {
		t.Fatalf("unexpected first chunk: %q", chunks[0])
	}
	if chunks[1] != "gamma delta epsilon" {
		t.Fatalf("unexpected second chunk: %q", chunks[1])
	}
}

func TestSplitNeverExceedsBound(t *testing.T) {
	inputs := []string{
		"one two three four five six seven eight nine ten",
		strings.Repeat("word ", 400),
		strings.Repeat("x", 5000),
		"short\n" + strings.Repeat("y", 3000) + "\nshort again",
	}
	for _, maxSize := range []int{10, 100, 1200} {
		s := NewSplitter(maxSize)
		for _, input := range inputs {
			for i, chunk := range s.Split(input) {
				if got := utf8.RuneCountInString(chunk); got > maxSize {
					t.Fatalf("maxSize=%d chunk %d has length %d", maxSize, i, got)
				}
			}
		}
	}
}

func TestSplitHardSlicesOversizedParagraph(t *testing.T) {
	s := NewSplitter(1200)
	chunks := s.Split(strings.Repeat("a", 3000))

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 3000 chars at 1200, got %d", len(chunks))
	}
	if len(chunks[0]) != 1200 || len(chunks[1]) != 1200 || len(chunks[2]) != 600 {
		t.Fatalf("unexpected slice sizes: %d %d %d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestSplitFlushesPendingBufferBeforeHardSlice(t *testing.T) {
	s := NewSplitter(10)
	chunks := s.Split("tiny\n" + strings.Repeat("b", 25))

	want := []string{"tiny", "bbbbbbbbbb", "bbbbbbbbbb", "bbbbb"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestSplitCoverageKeepsLineOrder(t *testing.T) {
	input := "first line\nsecond line\n\n  third line  \nfourth"
	s := NewSplitter(25)
	chunks := s.Split(input)

	joined := strings.Join(chunks, "\n\n")
	flattened := strings.Join(strings.Fields(joined), " ")
	if flattened != "first line second line third line fourth" {
		t.Fatalf("coverage broken: %q", flattened)
	}
}

func TestSplitEmptyAndWhitespaceInput(t *testing.T) {
	s := NewSplitter(1200)
	if chunks := s.Split(""); len(chunks) != 0 {
		t.Fatalf("expected no chunks for empty input, got %q", chunks)
	}
	if chunks := s.Split("  \n\t\n   \n"); len(chunks) != 0 {
		t.Fatalf("expected no chunks for whitespace input, got %q", chunks)
	}
}

func TestNewSplitterDefaultsBound(t *testing.T) {
	if s := NewSplitter(0); s.MaxChunkSize != DefaultMaxChunkSize {
		t.Fatalf("expected default %d, got %d", DefaultMaxChunkSize, s.MaxChunkSize)
	}
}
