package chunking

import (
	"strings"
	"unicode/utf8"
)

const DefaultMaxChunkSize = 1200

// Splitter accumulates paragraphs greedily into chunks of at most
// MaxChunkSize characters. Paragraphs inside a chunk are joined by a blank
// line. A single paragraph longer than the bound is hard-sliced into
// fixed-width pieces with no word-boundary awareness.
type Splitter struct {
	MaxChunkSize int
}

func NewSplitter(maxChunkSize int) *Splitter {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &Splitter{MaxChunkSize: maxChunkSize}
}

func (s *Splitter) Split(text string) []string {
	var chunks []string
	current := ""

	for _, line := range strings.Split(text, "\n") {
		paragraph := strings.TrimSpace(line)
		if paragraph == "" {
			continue
		}

		candidate := paragraph
		if current != "" {
			candidate = current + "\n\n" + paragraph
		}
		if utf8.RuneCountInString(candidate) <= s.MaxChunkSize {
			current = candidate
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
		}

		if utf8.RuneCountInString(paragraph) > s.MaxChunkSize {
			runes := []rune(paragraph)
			for start := 0; start < len(runes); start += s.MaxChunkSize {
				end := min(start+s.MaxChunkSize, len(runes))
				chunks = append(chunks, string(runes[start:end]))
			}
			current = ""
		} else {
			current = paragraph
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
