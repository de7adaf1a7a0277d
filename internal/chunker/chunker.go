// Package chunker turns loaded documents into page-scoped, overlapping chunks.
package chunker

import (
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"docintel/internal/domain"
)

// Default sizes, in characters.
const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 300
	DefaultMinChunkSize = 100
)

// Sequence hands out corpus-wide chunk IDs. Chunkers sharing a Sequence never
// reuse an ID, and IDs increase in emission order.
type Sequence struct {
	next atomic.Int64
}

// NewSequence returns a sequence starting at zero.
func NewSequence() *Sequence { return &Sequence{} }

// Next returns the next unused ID.
func (s *Sequence) Next() int {
	return int(s.next.Add(1) - 1)
}

func newChunk(id int, document string, page int, text string, start int) domain.Chunk {
	trimmed := strings.TrimSpace(text)
	if start < 0 {
		start = 0
	}
	return domain.Chunk{
		ID:            id,
		Document:      document,
		PageNumber:    page,
		Text:          trimmed,
		StartPosition: start,
		CharCount:     utf8.RuneCountInString(trimmed),
		WordCount:     len(strings.Fields(trimmed)),
	}
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// tail returns the last n characters of s.
func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := len(s); i > 0; {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
		count++
		if count == n {
			return s[i:]
		}
	}
	return s
}
