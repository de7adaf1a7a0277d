package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"docintel/internal/domain"
)

// SentenceChunker groups a fixed number of sentences per chunk with overlap.
// Like ParagraphChunker it works page by page.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	seq               *Sequence
	splitter          *regexp.Regexp
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int, seq *Sequence) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	if seq == nil {
		seq = NewSequence()
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		seq:               seq,
		splitter:          regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

type sentence struct {
	text  string
	start int
}

func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, page := range document.Pages {
		sentences := c.sentences(page.Text)
		i := 0
		for i < len(sentences) {
			end := i + c.sentencesPerChunk
			if end > len(sentences) {
				end = len(sentences)
			}
			parts := make([]string, 0, end-i)
			for _, s := range sentences[i:end] {
				parts = append(parts, s.text)
			}
			chunks = append(chunks, newChunk(c.seq.Next(), document.ID, page.Number, strings.Join(parts, " "), sentences[i].start))
			if end == len(sentences) {
				break
			}
			i = end - c.overlapSentences
		}
	}
	return chunks, nil
}

func (c *SentenceChunker) sentences(text string) []sentence {
	var out []sentence
	last := 0
	for _, loc := range c.splitter.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			out = append(out, sentence{text: s, start: utf8.RuneCountInString(text[:loc[0]])})
		}
		last = loc[1]
	}
	// Trailing text without terminal punctuation is still a sentence.
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		out = append(out, sentence{text: rest, start: utf8.RuneCountInString(text[:last])})
	}
	return out
}
