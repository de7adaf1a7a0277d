package chunker

import (
	"regexp"
	"strings"

	"docintel/internal/domain"
)

// Config controls paragraph chunking. Sizes are in characters.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	MinChunkSize int
}

// DefaultConfig returns the standard chunking sizes.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		MinChunkSize: DefaultMinChunkSize,
	}
}

// ParagraphChunker greedily packs blank-line separated paragraphs into chunks,
// seeding each new chunk with the tail of the previous one. Chunks never span
// a page boundary and an oversized paragraph is kept whole.
type ParagraphChunker struct {
	cfg      Config
	seq      *Sequence
	splitter *regexp.Regexp
}

// NewParagraphChunker creates a chunker drawing IDs from seq. A nil seq gets a
// private sequence.
func NewParagraphChunker(cfg Config, seq *Sequence) *ParagraphChunker {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	if cfg.MinChunkSize < 0 {
		cfg.MinChunkSize = 0
	}
	if seq == nil {
		seq = NewSequence()
	}
	return &ParagraphChunker{
		cfg:      cfg,
		seq:      seq,
		splitter: regexp.MustCompile(`\n\s*\n|\n{2,}`),
	}
}

// Chunk splits every page of the document independently.
func (c *ParagraphChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for _, page := range document.Pages {
		chunks = c.chunkPage(chunks, document.ID, page)
	}
	return chunks, nil
}

func (c *ParagraphChunker) chunkPage(out []domain.Chunk, document string, page domain.Page) []domain.Chunk {
	var current string
	start := 0

	for _, para := range c.paragraphs(page.Text) {
		if runeLen(current)+runeLen(para) <= c.cfg.ChunkSize {
			current += para
			continue
		}
		if strings.TrimSpace(current) != "" {
			out = append(out, newChunk(c.seq.Next(), document, page.Number, current, start))
		}
		closed := runeLen(current)
		if closed > c.cfg.ChunkOverlap {
			current = tail(current, c.cfg.ChunkOverlap) + para
		} else {
			current = para
		}
		if advance := closed - c.cfg.ChunkOverlap; advance > 0 {
			start += advance
		}
	}

	if rest := strings.TrimSpace(current); rest != "" && runeLen(rest) >= c.cfg.MinChunkSize {
		out = append(out, newChunk(c.seq.Next(), document, page.Number, current, start))
	}
	return out
}

// paragraphs splits on blank lines and normalises each paragraph to end with
// a single blank-line separator.
func (c *ParagraphChunker) paragraphs(text string) []string {
	parts := c.splitter.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p+"\n\n")
	}
	return out
}
