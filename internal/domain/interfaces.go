package domain

import "context"

// Page is one page of raw text produced by a loader.
type Page struct {
	Number int
	Text   string
}

// Document is a loaded source file split into ordered pages.
type Document struct {
	ID       string
	Path     string
	Title    string
	Pages    []Page
	Metadata map[string]string
}

// Chunk is a page-scoped, size-bounded span of document text used for indexing.
type Chunk struct {
	ID            int    `json:"id"`
	Document      string `json:"document"`
	PageNumber    int    `json:"page_number"`
	Text          string `json:"text"`
	StartPosition int    `json:"start_position"`
	CharCount     int    `json:"char_count"`
	WordCount     int    `json:"word_count"`
}

// SearchResult represents a matching chunk with its cosine similarity.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// RankedChunk is a chunk returned by the retriever with its final relevance score.
type RankedChunk struct {
	Chunk
	RelevanceScore float64 `json:"relevance_score"`
}

// IndexStats summarises the currently published index.
type IndexStats struct {
	TotalChunks    int    `json:"total_chunks"`
	VocabularySize int    `json:"vocabulary_size"`
	DocumentCount  int    `json:"document_count"`
	Built          bool   `json:"built"`
	Version        uint64 `json:"version"`
}

// Loader extracts pages from a source file.
type Loader interface {
	Load(path string) (Document, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Index builds weighted vectors over a chunk collection and answers similarity queries.
type Index interface {
	Build(chunks []Chunk) error
	Search(query string, topK int, threshold float64) ([]SearchResult, error)
	Stats() IndexStats
	DocumentChunks(document string) []Chunk
}

// Generator turns a prompt into prose. Implementations call external providers.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
