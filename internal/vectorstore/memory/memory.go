package memory

import (
	"sort"
	"sync/atomic"

	"docintel/internal/domain"
	"docintel/internal/embedding/tfidf"
	"docintel/internal/vectorstore"
)

var _ vectorstore.Storage = (*Storage)(nil)

// snapshot is one immutable build of the index. chunks and vectors are
// index-aligned.
type snapshot struct {
	version    uint64
	vectorizer *tfidf.Vectorizer
	chunks     []domain.Chunk
	vectors    []tfidf.Vector
	documents  int
}

// Storage is an in-memory TF-IDF index using brute-force cosine similarity.
// Every Build publishes a new snapshot, so readers never see a partial index.
type Storage struct {
	maxFeatures int
	current     atomic.Pointer[snapshot]
	versions    atomic.Uint64
}

// NewStorage creates an unbuilt index with the given vocabulary cap.
func NewStorage(maxFeatures int) *Storage {
	if maxFeatures <= 0 {
		maxFeatures = tfidf.DefaultMaxFeatures
	}
	return &Storage{maxFeatures: maxFeatures}
}

// Build replaces the index with one computed from chunks. On error the
// previously published state is left untouched.
func (s *Storage) Build(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return domain.NewEmptyCorpusError()
	}
	owned := make([]domain.Chunk, len(chunks))
	copy(owned, chunks)

	texts := make([]string, len(owned))
	for i := range owned {
		texts[i] = owned[i].Text
	}
	vec := tfidf.NewVectorizer(s.maxFeatures)
	if err := vec.Prepare(texts); err != nil {
		return domain.NewEmptyCorpusError()
	}
	vectors := make([]tfidf.Vector, len(owned))
	for i := range texts {
		vectors[i] = vec.Transform(texts[i])
	}
	s.publish(vec, owned, vectors)
	return nil
}

func (s *Storage) publish(vec *tfidf.Vectorizer, chunks []domain.Chunk, vectors []tfidf.Vector) {
	s.current.Store(&snapshot{
		version:    s.versions.Add(1),
		vectorizer: vec,
		chunks:     chunks,
		vectors:    vectors,
		documents:  countDocuments(chunks),
	})
}

// Search returns up to topK chunks whose similarity to query is at least
// threshold, best first. An unbuilt index or a query sharing no vocabulary
// with the corpus yields no results.
func (s *Storage) Search(query string, topK int, threshold float64) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, domain.NewInvalidArgumentError("top_k", "must be positive")
	}
	if threshold < 0 || threshold > 1 {
		return nil, domain.NewInvalidArgumentError("threshold", "must be within [0, 1]")
	}
	snap := s.current.Load()
	if snap == nil {
		return []domain.SearchResult{}, nil
	}
	qv := snap.vectorizer.Transform(query)
	if qv.IsZero() {
		return []domain.SearchResult{}, nil
	}

	type pair struct {
		idx   int
		score float64
	}
	scored := make([]pair, 0, len(snap.vectors))
	for i := range snap.vectors {
		score := clamp(snap.vectors[i].Dot(qv))
		if score >= threshold {
			scored = append(scored, pair{i, score})
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return snap.chunks[scored[i].idx].ID < snap.chunks[scored[j].idx].ID
	})
	if topK > len(scored) {
		topK = len(scored)
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, p := range scored[:topK] {
		results = append(results, domain.SearchResult{Chunk: snap.chunks[p.idx], Score: p.score})
	}
	return results, nil
}

// Stats describes the published snapshot.
func (s *Storage) Stats() domain.IndexStats {
	snap := s.current.Load()
	if snap == nil {
		return domain.IndexStats{}
	}
	return domain.IndexStats{
		TotalChunks:    len(snap.chunks),
		VocabularySize: snap.vectorizer.Dimension(),
		DocumentCount:  snap.documents,
		Built:          true,
		Version:        snap.version,
	}
}

// DocumentChunks returns copies of every chunk of document in ID order.
func (s *Storage) DocumentChunks(document string) []domain.Chunk {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	var out []domain.Chunk
	for _, ch := range snap.chunks {
		if ch.Document == document {
			out = append(out, ch)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func countDocuments(chunks []domain.Chunk) int {
	seen := make(map[string]struct{})
	for _, ch := range chunks {
		seen[ch.Document] = struct{}{}
	}
	return len(seen)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
