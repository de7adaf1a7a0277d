// Package retriever expands queries, fetches candidates from an index and
// reranks them with lexical heuristics the vector model cannot see.
package retriever

import (
	"sort"
	"strings"

	"docintel/internal/domain"
)

// Rerank weights.
const (
	PhraseBonus     = 0.2
	TermBonusWeight = 0.1
	LengthWeight    = 0.05
	LengthNorm      = 1000.0
	OverFetchFactor = 2
)

type expansion struct {
	trigger string
	terms   string
}

// expansions is scanned in order; the first trigger found in the query wins.
var expansions = [...]expansion{
	{"address", "address registered office location"},
	{"director", "director board member officer"},
	{"kyc", "kyc know your customer verification"},
	{"document", "document form certificate"},
}

// Retriever ranks chunks from an index for a free-form query.
type Retriever struct {
	index domain.Index
}

// New creates a Retriever bound to index.
func New(index domain.Index) *Retriever {
	return &Retriever{index: index}
}

// Retrieve returns at most maxResults chunks ranked by their final relevance
// score. filterDocument, when non-empty, restricts results to that document.
func (r *Retriever) Retrieve(query string, maxResults int, threshold float64, filterDocument string) ([]domain.RankedChunk, error) {
	if maxResults <= 0 {
		return nil, domain.NewInvalidArgumentError("max_results", "must be positive")
	}

	candidates, err := r.index.Search(EnhanceQuery(query), maxResults*OverFetchFactor, threshold)
	if err != nil {
		return nil, err
	}

	if filterDocument != "" {
		kept := candidates[:0]
		for _, c := range candidates {
			if c.Chunk.Document == filterDocument {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}
	if len(candidates) == 0 {
		return []domain.RankedChunk{}, nil
	}

	ranked := Rerank(query, candidates)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked, nil
}

// DocumentChunks returns every chunk of document in chunk ID order.
func (r *Retriever) DocumentChunks(document string) []domain.Chunk {
	return r.index.DocumentChunks(document)
}

// EnhanceQuery appends the expansion phrase of the first trigger term found
// in the lower-cased query. At most one expansion is applied.
func EnhanceQuery(query string) string {
	lower := strings.ToLower(query)
	for _, e := range expansions {
		if strings.Contains(lower, e.trigger) {
			return query + " " + e.terms
		}
	}
	return query
}

// Rerank scores candidates against the original query and returns them
// ordered by final score. Equal scores keep candidate order.
func Rerank(query string, candidates []domain.SearchResult) []domain.RankedChunk {
	lower := strings.ToLower(query)
	terms := uniqueTerms(lower)

	ranked := make([]domain.RankedChunk, len(candidates))
	for i, c := range candidates {
		ranked[i] = domain.RankedChunk{
			Chunk:          c.Chunk,
			RelevanceScore: c.Score + bonus(lower, terms, c.Chunk),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	return ranked
}

func bonus(query string, terms []string, chunk domain.Chunk) float64 {
	text := strings.ToLower(chunk.Text)
	score := 0.0

	if query != "" && strings.Contains(text, query) {
		score += PhraseBonus
	}

	if len(terms) > 0 {
		matched := 0
		for _, t := range terms {
			if strings.Contains(text, t) {
				matched++
			}
		}
		score += TermBonusWeight * float64(matched) / float64(len(terms))
	}

	score += LengthWeight * min(float64(chunk.CharCount)/LengthNorm, 1.0)
	return score
}

func uniqueTerms(query string) []string {
	fields := strings.Fields(query)
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
