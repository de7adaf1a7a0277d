package synthesizer

import (
	"sort"
	"strconv"
	"strings"

	"docintel/internal/domain"
)

// Source cites one document that contributed to an answer.
type Source struct {
	Document  string  `json:"document"`
	Pages     []int   `json:"pages"`
	Relevance float64 `json:"relevance"`
}

// ExtractSources collects the cited pages per document. A document's
// relevance is that of its first chunk; sources are ordered by relevance.
func ExtractSources(chunks []domain.RankedChunk) []Source {
	var sources []Source
	pages := make(map[string]map[int]struct{})
	for _, c := range chunks {
		seen, ok := pages[c.Document]
		if !ok {
			seen = make(map[int]struct{})
			pages[c.Document] = seen
			sources = append(sources, Source{Document: c.Document, Relevance: c.RelevanceScore})
		}
		seen[c.PageNumber] = struct{}{}
	}
	for i := range sources {
		for p := range pages[sources[i].Document] {
			sources[i].Pages = append(sources[i].Pages, p)
		}
		sort.Ints(sources[i].Pages)
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Relevance > sources[j].Relevance
	})
	return sources
}

// FormatSources renders sources as a bulleted citation list.
func FormatSources(sources []Source) string {
	if len(sources) == 0 {
		return "No sources"
	}
	lines := make([]string, 0, len(sources))
	for _, s := range sources {
		lines = append(lines, "• "+s.Document+" ("+pageLabel(s.Pages)+")")
	}
	return strings.Join(lines, "\n")
}

func pageLabel(pages []int) string {
	if len(pages) == 1 {
		return "page " + strconv.Itoa(pages[0])
	}
	nums := make([]string, len(pages))
	for i, p := range pages {
		nums[i] = strconv.Itoa(p)
	}
	return "pages " + strings.Join(nums, ", ")
}
