// Package synthesizer assembles ranked chunks into prompt context, source
// citations and confidence estimates.
package synthesizer

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"docintel/internal/domain"
)

// DefaultMaxContextChars bounds the context handed to a generator.
const DefaultMaxContextChars = 8000

// BuildContext groups chunks by document in order of first appearance and
// renders one block per document. Blocks are added while the running total
// stays within maxChars.
func BuildContext(chunks []domain.RankedChunk, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}
	var parts []string
	total := 0
	for _, g := range groupByDocument(chunks) {
		block := formatDocument(g.document, g.chunks)
		n := utf8.RuneCountInString(block)
		if total+n > maxChars {
			break
		}
		parts = append(parts, block)
		total += n
	}
	return strings.Join(parts, "\n\n")
}

// RelevanceIndicator maps a relevance score to a star marker.
func RelevanceIndicator(score float64) string {
	switch {
	case score >= 0.7:
		return "***"
	case score >= 0.5:
		return "**"
	case score >= 0.3:
		return "*"
	}
	return ""
}

// SummaryLine describes how many passages, documents and pages were found.
func SummaryLine(chunks []domain.RankedChunk) string {
	if len(chunks) == 0 {
		return "No relevant information found."
	}
	type page struct {
		doc string
		num int
	}
	docs := make(map[string]struct{})
	pages := make(map[page]struct{})
	for _, c := range chunks {
		docs[c.Document] = struct{}{}
		pages[page{c.Document, c.PageNumber}] = struct{}{}
	}
	return fmt.Sprintf("Found %d relevant passages from %d document(s) across %d pages.",
		len(chunks), len(docs), len(pages))
}

// EstimateConfidence blends mean relevance with how many passages backed the
// answer, rounded to two decimals.
func EstimateConfidence(chunks []domain.RankedChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range chunks {
		sum += c.RelevanceScore
	}
	avg := sum / float64(len(chunks))
	coverage := min(float64(len(chunks))/5, 1.0)
	return math.Round((avg*0.7+coverage*0.3)*100) / 100
}

type documentGroup struct {
	document string
	chunks   []domain.RankedChunk
}

func groupByDocument(chunks []domain.RankedChunk) []documentGroup {
	var groups []documentGroup
	pos := make(map[string]int)
	for _, c := range chunks {
		i, ok := pos[c.Document]
		if !ok {
			i = len(groups)
			pos[c.Document] = i
			groups = append(groups, documentGroup{document: c.Document})
		}
		groups[i].chunks = append(groups[i].chunks, c)
	}
	return groups
}

func formatDocument(document string, chunks []domain.RankedChunk) string {
	parts := make([]string, 0, len(chunks)+1)
	parts = append(parts, fmt.Sprintf("=== %s ===\n", document))
	for _, c := range chunks {
		parts = append(parts, fmt.Sprintf("[Page %d] %s\n%s\n", c.PageNumber, RelevanceIndicator(c.RelevanceScore), c.Text))
	}
	return strings.Join(parts, "\n")
}
