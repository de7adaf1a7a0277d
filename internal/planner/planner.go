// Package planner classifies a query and decides how much context to retrieve for it.
package planner

import (
	"regexp"
	"strings"
)

// Complexity levels.
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// TypeGeneral is reported when no question pattern matches.
const TypeGeneral = "general"

const (
	maxChunksCap = 10
	maxKeywords  = 10
	longQuery    = 10
)

// QueryPlan describes how a query should be answered.
type QueryPlan struct {
	QueryType         string   `json:"query_type"`
	Complexity        string   `json:"complexity"`
	MaxChunks         int      `json:"max_chunks"`
	Keywords          []string `json:"keywords"`
	Mode              string   `json:"mode"`
	RequiresMultiDoc  bool     `json:"requires_multi_doc"`
	RequiresSynthesis bool     `json:"requires_synthesis"`
}

type rule struct {
	label    string
	patterns []string
}

var questionTypes = []rule{
	{"what", []string{"what", "which"}},
	{"who", []string{"who"}},
	{"where", []string{"where", "location"}},
	{"when", []string{"when", "date", "time"}},
	{"how", []string{"how"}},
	{"why", []string{"why", "reason"}},
	{"list", []string{"list", "enumerate", "all"}},
	{"compare", []string{"compare", "difference", "versus", "vs"}},
	{"summarize", []string{"summarize", "summary", "overview"}},
}

var complexityLevels = []rule{
	{ComplexityHigh, []string{"compare", "analyze", "explain", "relationship", "how does"}},
	{ComplexityMedium, []string{"list", "describe", "what are", "tell me about"}},
	{ComplexityLow, []string{"what is", "where", "when", "who"}},
}

var baseChunks = map[string]int{
	ComplexityLow:    3,
	ComplexityMedium: 5,
	ComplexityHigh:   8,
}

var broadTypes = map[string]bool{"list": true, "compare": true, "summarize": true}

var multiDocIndicators = []string{"compare", "both", "all documents", "across", "different", "versus", "vs"}

var keywordStopwords = map[string]struct{}{
	"what": {}, "is": {}, "are": {}, "the": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "about": {}, "tell": {}, "me": {},
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// Plan builds a QueryPlan for query answered in mode.
func Plan(query, mode string) QueryPlan {
	lower := strings.ToLower(query)
	queryType := firstMatch(questionTypes, lower, TypeGeneral)
	complexity := assessComplexity(lower)

	return QueryPlan{
		QueryType:         queryType,
		Complexity:        complexity,
		MaxChunks:         chunkCount(queryType, complexity),
		Keywords:          Keywords(query),
		Mode:              mode,
		RequiresMultiDoc:  containsAny(lower, multiDocIndicators),
		RequiresSynthesis: complexity == ComplexityHigh,
	}
}

// Keywords returns up to ten lower-cased content words of query in order.
func Keywords(query string) []string {
	words := wordPattern.FindAllString(strings.ToLower(query), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := keywordStopwords[w]; stop || len(w) <= 2 {
			continue
		}
		out = append(out, w)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

func assessComplexity(lower string) string {
	if level := firstMatch(complexityLevels, lower, ""); level != "" {
		return level
	}
	if len(strings.Fields(lower)) > longQuery {
		return ComplexityHigh
	}
	return ComplexityMedium
}

func chunkCount(queryType, complexity string) int {
	count, ok := baseChunks[complexity]
	if !ok {
		count = baseChunks[ComplexityMedium]
	}
	if broadTypes[queryType] {
		count += 2
	}
	return min(count, maxChunksCap)
}

func firstMatch(rules []rule, lower, fallback string) string {
	for _, r := range rules {
		if containsAny(lower, r.patterns) {
			return r.label
		}
	}
	return fallback
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
