package synthesizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"docintel/internal/domain"
)

// DefaultAnswerSentences is the number of sentences an extractive answer keeps.
const DefaultAnswerSentences = 5

// queryWeight is added per query term a sentence contains.
const queryWeight = 1.0

var sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// FrequencySummarizer answers offline by picking the passages' most
// representative sentences, favouring those that mention the query.
type FrequencySummarizer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`),
		stopwords:    defaultStopwords(),
	}
}

// Name identifies the summarizer when it stands in for a generator.
func (s *FrequencySummarizer) Name() string { return "extractive" }

// Answer builds an extractive answer to query from ranked chunks.
func (s *FrequencySummarizer) Answer(query string, chunks []domain.RankedChunk, maxSentences int) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return s.summarize(strings.Join(texts, "\n\n"), s.queryTerms(query), maxSentences)
}

// Summarize returns the maxSentences highest scoring sentences of text in
// their original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) string {
	return s.summarize(text, nil, maxSentences)
}

func (s *FrequencySummarizer) summarize(text string, query map[string]struct{}, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = DefaultAnswerSentences
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		score := 0.0
		for _, tok := range toks {
			score += freq[tok]
			if _, ok := query[tok]; ok {
				score += queryWeight
			}
		}
		// length normalisation
		if l := float64(len(toks)); l > 0 {
			score /= math.Sqrt(l)
		}
		scores[i] = scored{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}

	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, sentences[idx])
	}
	return strings.Join(out, " ")
}

func (s *FrequencySummarizer) queryTerms(query string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, tok := range s.tokens(query) {
		if _, stop := s.stopwords[tok]; !stop {
			terms[tok] = struct{}{}
		}
	}
	return terms
}

func (s *FrequencySummarizer) tokens(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// splitSentences returns trimmed sentences, keeping a trailing fragment that
// lacks terminal punctuation.
func splitSentences(text string) []string {
	var out []string
	end := 0
	for _, loc := range sentencePattern.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[loc[0]:loc[1]]); s != "" {
			out = append(out, s)
		}
		end = loc[1]
	}
	if rest := strings.TrimSpace(text[end:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "who", "where", "when", "how", "why",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
