// Package tfidf implements a unigram+bigram TF-IDF vectorizer with a capped
// vocabulary and sparse, L2-normalised output vectors.
package tfidf

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 1000

// Vector is a sparse weight vector. Indices are strictly ascending.
type Vector struct {
	Indices []int
	Values  []float64
}

// IsZero reports whether the vector has no non-zero weight.
func (v Vector) IsZero() bool { return len(v.Indices) == 0 }

// Dot returns the dot product of two sparse vectors.
func (v Vector) Dot(o Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Vectorizer builds a vocabulary and IDF table from a corpus and turns text
// into TF-IDF vectors over that fixed vocabulary.
type Vectorizer struct {
	maxFeatures  int
	vocabulary   map[string]int
	terms        []string
	idf          []float64
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewVectorizer creates an unprepared vectorizer. maxFeatures <= 0 uses the default.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{
		maxFeatures:  maxFeatures,
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}_]{2,}`),
		stopwords:    englishStopwords,
	}
}

// Restore rebuilds a prepared vectorizer from a persisted vocabulary and IDF table.
func Restore(terms []string, idf []float64, maxFeatures int) (*Vectorizer, error) {
	if len(terms) == 0 {
		return nil, errors.New("empty vocabulary")
	}
	if len(terms) != len(idf) {
		return nil, fmt.Errorf("vocabulary has %d terms but %d idf weights", len(terms), len(idf))
	}
	v := NewVectorizer(maxFeatures)
	if len(terms) > v.maxFeatures {
		return nil, fmt.Errorf("vocabulary of %d terms exceeds max features %d", len(terms), v.maxFeatures)
	}
	v.vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		if term == "" {
			return nil, fmt.Errorf("empty term at column %d", i)
		}
		if _, dup := v.vocabulary[term]; dup {
			return nil, fmt.Errorf("duplicate term %q", term)
		}
		if math.IsNaN(idf[i]) || math.IsInf(idf[i], 0) || idf[i] <= 0 {
			return nil, fmt.Errorf("invalid idf %v for term %q", idf[i], term)
		}
		v.vocabulary[term] = i
	}
	v.terms = append([]string(nil), terms...)
	v.idf = append([]float64(nil), idf...)
	v.prepared = true
	return v, nil
}

// Name returns the identifier of this vectorizer.
func (v *Vectorizer) Name() string { return "tfidf" }

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.terms) }

// MaxFeatures returns the vocabulary cap.
func (v *Vectorizer) MaxFeatures() int { return v.maxFeatures }

// Terms returns the vocabulary ordered by column.
func (v *Vectorizer) Terms() []string { return append([]string(nil), v.terms...) }

// IDF returns the inverse document frequency per column.
func (v *Vectorizer) IDF() []float64 { return append([]float64(nil), v.idf...) }

// Prepare builds the vocabulary and IDF values from the provided corpus.
func (v *Vectorizer) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	total := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range v.analyze(text) {
			total[term]++
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if len(total) == 0 {
		return errors.New("no terms found in corpus")
	}

	// Keep the most frequent terms, ties broken alphabetically.
	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if total[terms[i]] != total[terms[j]] {
			return total[terms[i]] > total[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	v.vocabulary = make(map[string]int, len(terms))
	v.terms = terms
	v.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	v.prepared = true
	return nil
}

// Transform computes the L2-normalised TF-IDF vector of text. Terms outside
// the vocabulary are ignored. An unprepared vectorizer yields a zero vector.
func (v *Vectorizer) Transform(text string) Vector {
	if !v.prepared {
		return Vector{}
	}
	tf := make(map[int]int)
	for _, term := range v.analyze(text) {
		if idx, ok := v.vocabulary[term]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return Vector{}
	}
	indices := make([]int, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	norm := 0.0
	for i, idx := range indices {
		values[i] = float64(tf[idx]) * v.idf[idx]
		norm += values[i] * values[i]
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range values {
			values[i] /= norm
		}
	}
	return Vector{Indices: indices, Values: values}
}

// analyze lower-cases, tokenizes, drops stop words and emits unigrams
// followed by bigrams of the remaining tokens.
func (v *Vectorizer) analyze(text string) []string {
	raw := v.tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, isStop := v.stopwords[t]; isStop {
			continue
		}
		tokens = append(tokens, t)
	}
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
