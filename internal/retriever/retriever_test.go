package retriever

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docintel/internal/domain"
	"docintel/internal/vectorstore/memory"
)

func charterIndex(t *testing.T) *memory.Storage {
	t.Helper()
	a := "The registered office of Example Bank is located in City X."
	b := "Example Bank was founded in 1995."
	idx := memory.NewStorage(1000)
	require.NoError(t, idx.Build([]domain.Chunk{
		{ID: 0, Document: "charter.pdf", PageNumber: 1, Text: a, CharCount: len(a)},
		{ID: 1, Document: "charter.pdf", PageNumber: 2, Text: b, CharCount: len(b)},
	}))
	return idx
}

func TestRetrieve_RegisteredOffice(t *testing.T) {
	r := New(charterIndex(t))

	res, err := r.Retrieve("registered office address", 5, 0.3, "")
	require.NoError(t, err)
	require.NotEmpty(t, res)
	assert.LessOrEqual(t, len(res), 2)
	assert.Equal(t, "charter.pdf", res[0].Document)
	assert.Equal(t, 1, res[0].PageNumber)

	all, err := r.Retrieve("registered office address", 5, 0, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 0, all[0].ID)
	assert.Greater(t, all[0].RelevanceScore, all[1].RelevanceScore)
}

func TestRetrieve_InvalidMaxResults(t *testing.T) {
	r := New(charterIndex(t))
	_, err := r.Retrieve("bank", 0, 0.3, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	var target *domain.InvalidArgumentError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "max_results", target.Field)
}

func TestRetrieve_FilterDocument(t *testing.T) {
	idx := memory.NewStorage(1000)
	require.NoError(t, idx.Build([]domain.Chunk{
		{ID: 0, Document: "a.pdf", PageNumber: 1, Text: "dividend policy dividend policy dividend"},
		{ID: 1, Document: "b.pdf", PageNumber: 1, Text: "dividend policy of the bank"},
		{ID: 2, Document: "b.pdf", PageNumber: 2, Text: "board of directors"},
	}))
	r := New(idx)

	res, err := r.Retrieve("dividend policy", 5, 0, "b.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, res)
	for _, c := range res {
		assert.Equal(t, "b.pdf", c.Document)
	}

	none, err := r.Retrieve("dividend policy", 5, 0, "missing.pdf")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRetrieve_TruncatesToMaxResults(t *testing.T) {
	idx := memory.NewStorage(1000)
	chunks := make([]domain.Chunk, 6)
	for i := range chunks {
		chunks[i] = domain.Chunk{ID: i, Document: "d.txt", PageNumber: 1, Text: "capital reserve fund"}
	}
	require.NoError(t, idx.Build(chunks))

	res, err := New(idx).Retrieve("capital", 2, 0, "")
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestRetrieve_UnbuiltIndexIsEmpty(t *testing.T) {
	res, err := New(memory.NewStorage(10)).Retrieve("anything", 3, 0.3, "")
	require.NoError(t, err)
	assert.Empty(t, res)
}

type failingIndex struct {
	domain.Index
	err error
}

func (f failingIndex) Search(string, int, float64) ([]domain.SearchResult, error) {
	return nil, f.err
}

func TestRetrieve_PropagatesIndexErrors(t *testing.T) {
	want := errors.New("boom")
	_, err := New(failingIndex{err: want}).Retrieve("q", 3, 0.3, "")
	assert.Same(t, want, err)
}

func TestEnhanceQuery(t *testing.T) {
	cases := map[string]string{
		"registered Address":  "registered Address address registered office location",
		"who is the director": "who is the director director board member officer",
		"KYC rules":           "KYC rules kyc know your customer verification",
		"which document":      "which document document form certificate",
		"share capital":       "share capital",
	}
	for in, want := range cases {
		assert.Equal(t, want, EnhanceQuery(in), in)
	}

	// first match in table order wins
	assert.Equal(t, "director address address registered office location", EnhanceQuery("director address"))
}

func TestRerank_PhraseBonus(t *testing.T) {
	with := domain.SearchResult{Chunk: domain.Chunk{ID: 1, Text: "The Registered Office is here", CharCount: 29}, Score: 0.4}
	without := domain.SearchResult{Chunk: domain.Chunk{ID: 2, Text: "office which is registered here", CharCount: 29}, Score: 0.4}

	ranked := Rerank("registered office", []domain.SearchResult{without, with})
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].ID)
	assert.InDelta(t, PhraseBonus, ranked[0].RelevanceScore-ranked[1].RelevanceScore, 1e-12)
}

func TestRerank_Components(t *testing.T) {
	c := domain.SearchResult{Chunk: domain.Chunk{Text: "alpha beta", CharCount: 2000}, Score: 0.5}
	ranked := Rerank("alpha gamma", []domain.SearchResult{c})
	// half the terms matched, length factor saturated, no phrase match
	assert.InDelta(t, 0.5+0.05+0.05, ranked[0].RelevanceScore, 1e-12)

	empty := Rerank("", []domain.SearchResult{{Chunk: domain.Chunk{CharCount: 500}, Score: 0.1}})
	assert.InDelta(t, 0.1+0.025, empty[0].RelevanceScore, 1e-12)
}

func TestRerank_StableOnTies(t *testing.T) {
	cands := []domain.SearchResult{
		{Chunk: domain.Chunk{ID: 9, Text: "x"}, Score: 0.3},
		{Chunk: domain.Chunk{ID: 4, Text: "x"}, Score: 0.3},
		{Chunk: domain.Chunk{ID: 6, Text: "x"}, Score: 0.3},
	}
	ranked := Rerank("zzz", cands)
	assert.Equal(t, []int{9, 4, 6}, []int{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}
