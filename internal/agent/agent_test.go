package agent

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docintel/internal/domain"
	"docintel/internal/retriever"
	"docintel/internal/vectorstore/memory"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l.WithField("test", "agent")
}

func charterRetriever(t *testing.T) *retriever.Retriever {
	t.Helper()
	a := "The registered office of Example Bank is located in City X."
	b := "Example Bank was founded in 1995."
	idx := memory.NewStorage(1000)
	require.NoError(t, idx.Build([]domain.Chunk{
		{ID: 0, Document: "charter.pdf", PageNumber: 1, Text: a, CharCount: len(a)},
		{ID: 1, Document: "charter.pdf", PageNumber: 2, Text: b, CharCount: len(b)},
	}))
	return retriever.New(idx)
}

func TestProcessQuery_WithGenerator(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("Name").Return("mock")
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "USER QUESTION: Where is the registered office?") &&
			strings.Contains(p, "=== charter.pdf ===") &&
			strings.Contains(p, "[Page 1]")
	})).Return("It is in City X.", nil)

	a := New(charterRetriever(t), gen, Options{Threshold: 0.3}, testLogger())
	resp, err := a.ProcessQuery(context.Background(), "Where is the registered office?", ModeQA)
	require.NoError(t, err)

	assert.Equal(t, "It is in City X.", resp.Answer)
	assert.Equal(t, "mock", resp.Generator)
	assert.Equal(t, ModeQA, resp.Mode)
	assert.Equal(t, 1, resp.ChunksUsed)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "charter.pdf", resp.Sources[0].Document)
	assert.Equal(t, []int{1}, resp.Sources[0].Pages)
	assert.Greater(t, resp.Confidence, 0.0)
	assert.Equal(t, "where", resp.Plan.QueryType)
	gen.AssertExpectations(t)

	require.Len(t, a.History(), 1)
	assert.Equal(t, "Where is the registered office?", a.History()[0].Query)
}

func TestProcessQuery_NothingFound(t *testing.T) {
	gen := new(MockGenerator)
	a := New(charterRetriever(t), gen, Options{Threshold: 0.3}, testLogger())

	resp, err := a.ProcessQuery(context.Background(), "zebra migration", "summarize")
	require.NoError(t, err)
	assert.Equal(t, NotFoundAnswer, resp.Answer)
	assert.Zero(t, resp.Confidence)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, ModeSummarize, resp.Mode)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	assert.Empty(t, a.History())
}

func TestProcessQuery_GeneratorErrorPropagates(t *testing.T) {
	want := errors.New("provider unavailable")
	gen := new(MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", want)

	a := New(charterRetriever(t), gen, Options{Threshold: 0.3}, testLogger())
	resp, err := a.ProcessQuery(context.Background(), "registered office", ModeQA)
	assert.Nil(t, resp)
	assert.Same(t, want, err)
	assert.Empty(t, a.History())
}

func TestProcessQuery_ExtractiveFallback(t *testing.T) {
	a := New(charterRetriever(t), nil, Options{Threshold: 0.3}, testLogger())
	resp, err := a.ProcessQuery(context.Background(), "registered office", "unknown-mode")
	require.NoError(t, err)
	assert.Equal(t, ModeQA, resp.Mode)
	assert.Equal(t, "extractive", resp.Generator)
	assert.Contains(t, resp.Answer, "City X")
}

type erroringRetriever struct{ err error }

func (r erroringRetriever) Retrieve(string, int, float64, string) ([]domain.RankedChunk, error) {
	return nil, r.err
}

func TestProcessQuery_RetrieverError(t *testing.T) {
	_, err := New(erroringRetriever{domain.ErrInvalidArgument}, nil, Options{}, nil).
		ProcessQuery(context.Background(), "q", ModeQA)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestHistoryIsCapped(t *testing.T) {
	a := New(charterRetriever(t), nil, Options{Threshold: 0.3}, testLogger())
	for i := 0; i < 12; i++ {
		_, err := a.ProcessQuery(context.Background(), "registered office", ModeQA)
		require.NoError(t, err)
	}
	assert.Len(t, a.History(), 10)

	a.ClearHistory()
	assert.Empty(t, a.History())
}

func TestBuildPrompt(t *testing.T) {
	assert.Contains(t, BuildPrompt(ModeExtract, "q", "ctx"), "EXTRACTION REQUEST: q")
	assert.Contains(t, BuildPrompt(ModeSummarize, "q", "ctx"), "FOCUS: q")
	assert.Contains(t, BuildPrompt(ModeCompare, "q", "ctx"), "COMPARISON REQUEST: q")
	assert.Contains(t, BuildPrompt(ModeQA, "q", "ctx"), "CONTEXT FROM DOCUMENTS:\nctx")
}

func TestCapabilities(t *testing.T) {
	assert.Len(t, Capabilities(), 6)
}
