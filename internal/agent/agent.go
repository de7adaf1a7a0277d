// Package agent answers questions about indexed documents by planning the
// query, retrieving passages and handing them to a generator.
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"docintel/internal/domain"
	"docintel/internal/planner"
	"docintel/internal/synthesizer"
)

// Processing modes.
const (
	ModeQA        = "qa"
	ModeExtract   = "extract"
	ModeSummarize = "summarize"
	ModeCompare   = "compare"
)

// NotFoundAnswer is returned when retrieval yields no passages.
const NotFoundAnswer = "I couldn't find relevant information in the documents to answer your question."

const maxHistory = 10

// Retriever supplies ranked passages for a query.
type Retriever interface {
	Retrieve(query string, maxResults int, threshold float64, filterDocument string) ([]domain.RankedChunk, error)
}

// Response is the outcome of one processed query.
type Response struct {
	Answer     string               `json:"answer"`
	Sources    []synthesizer.Source `json:"sources"`
	ChunksUsed int                  `json:"chunks_used"`
	Confidence float64              `json:"confidence"`
	Mode       string               `json:"mode"`
	Summary    string               `json:"summary"`
	Generator  string               `json:"generator"`
	Plan       planner.QueryPlan    `json:"plan"`
}

// Exchange is one query and its response kept in the history.
type Exchange struct {
	Query     string
	Response  Response
	Timestamp time.Time
}

// Options tune retrieval and context assembly.
type Options struct {
	Threshold       float64
	MaxContextChars int
	AnswerSentences int
}

// Agent routes queries through planning, retrieval and generation.
type Agent struct {
	retriever  Retriever
	generator  domain.Generator
	summarizer *synthesizer.FrequencySummarizer
	opts       Options
	logger     *logrus.Entry

	mu      sync.Mutex
	history []Exchange
}

// New creates an Agent. A nil generator makes the agent answer extractively
// from the retrieved passages.
func New(retriever Retriever, generator domain.Generator, opts Options, logger *logrus.Entry) *Agent {
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = synthesizer.DefaultMaxContextChars
	}
	if opts.AnswerSentences <= 0 {
		opts.AnswerSentences = synthesizer.DefaultAnswerSentences
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Agent{
		retriever:  retriever,
		generator:  generator,
		summarizer: synthesizer.NewFrequencySummarizer(),
		opts:       opts,
		logger:     logger.WithField("component", "agent"),
	}
}

// ProcessQuery answers query in the given mode. Unknown modes are treated
// as question answering. Generator errors are returned as is.
func (a *Agent) ProcessQuery(ctx context.Context, query, mode string) (*Response, error) {
	mode = normalizeMode(mode)
	plan := planner.Plan(query, mode)
	log := a.logger.WithFields(logrus.Fields{
		"mode":       mode,
		"query_type": plan.QueryType,
		"complexity": plan.Complexity,
		"max_chunks": plan.MaxChunks,
	})

	chunks, err := a.retriever.Retrieve(query, plan.MaxChunks, a.opts.Threshold, "")
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		log.Debug("no passages retrieved")
		return &Response{
			Answer:  NotFoundAnswer,
			Sources: []synthesizer.Source{},
			Mode:    mode,
			Plan:    plan,
			Summary: synthesizer.SummaryLine(nil),
		}, nil
	}

	answer, generator, err := a.answer(ctx, query, mode, chunks)
	if err != nil {
		log.WithError(err).Warn("generation failed")
		return nil, err
	}

	resp := &Response{
		Answer:     answer,
		Sources:    synthesizer.ExtractSources(chunks),
		ChunksUsed: len(chunks),
		Confidence: synthesizer.EstimateConfidence(chunks),
		Mode:       mode,
		Summary:    synthesizer.SummaryLine(chunks),
		Generator:  generator,
		Plan:       plan,
	}
	log.WithFields(logrus.Fields{
		"chunks":     resp.ChunksUsed,
		"confidence": resp.Confidence,
		"generator":  generator,
	}).Info("query answered")

	a.addToHistory(query, *resp)
	return resp, nil
}

func (a *Agent) answer(ctx context.Context, query, mode string, chunks []domain.RankedChunk) (string, string, error) {
	if a.generator == nil {
		return a.summarizer.Answer(query, chunks, a.opts.AnswerSentences), a.summarizer.Name(), nil
	}
	docContext := synthesizer.BuildContext(chunks, a.opts.MaxContextChars)
	out, err := a.generator.Generate(ctx, BuildPrompt(mode, query, docContext))
	if err != nil {
		return "", "", err
	}
	return out, a.generator.Name(), nil
}

// History returns a copy of the most recent exchanges, oldest first.
func (a *Agent) History() []Exchange {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Exchange(nil), a.history...)
}

// ClearHistory forgets all previous exchanges.
func (a *Agent) ClearHistory() {
	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()
}

func (a *Agent) addToHistory(query string, resp Response) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, Exchange{Query: query, Response: resp, Timestamp: time.Now()})
	if len(a.history) > maxHistory {
		a.history = append([]Exchange(nil), a.history[len(a.history)-maxHistory:]...)
	}
}

// Capabilities lists what the agent can do.
func Capabilities() []string {
	return []string{
		"Answer questions about documents",
		"Extract specific information",
		"Summarize document content",
		"Compare information across documents",
		"Multi-document reasoning",
		"Source citation and verification",
	}
}

func normalizeMode(mode string) string {
	switch mode {
	case ModeQA, ModeExtract, ModeSummarize, ModeCompare:
		return mode
	}
	return ModeQA
}

// BuildPrompt renders the instruction template for mode around the context.
func BuildPrompt(mode, query, docContext string) string {
	switch mode {
	case ModeExtract:
		return fmt.Sprintf(extractPrompt, docContext, query)
	case ModeSummarize:
		return fmt.Sprintf(summarizePrompt, docContext, query)
	case ModeCompare:
		return fmt.Sprintf(comparePrompt, docContext, query)
	}
	return fmt.Sprintf(qaPrompt, docContext, query)
}
