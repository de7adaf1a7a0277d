package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"docintel/internal/agent"
	"docintel/internal/chunker"
	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/loader"
	"docintel/internal/retriever"
	"docintel/internal/synthesizer"
	"docintel/internal/vectorstore"
	"docintel/internal/vectorstore/memory"
)

// IngestSummary describes one corpus build.
type IngestSummary struct {
	BuildID   string            `json:"build_id"`
	Documents []string          `json:"documents"`
	Skipped   []string          `json:"skipped,omitempty"`
	Chunks    int               `json:"chunks"`
	Stats     domain.IndexStats `json:"stats"`
	Summary   string            `json:"summary"`
	Duration  time.Duration     `json:"duration"`
}

type RAGServiceImpl struct {
	cfg        *config.AppConfig
	loader     *loader.FileLoader
	store      vectorstore.Storage
	retriever  *retriever.Retriever
	agent      *agent.Agent
	summarizer *synthesizer.FrequencySummarizer
	logger     *logrus.Entry

	// serialises builds and loads; searches read the published snapshot
	buildMu sync.Mutex
}

// NewRAGService wires the retrieval pipeline. generator may be nil, in which
// case answers are extracted from the retrieved passages.
func NewRAGService(cfg *config.AppConfig, generator domain.Generator, logger *logrus.Entry) *RAGServiceImpl {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	store := memory.NewStorage(cfg.Index.MaxFeatures)
	r := retriever.New(store)
	return &RAGServiceImpl{
		cfg:       cfg,
		loader:    loader.New(),
		store:     store,
		retriever: r,
		agent: agent.New(r, generator, agent.Options{
			Threshold:       cfg.Retrieval.Threshold,
			MaxContextChars: cfg.Context.MaxChars,
		}, logger),
		summarizer: synthesizer.NewFrequencySummarizer(),
		logger:     logger.WithField("component", "service"),
	}
}

// IngestDocuments loads, chunks and indexes every supported file under paths,
// replacing the current index.
func (s *RAGServiceImpl) IngestDocuments(ctx context.Context, paths []string) (*IngestSummary, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()
	buildID := uuid.NewString()
	log := s.logger.WithField("build_id", buildID)

	docs, skipped, err := s.loader.LoadAll(paths)
	if err != nil {
		return nil, err
	}
	for _, p := range skipped {
		log.WithField("path", p).Debug("skipping unsupported file")
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no supported documents found", domain.ErrEmptyCorpus)
	}

	ch := newChunker(s.cfg.Chunker)
	var all []domain.Chunk
	var names []string
	var text strings.Builder
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks, err := ch.Chunk(d)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", d.ID, err)
		}
		log.WithFields(logrus.Fields{
			"document": d.ID,
			"pages":    len(d.Pages),
			"chunks":   len(chunks),
		}).Debug("document chunked")
		all = append(all, chunks...)
		names = append(names, d.ID)
		for _, p := range d.Pages {
			text.WriteString(p.Text)
			text.WriteString("\n")
		}
	}

	if err := s.store.Build(all); err != nil {
		return nil, err
	}

	summary := &IngestSummary{
		BuildID:   buildID,
		Documents: names,
		Skipped:   skipped,
		Chunks:    len(all),
		Stats:     s.store.Stats(),
		Summary:   s.summarizer.Summarize(text.String(), synthesizer.DefaultAnswerSentences),
		Duration:  time.Since(start),
	}
	log.WithFields(logrus.Fields{
		"documents":  len(names),
		"chunks":     summary.Chunks,
		"vocabulary": summary.Stats.VocabularySize,
		"took":       summary.Duration,
	}).Info("index built")
	return summary, nil
}

// SaveIndex persists the current index to path, or the configured path when empty.
func (s *RAGServiceImpl) SaveIndex(path string) error {
	path = s.indexPath(path)
	if err := vectorstore.SaveFile(s.store, path); err != nil {
		return err
	}
	s.logger.WithField("path", path).Info("index saved")
	return nil
}

// LoadIndex replaces the current index with the blob at path, or the
// configured path when empty.
func (s *RAGServiceImpl) LoadIndex(path string) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	path = s.indexPath(path)
	if err := vectorstore.LoadFile(s.store, path); err != nil {
		return err
	}
	st := s.store.Stats()
	s.logger.WithFields(logrus.Fields{
		"path":   path,
		"chunks": st.TotalChunks,
	}).Info("index loaded")
	return nil
}

// Query ranks passages for query. document, when set, restricts results to it.
func (s *RAGServiceImpl) Query(query string, limit int, threshold float64, document string) ([]domain.RankedChunk, error) {
	return s.retriever.Retrieve(query, limit, threshold, document)
}

// Ask answers query in mode, bounded by the configured generation timeout.
func (s *RAGServiceImpl) Ask(ctx context.Context, query, mode string) (*agent.Response, error) {
	if t := s.cfg.Generator.Timeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	return s.agent.ProcessQuery(ctx, query, mode)
}

// History returns recent question and answer exchanges.
func (s *RAGServiceImpl) History() []agent.Exchange {
	return s.agent.History()
}

// Stats describes the current index.
func (s *RAGServiceImpl) Stats() domain.IndexStats {
	return s.store.Stats()
}

// DocumentChunks returns every chunk of document in order.
func (s *RAGServiceImpl) DocumentChunks(document string) []domain.Chunk {
	return s.retriever.DocumentChunks(document)
}

func (s *RAGServiceImpl) indexPath(path string) string {
	if path != "" {
		return path
	}
	return s.cfg.Index.Path
}

// newChunker creates a chunker with a fresh ID sequence so every build
// numbers its chunks from zero.
func newChunker(cfg config.ChunkerConfig) domain.Chunker {
	seq := chunker.NewSequence()
	if cfg.Type == config.ChunkerSentence {
		return chunker.NewSentenceChunker(cfg.SentencesPerChunk, cfg.OverlapSentences, seq)
	}
	return chunker.NewParagraphChunker(chunker.Config{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		MinChunkSize: cfg.MinChunkSize,
	}, seq)
}
