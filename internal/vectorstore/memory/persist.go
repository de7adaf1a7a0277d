package memory

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"docintel/internal/domain"
	"docintel/internal/embedding/tfidf"
)

const (
	blobMagic   = "docintel-tfidf-index"
	blobVersion = 1
)

// blob is the persisted form of a snapshot.
type blob struct {
	Magic       string
	Version     int
	MaxFeatures int
	Terms       []string
	IDF         []float64
	Vectors     []tfidf.Vector
	Chunks      []domain.Chunk
}

// Serialize writes the published snapshot as a gob blob.
func (s *Storage) Serialize(w io.Writer) error {
	snap := s.current.Load()
	if snap == nil {
		return domain.ErrIndexNotBuilt
	}
	b := blob{
		Magic:       blobMagic,
		Version:     blobVersion,
		MaxFeatures: snap.vectorizer.MaxFeatures(),
		Terms:       snap.vectorizer.Terms(),
		IDF:         snap.vectorizer.IDF(),
		Vectors:     snap.vectors,
		Chunks:      snap.chunks,
	}
	if err := gob.NewEncoder(w).Encode(&b); err != nil {
		return fmt.Errorf("failed to gob encode index: %w", err)
	}
	return nil
}

// Deserialize validates a blob written by Serialize and publishes it as the
// current snapshot. Any structural problem yields a CorruptIndexError and
// leaves the current state untouched.
func (s *Storage) Deserialize(r io.Reader) error {
	var b blob
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return domain.NewCorruptIndexError("decode failed", err)
	}
	if b.Magic != blobMagic {
		return domain.NewCorruptIndexError(fmt.Sprintf("unexpected magic %q", b.Magic), nil)
	}
	if b.Version != blobVersion {
		return domain.NewCorruptIndexError(fmt.Sprintf("unsupported version %d", b.Version), nil)
	}
	if len(b.Chunks) == 0 {
		return domain.NewCorruptIndexError("no chunks", nil)
	}
	if len(b.Vectors) != len(b.Chunks) {
		return domain.NewCorruptIndexError(fmt.Sprintf("%d vectors for %d chunks", len(b.Vectors), len(b.Chunks)), nil)
	}
	vec, err := tfidf.Restore(b.Terms, b.IDF, b.MaxFeatures)
	if err != nil {
		return domain.NewCorruptIndexError("invalid vocabulary", err)
	}
	for i, v := range b.Vectors {
		if err := validateVector(v, vec.Dimension()); err != nil {
			return domain.NewCorruptIndexError(fmt.Sprintf("vector %d", i), err)
		}
	}
	seen := make(map[int]struct{}, len(b.Chunks))
	for _, ch := range b.Chunks {
		if _, dup := seen[ch.ID]; dup {
			return domain.NewCorruptIndexError(fmt.Sprintf("duplicate chunk id %d", ch.ID), nil)
		}
		seen[ch.ID] = struct{}{}
	}
	s.publish(vec, b.Chunks, b.Vectors)
	return nil
}

func validateVector(v tfidf.Vector, dimension int) error {
	if len(v.Indices) != len(v.Values) {
		return errors.New("indices and values length mismatch")
	}
	for i, idx := range v.Indices {
		if idx < 0 || idx >= dimension {
			return fmt.Errorf("column %d out of range", idx)
		}
		if i > 0 && v.Indices[i-1] >= idx {
			return errors.New("columns not strictly ascending")
		}
	}
	return nil
}
