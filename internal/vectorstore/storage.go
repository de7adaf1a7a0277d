package vectorstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"docintel/internal/domain"
)

// Storage is a chunk index that can also be written to and restored from a blob.
type Storage interface {
	domain.Index
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

// SaveFile serializes s to filePath, creating directories as needed.
func SaveFile(s Storage, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	file, err := os.Create(filePath) // #nosec G304 -- path comes from application config
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	if err := s.Serialize(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadFile restores s from filePath. A missing file returns os.ErrNotExist
// so callers can fall back to a fresh build.
func LoadFile(s Storage, filePath string) error {
	file, err := os.Open(filePath) // #nosec G304 -- path comes from application config
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()
	return s.Deserialize(file)
}
