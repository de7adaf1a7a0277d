// Package loader extracts per-page text from source files.
package loader

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"docintel/internal/domain"
)

// Parsed is the text extracted from one file.
type Parsed struct {
	Title string
	Pages []domain.Page
}

// Parser converts raw file bytes into pages.
type Parser interface {
	Parse(r io.Reader, filename string) (Parsed, error)
}

// SupportedExtensions lists file extensions the loader can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: file extension %q", domain.ErrUnsupportedType, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// FileLoader loads documents from the local filesystem.
type FileLoader struct{}

// New creates a FileLoader.
func New() *FileLoader { return &FileLoader{} }

// Load reads path and returns its pages. The document ID is the base name.
func (l *FileLoader) Load(path string) (domain.Document, error) {
	p, err := ForFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	f, err := os.Open(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return domain.Document{}, err
	}
	defer f.Close()

	name := filepath.Base(path)
	parsed, err := p.Parse(f, name)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse %s: %w", name, err)
	}
	title := parsed.Title
	if title == "" {
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return domain.Document{
		ID:    name,
		Path:  path,
		Title: title,
		Pages: parsed.Pages,
		Metadata: map[string]string{
			"path":   path,
			"title":  title,
			"format": strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
			"pages":  strconv.Itoa(len(parsed.Pages)),
		},
	}, nil
}

// LoadAll expands globs and directories in paths and loads every supported
// file in order. Unsupported files are skipped and reported.
func (l *FileLoader) LoadAll(paths []string) ([]domain.Document, []string, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, nil, err
	}
	var docs []domain.Document
	var skipped []string
	for _, file := range files {
		if !IsSupportedExtension(file) {
			skipped = append(skipped, file)
			continue
		}
		doc, err := l.Load(file)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, doc)
	}
	return docs, skipped, nil
}

// Expand resolves glob patterns and walks directories. Results keep argument
// order; matches of a single argument are sorted. Duplicates are dropped.
func Expand(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, arg := range paths {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q", domain.ErrInvalidArgument, arg)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: %w", arg, fs.ErrNotExist)
		}
		sort.Strings(matches)
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				add(m)
				continue
			}
			err = filepath.WalkDir(m, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					add(p)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// paragraphs joins non-empty blocks with blank lines so the chunker sees
// paragraph boundaries.
func paragraphs(blocks []string) string {
	kept := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b = strings.TrimSpace(b); b != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}

func singlePage(text string) []domain.Page {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []domain.Page{{Number: 1, Text: text}}
}
