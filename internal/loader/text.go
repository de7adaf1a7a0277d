package loader

import (
	"io"
	"strings"

	"docintel/internal/domain"
)

// TextParser handles plain text. Form feeds separate pages.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (Parsed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Parsed{}, err
	}
	return Parsed{Pages: splitPages(string(data))}, nil
}

// splitPages numbers pages by position and drops blank ones.
func splitPages(text string) []domain.Page {
	var pages []domain.Page
	for i, page := range strings.Split(text, "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: i + 1, Text: page})
	}
	return pages
}
