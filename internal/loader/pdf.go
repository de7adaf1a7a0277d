package loader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"docintel/internal/domain"
)

// PDFParser extracts one page of plain text per PDF page.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (Parsed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Parsed{}, err
	}
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Parsed{}, fmt.Errorf("open pdf: %w", err)
	}

	var pages []domain.Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: i, Text: text})
	}

	title := ""
	if info := reader.Trailer().Key("Info"); !info.IsNull() {
		title = info.Key("Title").Text()
	}
	return Parsed{Title: title, Pages: pages}, nil
}
