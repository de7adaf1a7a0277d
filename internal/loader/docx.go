package loader

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXParser extracts paragraph text from .docx files as a single page.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (Parsed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Parsed{}, err
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Parsed{}, fmt.Errorf("parse docx: %w", err)
	}

	var title string
	var blocks []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if title == "" && text != "" && isTitleStyle(para) {
			title = text
		}
		blocks = append(blocks, text)
	}
	return Parsed{Title: title, Pages: singlePage(paragraphs(blocks))}, nil
}

func isTitleStyle(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	return style == "title" || style == "heading1"
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
