package loader

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser renders Markdown blocks to plain paragraphs using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (Parsed, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Parsed{}, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var title string
	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		t := extractText(n, src)
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && title == "" {
			title = t
		}
		blocks = append(blocks, t)
	}
	return Parsed{Title: title, Pages: singlePage(paragraphs(blocks))}, nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() || isCode(n) {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Value(src))
			if node.HardLineBreak() || node.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		default:
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

func isCode(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindCodeBlock, ast.KindFencedCodeBlock:
		return true
	}
	return false
}
