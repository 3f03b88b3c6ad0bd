package convert

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// convertMarkdown passes markdown through untouched; it is already the
// canonical representation. The goldmark AST is used only to pull a title
// from the first top-level heading.
func convertMarkdown(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	title := firstHeading(src)
	if title == "" {
		title = titleFromPath(path)
	}

	return &Result{
		Text:   normalizeNewlines(string(src)),
		Title:  title,
		Method: "goldmark",
	}, nil
}

// firstHeading returns the text of the first heading in the document,
// preferring the first H1 over deeper levels.
func firstHeading(src []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	first := ""
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		t := string(h.Text(src))
		if t == "" {
			continue
		}
		if h.Level == 1 {
			return t
		}
		if first == "" {
			first = t
		}
	}
	return first
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
