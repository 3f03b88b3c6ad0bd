package structure

import "strings"

// ElementKind tags entries in the unified element stream.
type ElementKind string

const (
	KindHeader   ElementKind = "header"
	KindListItem ElementKind = "list_item"
	KindTableRow ElementKind = "table_row"
)

// Header is a markdown heading with its nesting level.
type Header struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line_number"` // 1-based
}

// ListItem is one bullet or numbered entry.
type ListItem struct {
	Ordered bool   `json:"ordered"`
	Text    string `json:"text"`
	Line    int    `json:"line_number"`
}

// TableRow is a pipe-delimited line.
type TableRow struct {
	Text string `json:"text"`
	Line int    `json:"line_number"`
}

// Element is one entry in the document-order stream. Level is set for
// headers, Ordered for list items.
type Element struct {
	Kind    ElementKind `json:"type"`
	Level   int         `json:"level,omitempty"`
	Ordered bool        `json:"ordered,omitempty"`
	Text    string      `json:"content"`
	Line    int         `json:"line_number"`
}

// Metadata collects the structural markers found in canonical text. The
// per-kind sequences and the unified Elements stream hold the same items in
// the same encounter order.
type Metadata struct {
	Headers  []Header
	Lists    []ListItem
	Tables   []TableRow
	Elements []Element
}

// Extract scans text one line at a time and classifies each line as a
// header, list item, or table row. Classification checks apply in that
// order, so a list item containing pipes stays a list item. Line numbers
// are 1-based indices into the text's line sequence.
func Extract(text string) *Metadata {
	meta := &Metadata{}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		lineNum := i + 1

		if level, headerText, ok := parseHeader(line); ok {
			meta.Headers = append(meta.Headers, Header{Level: level, Text: headerText, Line: lineNum})
			meta.Elements = append(meta.Elements, Element{
				Kind: KindHeader, Level: level, Text: headerText, Line: lineNum,
			})
			continue
		}

		if ordered, itemText, ok := parseListItem(line); ok {
			meta.Lists = append(meta.Lists, ListItem{Ordered: ordered, Text: itemText, Line: lineNum})
			meta.Elements = append(meta.Elements, Element{
				Kind: KindListItem, Ordered: ordered, Text: itemText, Line: lineNum,
			})
			continue
		}

		if isTableRow(line) {
			meta.Tables = append(meta.Tables, TableRow{Text: line, Line: lineNum})
			meta.Elements = append(meta.Elements, Element{
				Kind: KindTableRow, Text: line, Line: lineNum,
			})
		}
	}

	return meta
}

// parseHeader matches one or more '#' followed by whitespace.
func parseHeader(line string) (level int, text string, ok bool) {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n >= len(line) {
		return 0, "", false
	}
	if line[n] != ' ' && line[n] != '\t' {
		return 0, "", false
	}
	return n, strings.TrimSpace(line[n:]), true
}

// parseListItem matches "-", "*", or "+" plus a space, or leading digits
// followed by ". ".
func parseListItem(line string) (ordered bool, text string, ok bool) {
	if len(line) >= 2 && (line[0] == '-' || line[0] == '*' || line[0] == '+') && line[1] == ' ' {
		return false, strings.TrimSpace(line[2:]), true
	}

	n := 0
	for n < len(line) && line[n] >= '0' && line[n] <= '9' {
		n++
	}
	if n > 0 && strings.HasPrefix(line[n:], ". ") {
		return true, strings.TrimSpace(line[n+2:]), true
	}
	return false, "", false
}

// isTableRow requires at least one pipe and at least two non-empty
// pipe-delimited segments.
func isTableRow(line string) bool {
	if !strings.Contains(line, "|") {
		return false
	}
	segments := 0
	for _, seg := range strings.Split(line, "|") {
		if strings.TrimSpace(seg) != "" {
			segments++
		}
	}
	return segments >= 2
}

// Clean normalizes markdown before structure extraction and chunking:
// surrounding whitespace is trimmed per line and runs of blank lines
// collapse to one.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" && len(cleaned) > 0 && cleaned[len(cleaned)-1] == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}
