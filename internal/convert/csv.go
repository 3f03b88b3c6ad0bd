package convert

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// convertCSV renders tabular data as a markdown pipe table so the structure
// extractor downstream sees the rows as table elements.
func convertCSV(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	res := &Result{Title: titleFromPath(path), Method: "csv-table"}
	if len(records) == 0 {
		return res, nil
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(c, "|", "\\|"))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	// First row is headers.
	writeRow(records[0])
	b.WriteString("|")
	for range records[0] {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, row := range records[1:] {
		writeRow(row)
	}

	res.Text = b.String()
	return res, nil
}
