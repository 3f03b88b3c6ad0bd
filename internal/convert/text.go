package convert

import "os"

// convertText handles plain text and JSON files: the bytes are the content.
func convertText(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Result{
		Text:   normalizeNewlines(string(src)),
		Title:  titleFromPath(path),
		Method: "plaintext",
	}, nil
}
