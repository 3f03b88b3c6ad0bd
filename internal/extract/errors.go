package extract

import (
	"errors"
	"fmt"
)

// Reason classifies why an extraction attempt produced no content.
type Reason string

const (
	// ReasonIneligible means the file was filtered out; it is a routing
	// decision, not a failure, and does not touch the failure counters.
	ReasonIneligible Reason = "ineligible"
	// ReasonNotFound means the file vanished between scan and extraction.
	ReasonNotFound Reason = "not_found"
	// ReasonEmptyContent means the converter succeeded but returned no text.
	ReasonEmptyContent Reason = "empty_content"
	// ReasonConversionFailure means the converter itself failed.
	ReasonConversionFailure Reason = "conversion_failure"
)

// Error is a per-file extraction failure. It never aborts a batch: callers
// log it, count it, and move on to the next file.
type Error struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %s", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.Path, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// ReasonOf returns the classification of an extraction error, or "" if the
// error did not come from this package.
func ReasonOf(err error) Reason {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Reason
	}
	return ""
}
