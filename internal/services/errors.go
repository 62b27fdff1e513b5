package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDocumentNotFound is returned by chat when the identifier was never
// produced by a prior analysis.
var ErrDocumentNotFound = errors.New("document not found")

// ExtractionError means the upload could not be parsed as a PDF. The caller
// must report it instead of continuing with empty text.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from PDF: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ModelCallError records the failure of a single candidate endpoint.
type ModelCallError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *ModelCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model call to %s failed with status %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("model call to %s failed: %s", e.URL, e.Message)
}

// AttemptsError aggregates the per-candidate failures after every endpoint
// in the candidate list has been tried.
type AttemptsError struct {
	Attempts []error
}

func (e *AttemptsError) Error() string {
	msgs := make([]string, 0, len(e.Attempts))
	for _, err := range e.Attempts {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("all %d model endpoints failed: %s", len(e.Attempts), strings.Join(msgs, "; "))
}
