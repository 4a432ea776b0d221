package ubl

import (
	"errors"
	"fmt"
)

// ErrUnparsableDocument is returned when the uploaded file cannot be parsed
// as XML at all. Missing individual fields are never an error; they degrade
// to empty values.
var ErrUnparsableDocument = errors.New("document cannot be parsed as XML")

// ExtractionError wraps extraction failures with the operation that failed.
type ExtractionError struct {
	Op      string
	Err     error
	Details string
}

func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ubl: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ubl: %s failed: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
