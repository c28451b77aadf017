package evaluation

import (
	"errors"
	"fmt"

	"hv-analyzer/internal/extract"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	ErrorCodeValidation     = "validation_error"
	ErrorCodeExtraction     = "text_extraction_failed"
	ErrorCodeConfiguration  = "configuration_error"
	ErrorCodeInternal       = "internal"
	ErrorCodeRequestTooLong = "payload_too_large"
	ErrorCodeCanceled       = "request_canceled"
)

// ValidationError names the submission field that is missing or invalid.
type ValidationError struct {
	Field string
	Issue string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Issue)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ExtractionError reports that no usable text could be read from the upload.
type ExtractionError struct {
	Result extract.Result
}

func (e *ExtractionError) Error() string {
	if e.Result.Err != nil {
		return fmt.Sprintf("could not extract text (%s): %v", e.Result.Reason(), e.Result.Err)
	}
	return fmt.Sprintf("could not extract text (%s)", e.Result.Reason())
}

// Reason is the machine readable extraction status.
func (e *ExtractionError) Reason() string {
	return e.Result.Reason()
}
