package nestgen

import (
	"fmt"
	"strings"

	"github.com/syssam/nestgen/compiler/gen"
	"github.com/syssam/nestgen/schema"
)

// Sentinel errors, usable with errors.Is on anything Generate returns.
var (
	// ErrInvalidConfig is returned for rejected options.
	ErrInvalidConfig = gen.ErrInvalidConfig
	// ErrInvalidModel is returned for models that violate an invariant.
	ErrInvalidModel = schema.ErrInvalidModel
	// ErrGenerationFailed is returned when the output cannot be written.
	ErrGenerationFailed = gen.ErrGenerationFailed
	// ErrArtifact matches the warnings of a Result.
	ErrArtifact = gen.ErrArtifact
)

// AggregateError represents the warnings of a generation run.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "nestgen: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("nestgen: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the aggregated errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &AggregateError{Errors: filtered}
}

// Warnings returns the non-fatal failures of res as one error, or nil.
func Warnings(res *gen.Result) error {
	if res == nil {
		return nil
	}
	return NewAggregateError(res.Warnings...)
}
