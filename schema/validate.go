package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModel indicates an entity model that violates an invariant.
var ErrInvalidModel = errors.New("nestgen: invalid model")

// ModelError reports a model invariant violation.
type ModelError struct {
	Entity  string // SQLName (or TscName) of the offending entity
	Field   string // column, relation or index name, if applicable
	Message string
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	var b strings.Builder
	b.WriteString("nestgen: model error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrInvalidModel.
func (e *ModelError) Is(target error) bool {
	return target == ErrInvalidModel
}

// IsModelError reports whether the error is a ModelError.
func IsModelError(err error) bool {
	var me *ModelError
	return errors.As(err, &me)
}

// Validate checks the invariants the generator relies on. All violations
// are reported, joined.
func Validate(entities []*Entity) error {
	var errs []error
	seen := make(map[string]bool, len(entities))
	for i, e := range entities {
		if e == nil {
			errs = append(errs, &ModelError{Entity: fmt.Sprintf("#%d", i), Message: "nil entity"})
			continue
		}
		label := e.SQLName
		if label == "" {
			label = e.TscName
		}
		if e.TscName == "" {
			errs = append(errs, &ModelError{Entity: label, Field: "tscName", Message: "type name is required"})
		}
		if e.FileName == "" {
			errs = append(errs, &ModelError{Entity: label, Field: "fileName", Message: "file name is required"})
		}
		if e.TscName != "" {
			if seen[e.TscName] {
				errs = append(errs, &ModelError{Entity: label, Field: "tscName", Message: fmt.Sprintf("duplicate type name %q", e.TscName)})
			}
			seen[e.TscName] = true
		}
		errs = append(errs, e.validate(label)...)
	}
	return errors.Join(errs...)
}

func (e *Entity) validate(label string) []error {
	var errs []error
	for _, c := range e.Columns {
		if c == nil || c.Name == "" {
			errs = append(errs, &ModelError{Entity: label, Message: "column without a name"})
		}
	}
	for _, r := range e.Relations {
		if r == nil {
			errs = append(errs, &ModelError{Entity: label, Message: "nil relation"})
			continue
		}
		if !r.RelationType.Valid() {
			errs = append(errs, &ModelError{Entity: label, Field: r.FieldName, Message: fmt.Sprintf("unknown relation type %q", r.RelationType)})
		}
		if r.RelatedTable == "" {
			errs = append(errs, &ModelError{Entity: label, Field: r.FieldName, Message: "relation target is required"})
		}
	}
	primaries := 0
	for _, idx := range e.Indices {
		if idx == nil {
			errs = append(errs, &ModelError{Entity: label, Message: "nil index"})
			continue
		}
		if len(idx.Columns) == 0 {
			errs = append(errs, &ModelError{Entity: label, Field: idx.Name, Message: "index has no columns"})
		}
		if idx.Primary {
			primaries++
		}
	}
	if primaries > 1 {
		errs = append(errs, &ModelError{Entity: label, Message: fmt.Sprintf("%d primary indices, at most one allowed", primaries)})
	}
	return errs
}
