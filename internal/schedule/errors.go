package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidDefinition matches every *InvalidDefinitionError via errors.Is.
var ErrInvalidDefinition = errors.New("invalid schedule definition")

// InvalidDefinitionError reports a definition that violates a field-presence
// or selector invariant. Field names the offending JSON field when known.
type InvalidDefinitionError struct {
	ID     string
	Field  string
	Reason string
}

func (e *InvalidDefinitionError) Error() string {
	msg := "invalid schedule definition"
	if e.ID != "" {
		msg += fmt.Sprintf(" %q", e.ID)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", msg, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", msg, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidDefinition) work.
func (e *InvalidDefinitionError) Is(target error) bool {
	return target == ErrInvalidDefinition
}

func invalid(field, format string, args ...any) *InvalidDefinitionError {
	return &InvalidDefinitionError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
