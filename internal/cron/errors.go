package cron

import (
	"errors"
	"fmt"
)

// ErrMalformedExpression matches every *MalformedExpressionError via errors.Is.
var ErrMalformedExpression = errors.New("malformed cron expression")

// MalformedExpressionError identifies the cron field that failed to parse.
// Field is one of minute, hour, day-of-month, month, day-of-week, or
// "expression" when the field count itself is wrong.
type MalformedExpressionError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed cron expression: %s field %q: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedExpression) work.
func (e *MalformedExpressionError) Is(target error) bool {
	return target == ErrMalformedExpression
}
