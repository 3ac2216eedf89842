package application

import (
	"fmt"
	"strings"
)

// FieldError is an inline validation failure tied to a single wizard input.
// Index positions the error within repeated inputs (room names); it is -1
// for scalar fields.
type FieldError struct {
	Field   string `json:"field"`
	Index   int    `json:"index"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s[%d]: %s", e.Field, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError bundles the field errors of one rejected submission. It
// blocks only the offending transition; nothing else changes.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

func invalidField(field string, index int, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Index: index, Message: message}}}
}
