package validation

import (
	"strings"
)

// FieldError identifies a single invalid or missing input field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FieldErrors is an ordered list of field errors. It is returned as an error
// value and never panics or aborts a validation pass.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Path + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// For returns the messages attached to path, in order.
func (e FieldErrors) For(path string) []string {
	var msgs []string
	for _, fe := range e {
		if fe.Path == path {
			msgs = append(msgs, fe.Message)
		}
	}
	return msgs
}

// Paths returns the path of every error, in order.
func (e FieldErrors) Paths() []string {
	paths := make([]string, len(e))
	for i, fe := range e {
		paths[i] = fe.Path
	}
	return paths
}

// First returns the first message, or "" when there are no errors.
func (e FieldErrors) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0].Message
}

func (e *FieldErrors) add(path, message string) {
	*e = append(*e, FieldError{Path: path, Message: message})
}

// result converts the collected errors into an error value, keeping a nil
// interface when nothing was collected.
func (e FieldErrors) result() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
