package shared

import (
	"fmt"
	"strings"
)

// Violation describes one failed field rule.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned when input fails its schema. It never
// reaches the network.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the first violation for the named field, if any.
func (e *ValidationError) Field(name string) (Violation, bool) {
	for _, v := range e.Violations {
		if v.Field == name {
			return v, true
		}
	}
	return Violation{}, false
}

// GenerationError wraps a failed call to the language model: transport,
// non-success status, or a payload that does not match the response schema.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IdentityError carries a provider error code mapped to a user-facing message.
type IdentityError struct {
	Code    string
	Message string
}

func (e *IdentityError) Error() string {
	return e.Message
}
