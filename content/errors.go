package content

import (
	"fmt"
	"strings"
)

// FieldError is a single invalid field. Path uses dots for object keys and
// brackets for list indices, e.g. "authors[1].url".
type FieldError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Reason
}

// ValidationError collects every field error found in one record.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return "invalid frontmatter: " + strings.Join(parts, "; ")
}

// Has reports whether a field error was recorded for path.
func (e *ValidationError) Has(path string) bool {
	for _, fe := range e.Errors {
		if fe.Path == path {
			return true
		}
	}
	return false
}

// Reason returns the first reason recorded for path.
func (e *ValidationError) Reason(path string) string {
	for _, fe := range e.Errors {
		if fe.Path == path {
			return fe.Reason
		}
	}
	return ""
}

// collector accumulates field errors; validation never stops at the first one.
type collector struct {
	errs []FieldError
}

func (c *collector) add(path, reason string) {
	c.errs = append(c.errs, FieldError{Path: path, Reason: reason})
}

func (c *collector) addf(path, format string, args ...any) {
	c.add(path, fmt.Sprintf(format, args...))
}

func (c *collector) mark() int {
	return len(c.errs)
}

func (c *collector) failedSince(mark int) bool {
	return len(c.errs) > mark
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: c.errs}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
