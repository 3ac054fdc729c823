// Package authors models blog post bylines: the Author record, the read-only
// directory of known authors, the reference union found in frontmatter, and
// the resolver that turns references into authors.
package authors

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Author is a fully populated byline entry.
type Author struct {
	Name    string `json:"name" yaml:"name" validate:"required,min=1"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Picture string `json:"picture,omitempty" yaml:"picture,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
}

// Issue describes one invalid Author attribute. Field is the frontmatter key.
type Issue struct {
	Field  string
	Reason string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports every invalid attribute of a. A nil result means a is valid.
func (a Author) Validate() []Issue {
	err := validate.Struct(a)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Issue{{Field: "name", Reason: err.Error()}}
	}
	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, Issue{Field: fe.Field(), Reason: reasonFor(fe)})
	}
	return issues
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return "must not be empty"
	case "url":
		return "invalid url"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
