package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryHydration Category = "hydration"
	CategoryProvider  Category = "provider"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// HydrateError is a structured error with a location in the tree, an excerpt
// and documentation.
type HydrateError struct {
	// Code is a unique error identifier (e.g., "E040").
	Code string

	// Category is the error type (hydration, provider, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Path locates the error in the tree, outermost first.
	Path string

	// Excerpt holds pre-rendered lines illustrating the error.
	Excerpt []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HydrateError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HydrateError) Unwrap() error {
	return e.Wrapped
}

// WithPath sets the tree location.
func (e *HydrateError) WithPath(path string) *HydrateError {
	e.Path = path
	return e
}

// WithExcerpt sets the excerpt lines.
func (e *HydrateError) WithExcerpt(lines []string) *HydrateError {
	e.Excerpt = lines
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HydrateError) WithSuggestion(s string) *HydrateError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *HydrateError) WithDetail(d string) *HydrateError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *HydrateError) Wrap(err error) *HydrateError {
	e.Wrapped = err
	return e
}

// New creates a HydrateError from a registered error code.
func New(code string) *HydrateError {
	template, ok := registry[code]
	if !ok {
		return &HydrateError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HydrateError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new HydrateError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *HydrateError {
	return &HydrateError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a HydrateError.
func FromError(err error, code string) *HydrateError {
	if err == nil {
		return nil
	}
	if he, ok := err.(*HydrateError); ok {
		return he
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first HydrateError in err's chain, or "".
func Code(err error) string {
	for err != nil {
		if he, ok := err.(*HydrateError); ok {
			return he.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
