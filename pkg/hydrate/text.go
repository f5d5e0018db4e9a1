package hydrate

import (
	"fmt"
	"strings"
)

// TextPolicy normalizes text content before server and client text nodes
// are compared. Patches always carry the raw client text.
type TextPolicy interface {
	Normalize(s string) string
}

// TextPolicyFunc adapts a function to TextPolicy.
type TextPolicyFunc func(string) string

// Normalize implements TextPolicy.
func (f TextPolicyFunc) Normalize(s string) string { return f(s) }

var (
	// DefaultText unifies line endings and drops NUL and replacement
	// characters, which HTML parsing rewrites.
	DefaultText TextPolicy = TextPolicyFunc(normalizeMarkupText)

	// ExactText compares text byte for byte.
	ExactText TextPolicy = TextPolicyFunc(func(s string) string { return s })

	// CollapseWhitespace applies DefaultText, then collapses runs of white
	// space to one space and trims both ends.
	CollapseWhitespace TextPolicy = TextPolicyFunc(func(s string) string {
		return strings.Join(strings.Fields(normalizeMarkupText(s)), " ")
	})
)

var markupTextReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\x00", "",
	"\uFFFD", "",
)

func normalizeMarkupText(s string) string {
	return markupTextReplacer.Replace(s)
}

// TextPolicyByName resolves "default", "exact" or "collapse".
func TextPolicyByName(name string) (TextPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultText, nil
	case "exact":
		return ExactText, nil
	case "collapse":
		return CollapseWhitespace, nil
	default:
		return nil, fmt.Errorf("hydrate: unknown text policy %q", name)
	}
}
