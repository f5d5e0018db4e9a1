package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute from a CSS declaration string.
func StyleAttr(style string) Attr { return attr("style", style) }

// StyleMap sets the style attribute from property/value pairs. Values may be
// strings or numbers.
func StyleMap(style map[string]any) Attr { return attr("style", style) }

// CSSProperty converts a StyleMap key to its CSS property name:
// backgroundColor becomes background-color. A leading capital or an "ms"
// prefix marks a vendor property, so WebkitTransition becomes
// -webkit-transition and msTransform becomes -ms-transform. Custom
// properties (--x) are case-sensitive and kept as written.
func CSSProperty(key string) string {
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "-") {
		return key
	}

	var b strings.Builder
	b.Grow(len(key) + 4)
	if isUpper(key[0]) || (len(key) > 2 && strings.HasPrefix(key, "ms") && isUpper(key[2])) {
		b.WriteByte('-')
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if isUpper(c) {
			if i > 0 {
				b.WriteByte('-')
			}
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", index) }

// Hidden sets the hidden attribute.
func Hidden() Attr { return attr("hidden", true) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Dir sets the dir attribute.
func Dir(dir string) Attr { return attr("dir", dir) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Alt sets the alt attribute.
func Alt(text string) Attr { return attr("alt", text) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value any) Attr { return attr("value", value) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// Checked sets the checked attribute.
func Checked() Attr { return attr("checked", true) }

// Selected sets the selected attribute.
func Selected() Attr { return attr("selected", true) }

// Prop sets an arbitrary property. A nil value means the property is absent.
func Prop(key string, value any) Attr { return attr(key, value) }

// RawHTML sets the inner HTML of an element verbatim. Reconciliation does not
// descend into such elements.
func RawHTML(html string) Attr { return attr("dangerouslySetInnerHTML", html) }

// SuppressHydrationWarning exempts the element's own text and attributes from
// mismatch reporting.
func SuppressHydrationWarning() Attr { return attr("suppressHydrationWarning", true) }
