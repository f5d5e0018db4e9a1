package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

// ErrComponentPanic is wrapped by the error returned when a component's
// Render panics outside of any boundary.
var ErrComponentPanic = errors.New("render: component panicked")

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Logger receives boundary content failures.
	// Default: slog.Default()
	Logger *slog.Logger
}

// Renderer serializes VNode trees to HTML that markup.Parse reads back
// into an equivalent tree.
type Renderer struct {
	config   RendererConfig
	prevText bool
	failures []error
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Renderer{config: config}
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	r.prevText = false
	return r.renderNode(w, node)
}

// Failures returns the boundary content failures collected since the last
// Reset. Each one was rendered as an incomplete boundary.
func (r *Renderer) Failures() []error {
	return r.failures
}

// Reset clears the collected failures.
func (r *Renderer) Reset() {
	r.prevText = false
	r.failures = nil
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node)
	case vdom.KindText:
		return r.renderText(w, node)
	case vdom.KindFragment:
		return r.renderChildren(w, node.Children)
	case vdom.KindComponent:
		return r.renderComponent(w, node)
	case vdom.KindBoundary:
		return r.renderBoundary(w, node)
	default:
		panic(fmt.Sprintf("render: unknown node kind %d", node.Kind))
	}
}

func (r *Renderer) renderChildren(w io.Writer, children []*vdom.VNode) error {
	for _, child := range children {
		if err := r.renderNode(w, child); err != nil {
			return err
		}
	}
	return nil
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode) error {
	tag := strings.ToLower(node.Tag)
	r.prevText = false

	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if vdom.IsVoidElement(tag) {
		return nil
	}

	if rawHTML, ok := node.Props["dangerouslySetInnerHTML"].(string); ok {
		if _, err := io.WriteString(w, rawHTML); err != nil {
			return err
		}
	} else if err := r.renderChildren(w, node.Children); err != nil {
		return err
	}

	r.prevText = false
	_, err := io.WriteString(w, "</"+tag+">")
	return err
}

// renderText renders a text node with HTML escaping. Adjacent text nodes
// are separated by an empty comment so the parser keeps them apart.
func (r *Renderer) renderText(w io.Writer, node *vdom.VNode) error {
	if node.Text == "" {
		return nil
	}
	if r.prevText {
		if _, err := io.WriteString(w, comment(markup.MarkerTextSeparator)); err != nil {
			return err
		}
	}
	r.prevText = true
	_, err := io.WriteString(w, escapeHTML(node.Text))
	return err
}

// renderComponent renders the output of a component host.
func (r *Renderer) renderComponent(w io.Writer, node *vdom.VNode) error {
	content, err := componentContent(node)
	if err != nil {
		return err
	}
	return r.renderChildren(w, content)
}

func componentContent(node *vdom.VNode) (content []*vdom.VNode, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrComponentPanic, p)
		}
	}()
	return node.Content(), nil
}

// renderBoundary wraps the boundary's content in markers. A boundary showing
// its fallback is marked pending; one whose content fails to render is
// marked incomplete and carries the fallback instead.
func (r *Renderer) renderBoundary(w io.Writer, node *vdom.VNode) error {
	if node.ShowFallback {
		return r.renderRegion(w, markup.MarkerBoundaryPending, func(w io.Writer) error {
			return r.renderNode(w, node.Fallback)
		})
	}

	// Content goes to a buffer first so a failure leaves no partial output.
	var buf bytes.Buffer
	sub := &Renderer{config: r.config}
	err := sub.renderChildren(&buf, node.Children)
	r.failures = append(r.failures, sub.failures...)
	if err != nil {
		r.failures = append(r.failures, err)
		r.config.Logger.Warn("boundary content failed, rendering fallback", "error", err)
		return r.renderRegion(w, markup.MarkerBoundaryIncomplete, func(w io.Writer) error {
			return r.renderNode(w, node.Fallback)
		})
	}
	return r.renderRegion(w, markup.MarkerBoundary, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	})
}

func (r *Renderer) renderRegion(w io.Writer, marker string, body func(io.Writer) error) error {
	r.prevText = false
	if _, err := io.WriteString(w, comment(marker)); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	r.prevText = false
	_, err := io.WriteString(w, comment(markup.MarkerBoundaryEnd))
	return err
}

func comment(data string) string {
	return "<!--" + data + "-->"
}

var attrAliases = map[string]string{
	"classname": "class",
	"htmlfor":   "for",
}

// renderAttributes renders all attributes for an element in name order.
func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	if len(node.Props) == 0 {
		return nil
	}

	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if skipAttr(key) {
			continue
		}
		value := node.Props[key]
		name := strings.ToLower(key)
		if alias, ok := attrAliases[name]; ok {
			// An explicit class or for wins over its alias.
			if _, explicit := node.Props[alias]; explicit {
				continue
			}
			name = alias
		}

		if b, ok := value.(bool); ok && vdom.IsBooleanAttr(name) {
			if b {
				if _, err := io.WriteString(w, " "+name); err != nil {
					return err
				}
			}
			continue
		}

		var s string
		if name == "style" {
			s = styleString(value)
			if s == "" {
				continue
			}
		} else {
			var ok bool
			if s, ok = attrToString(value); !ok {
				continue
			}
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, name, escapeAttr(s)); err != nil {
			return err
		}
	}
	return nil
}

// skipAttr reports props that never reach the markup.
func skipAttr(key string) bool {
	if strings.HasPrefix(key, "_") || vdom.IsEventHandler(key) {
		return true
	}
	switch key {
	case "key", "ref", "children", "dangerouslySetInnerHTML", "suppressHydrationWarning":
		return true
	}
	return false
}

// attrToString converts an attribute value to a string. ok is false for
// values that produce no attribute.
func attrToString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []string:
		return strings.Join(v, " "), true
	case fmt.Stringer:
		return v.String(), true
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Func, reflect.Chan, reflect.Map, reflect.Struct, reflect.Pointer:
		return "", false
	}
	return fmt.Sprintf("%v", value), true
}

// styleString serializes a style prop. Maps are written in property order
// with camelCase keys converted to CSS names.
func styleString(value any) string {
	var props map[string]string
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]string:
		props = v
	case map[string]any:
		props = make(map[string]string, len(v))
		for k, val := range v {
			if s, ok := attrToString(val); ok {
				props[k] = s
			}
		}
	default:
		s, _ := attrToString(value)
		return s
	}

	names := make([]string, 0, len(props))
	css := make(map[string]string, len(props))
	for k, val := range props {
		name := vdom.CSSProperty(k)
		names = append(names, name)
		css[name] = val
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + css[name]
	}
	return strings.Join(parts, "; ")
}
