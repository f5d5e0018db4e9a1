package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Comment markers written by the server serializer.
const (
	MarkerBoundary           = "$"
	MarkerBoundaryPending    = "$?"
	MarkerBoundaryIncomplete = "$!"
	MarkerBoundaryEnd        = "/$"
	MarkerTextSeparator      = " "
)

var (
	// ErrUnbalancedBoundary is returned when boundary markers do not pair up
	// within one sibling list.
	ErrUnbalancedBoundary = errors.New("unbalanced boundary markers")
)

// ParseOption configures Parse.
type ParseOption func(*parser)

// KeepWhitespace retains whitespace-only text nodes. By default they are
// dropped outside of <pre> and <textarea>.
func KeepWhitespace() ParseOption {
	return func(p *parser) {
		p.keepWhitespace = true
	}
}

type parser struct {
	keepWhitespace bool
}

// Parse parses an HTML fragment as body content into a Tree.
func Parse(r io.Reader, opts ...ParseOption) (*Tree, error) {
	p := newParser(opts)
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("markup: parse fragment: %w", err)
	}
	b := NewBuilder()
	if err := p.addNodes(b, b.Root(), nodes, false); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// ParseString is Parse over a string.
func ParseString(s string, opts ...ParseOption) (*Tree, error) {
	return Parse(strings.NewReader(s), opts...)
}

// ParseDocument parses a complete HTML document. The html element becomes the
// single top-level node.
func ParseDocument(r io.Reader, opts ...ParseOption) (*Tree, error) {
	p := newParser(opts)
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("markup: parse document: %w", err)
	}
	b := NewBuilder()
	if err := p.addNodes(b, b.Root(), siblings(doc.FirstChild), false); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func newParser(opts []ParseOption) *parser {
	p := &parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func siblings(first *html.Node) []*html.Node {
	var out []*html.Node
	for n := first; n != nil; n = n.NextSibling {
		out = append(out, n)
	}
	return out
}

// addNodes appends one sibling list. Boundary markers open and close regions
// within the list, so the current parent is tracked as a stack.
func (p *parser) addNodes(b *Builder, parent NodeID, nodes []*html.Node, preformatted bool) error {
	stack := []NodeID{parent}
	for _, n := range nodes {
		cur := stack[len(stack)-1]
		switch n.Type {
		case html.ElementNode:
			id := b.Element(cur, n.Data, convertAttrs(n.Attr)...)
			pre := preformatted || n.DataAtom == atom.Pre || n.DataAtom == atom.Textarea
			if err := p.addNodes(b, id, siblings(n.FirstChild), pre); err != nil {
				return err
			}
		case html.TextNode:
			if !p.keepWhitespace && !preformatted && strings.TrimSpace(n.Data) == "" {
				continue
			}
			b.Text(cur, n.Data)
		case html.CommentNode:
			switch n.Data {
			case MarkerBoundary:
				stack = append(stack, b.Boundary(cur, BoundaryComplete))
			case MarkerBoundaryPending:
				stack = append(stack, b.Boundary(cur, BoundaryPending))
			case MarkerBoundaryIncomplete:
				stack = append(stack, b.Boundary(cur, BoundaryIncomplete))
			case MarkerBoundaryEnd:
				if len(stack) == 1 {
					return fmt.Errorf("markup: closing marker without opener: %w", ErrUnbalancedBoundary)
				}
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) > 1 {
		return fmt.Errorf("markup: %d boundary region(s) left open: %w", len(stack)-1, ErrUnbalancedBoundary)
	}
	return nil
}

func convertAttrs(in []html.Attribute) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(in))
	for _, a := range in {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		out = append(out, Attr{Name: name, Value: a.Val})
	}
	return out
}
