package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
// Attributes passed to a fragment are ignored.
func Fragment(children ...any) *VNode {
	return &VNode{
		Kind:     KindFragment,
		Children: collectChildren(children),
	}
}

// Group is an alias for Fragment.
func Group(children ...any) *VNode {
	return Fragment(children...)
}

// Boundary creates a lazy-content boundary. The content is what the boundary
// shows once resolved; fallback is shown while it is not.
func Boundary(fallback *VNode, content ...any) *VNode {
	return &VNode{
		Kind:     KindBoundary,
		Children: collectChildren(content),
		Fallback: fallback,
	}
}

// Suspended creates a boundary that is presenting its fallback.
func Suspended(fallback *VNode, content ...any) *VNode {
	b := Boundary(fallback, content...)
	b.ShowFallback = true
	return b
}

// Host wraps a component in a component host node.
func Host(c Component) *VNode {
	return &VNode{
		Kind: KindComponent,
		Comp: c,
	}
}

// HostOf creates a component host whose output is already evaluated.
func HostOf(children ...any) *VNode {
	return &VNode{
		Kind:     KindComponent,
		Children: collectChildren(children),
	}
}

func collectChildren(args []any) []*VNode {
	var out []*VNode
	for _, child := range args {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				out = append(out, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					out = append(out, c)
				}
			}
		case string:
			out = append(out, Text(v))
		case Component:
			out = append(out, Host(v))
		}
	}
	return out
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}
