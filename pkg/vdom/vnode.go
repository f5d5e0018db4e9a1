package vdom

import (
	"fmt"
	"strings"
)

// VKind is the node type discriminator.
//
// The set of kinds is closed. Code that switches over VKind is expected to
// handle every kind and panic on anything else, so adding a kind is a change
// that every switch has to acknowledge.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindBoundary               // Lazy-content boundary with a fallback
	KindComponent              // Component host
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindBoundary:
		return "Boundary"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is the client render node.
//
// A VNode tree is owned by whatever evaluated the components. Reconciliation
// reads it and never mutates it.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes and event handlers
	Children []*VNode  // Child nodes (boundary content for KindBoundary)
	Key      string    // Reconciliation key
	Text     string    // For KindText
	Comp     Component // For KindComponent

	// Fallback is the placeholder presentation of a boundary.
	Fallback *VNode

	// ShowFallback reports that the boundary is currently presenting its
	// fallback because its content is not resolvable yet.
	ShowFallback bool
}

// Props holds attributes and event handlers.
type Props map[string]any

// IsInteractive returns true if this node has event handlers.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if IsEventHandler(key) {
			return true
		}
	}
	return false
}

// Content returns the nodes a transparent node stands for: the rendered
// output of a component host, the children of a fragment, or the content of
// a boundary. Elements and text return nil.
func (v *VNode) Content() []*VNode {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindElement, KindText:
		return nil
	case KindFragment, KindBoundary:
		return v.Children
	case KindComponent:
		if v.Comp != nil {
			if out := v.Comp.Render(); out != nil {
				return []*VNode{out}
			}
			return nil
		}
		return v.Children
	default:
		panic(fmt.Sprintf("vdom: unknown node kind %d", v.Kind))
	}
}

// IsEventHandler returns true if the key is an event handler (starts with "on").
// Case-insensitive to catch onclick, ONCLICK, onClick, OnLoad, etc.
func IsEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Function to call
}

// Component is anything that can render to a VNode.
type Component interface {
	Render() *VNode
}

// FuncComponent wraps a render function.
type FuncComponent struct {
	render func() *VNode
}

// Render implements Component.
func (f *FuncComponent) Render() *VNode {
	return f.render()
}

// Func creates a component from a render function.
func Func(render func() *VNode) Component {
	return &FuncComponent{render: render}
}
