package markup

import "strings"

// NodeID addresses a node inside a Tree.
type NodeID int32

// NoNode is the zero link: no parent, child or sibling.
const NoNode NodeID = -1

// Kind is the markup node type.
type Kind uint8

const (
	KindRoot     Kind = iota // Container of the top-level nodes
	KindElement              // <div>, <p>, ...
	KindText                 // Character data
	KindBoundary             // Region delimited by boundary markers
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindBoundary:
		return "Boundary"
	default:
		return "Unknown"
	}
}

// BoundaryStatus records how far the server got with a boundary's content.
type BoundaryStatus uint8

const (
	// BoundaryComplete means the region holds the boundary's real content.
	BoundaryComplete BoundaryStatus = iota
	// BoundaryPending means the server sent the fallback and the content was
	// still outstanding.
	BoundaryPending
	// BoundaryIncomplete means the server failed to produce the content and
	// the region holds the fallback.
	BoundaryIncomplete
)

// String returns the string representation of the BoundaryStatus.
func (s BoundaryStatus) String() string {
	switch s {
	case BoundaryComplete:
		return "complete"
	case BoundaryPending:
		return "pending"
	case BoundaryIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// Attr is one attribute in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is one arena slot. Links are NodeIDs into the same Tree.
type Node struct {
	Kind   Kind
	Tag    string // lower-case element name
	Attrs  []Attr
	Text   string
	Status BoundaryStatus

	Parent      NodeID
	FirstChild  NodeID
	LastChild   NodeID
	NextSibling NodeID
}

// Tree is an immutable arena of markup nodes. Node 0 is always the root.
type Tree struct {
	nodes []Node
}

// Root returns the root node ID.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Valid reports whether id addresses a node of t.
func (t *Tree) Valid(id NodeID) bool {
	return t != nil && id >= 0 && int(id) < len(t.nodes)
}

// Node returns a copy of the node. The Attrs slice is shared and must not be
// modified.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Kind returns the kind of the node.
func (t *Tree) Kind(id NodeID) Kind { return t.nodes[id].Kind }

// Tag returns the element tag, or "" for non-elements.
func (t *Tree) Tag(id NodeID) string { return t.nodes[id].Tag }

// Text returns the character data of a text node.
func (t *Tree) Text(id NodeID) string { return t.nodes[id].Text }

// Status returns the boundary status of a boundary node.
func (t *Tree) Status(id NodeID) BoundaryStatus { return t.nodes[id].Status }

// Attrs returns the attributes in document order.
func (t *Tree) Attrs(id NodeID) []Attr { return t.nodes[id].Attrs }

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].Parent }

// Attr returns the value of the named attribute.
func (t *Tree) Attr(id NodeID, name string) (string, bool) {
	for _, a := range t.nodes[id].Attrs {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns the child IDs of id in document order.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.nodes[id].FirstChild; c != NoNode; c = t.nodes[c].NextSibling {
		out = append(out, c)
	}
	return out
}

// HasChildren reports whether id has at least one child.
func (t *Tree) HasChildren(id NodeID) bool {
	return t.nodes[id].FirstChild != NoNode
}

// Ancestors returns the chain from the root's first descendant down to and
// including id. The root itself is omitted.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var chain []NodeID
	for n := id; n != NoNode && n != t.Root(); n = t.nodes[n].Parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Walk visits id and its descendants in document order. Returning false from
// fn skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !fn(id) {
		return
	}
	for c := t.nodes[id].FirstChild; c != NoNode; c = t.nodes[c].NextSibling {
		t.Walk(c, fn)
	}
}

// Contains reports whether id is ancestor itself or one of its descendants.
func (t *Tree) Contains(ancestor, id NodeID) bool {
	for n := id; n != NoNode; n = t.nodes[n].Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}
