package markup

import "strings"

// Builder appends nodes to a new Tree. A Builder is single use: after Build
// the tree is frozen and further appends panic.
type Builder struct {
	nodes []Node
	done  bool
}

// NewBuilder creates a Builder holding only the root node.
func NewBuilder() *Builder {
	return &Builder{
		nodes: []Node{{
			Kind:        KindRoot,
			Parent:      NoNode,
			FirstChild:  NoNode,
			LastChild:   NoNode,
			NextSibling: NoNode,
		}},
	}
}

// Root returns the root node ID.
func (b *Builder) Root() NodeID {
	return 0
}

// Element appends an element under parent.
func (b *Builder) Element(parent NodeID, tag string, attrs ...Attr) NodeID {
	return b.append(parent, Node{Kind: KindElement, Tag: strings.ToLower(tag), Attrs: attrs})
}

// Text appends a text node under parent.
func (b *Builder) Text(parent NodeID, text string) NodeID {
	return b.append(parent, Node{Kind: KindText, Text: text})
}

// Boundary appends a boundary region under parent.
func (b *Builder) Boundary(parent NodeID, status BoundaryStatus) NodeID {
	return b.append(parent, Node{Kind: KindBoundary, Status: status})
}

// Build freezes the builder and returns the tree.
func (b *Builder) Build() *Tree {
	b.done = true
	return &Tree{nodes: b.nodes}
}

func (b *Builder) append(parent NodeID, n Node) NodeID {
	if b.done {
		panic("markup: append after Build")
	}
	if parent < 0 || int(parent) >= len(b.nodes) {
		panic("markup: parent out of range")
	}
	switch b.nodes[parent].Kind {
	case KindText:
		panic("markup: text nodes cannot have children")
	}

	id := NodeID(len(b.nodes))
	n.Parent = parent
	n.FirstChild = NoNode
	n.LastChild = NoNode
	n.NextSibling = NoNode
	b.nodes = append(b.nodes, n)

	p := &b.nodes[parent]
	if p.LastChild == NoNode {
		p.FirstChild = id
	} else {
		b.nodes[p.LastChild].NextSibling = id
	}
	p.LastChild = id
	return id
}
