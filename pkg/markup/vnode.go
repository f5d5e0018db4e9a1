package markup

import (
	"fmt"

	"github.com/vango-dev/hydrate/pkg/vdom"
)

// VNode converts the subtree at id into a client render tree. The root
// becomes a fragment. Pending and incomplete boundaries become boundaries
// presenting their fallback.
//
// It is meant for tooling that receives the client render as markup, such as
// the check command.
func (t *Tree) VNode(id NodeID) *vdom.VNode {
	n := t.nodes[id]
	switch n.Kind {
	case KindRoot:
		return vdom.Fragment(t.childVNodes(id))
	case KindText:
		return vdom.Text(n.Text)
	case KindElement:
		args := make([]any, 0, len(n.Attrs)+1)
		for _, a := range n.Attrs {
			args = append(args, vdom.Prop(a.Name, a.Value))
		}
		args = append(args, t.childVNodes(id))
		return vdom.CustomElement(n.Tag, args...)
	case KindBoundary:
		children := t.childVNodes(id)
		if n.Status == BoundaryComplete {
			return vdom.Boundary(nil, children)
		}
		return vdom.Suspended(vdom.Fragment(children))
	default:
		panic(fmt.Sprintf("markup: unknown node kind %d", n.Kind))
	}
}

func (t *Tree) childVNodes(id NodeID) []*vdom.VNode {
	var out []*vdom.VNode
	for c := t.nodes[id].FirstChild; c != NoNode; c = t.nodes[c].NextSibling {
		out = append(out, t.VNode(c))
	}
	return out
}
