package hydrate

import (
	"fmt"
	"strings"

	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

// walker performs one synchronized traversal. It is used once and thrown
// away; neither tree is modified.
type walker struct {
	opts   *Options
	tree   *markup.Tree
	ignore func(string) bool
	result *Result

	bounds     boundaryStack
	serverPath Path
	clientPath Path

	// pre counts enclosing <pre>/<textarea> elements, where white space
	// is content.
	pre int

	// suppressText is set while walking the children of an element marked
	// with suppressHydrationWarning.
	suppressText bool
}

func newWalker(tree *markup.Tree, opts *Options) *walker {
	w := &walker{
		opts:   opts,
		tree:   tree,
		result: &Result{},
	}
	if len(opts.IgnoreAttrs) > 0 {
		ignored := make(map[string]bool, len(opts.IgnoreAttrs))
		for _, name := range opts.IgnoreAttrs {
			ignored[strings.ToLower(name)] = true
		}
		w.ignore = func(name string) bool { return ignored[name] }
	}
	return w
}

// walkSiblings pairs two sibling sequences head to head. It returns the
// first escalation found in them or their descendants that is not contained
// by a boundary below, and stops there.
//
// Extra nodes always escalate, so the server and client cursors stay equal
// and a single index serves both.
func (w *walker) walkSiblings(server []markup.NodeID, client []*vdom.VNode) *Escalation {
	for i := 0; ; i++ {
		st := site{server: server, client: client, index: i}
		switch {
		case i >= len(server) && i >= len(client):
			return nil
		case i >= len(server):
			return w.handle(w.extraOnClient(st, len(client)))
		case i >= len(client):
			return w.handle(w.extraOnServer(st, len(server)))
		}

		if Matches(w.tree, server[i], client[i]) {
			if esc := w.visit(st); esc != nil {
				return esc
			}
			continue
		}

		// Client-side insertion wins the tie.
		if k := w.findClient(server[i], client, i+1); k >= 0 {
			return w.handle(w.extraOnClient(st, k))
		}
		if l := w.findServer(client[i], server, i+1); l >= 0 {
			return w.handle(w.extraOnServer(st, l))
		}
		if esc := w.handle(w.classify(TypeMismatch, st, true, true)); esc != nil {
			return esc
		}
	}
}

// findClient returns the first index k >= from whose client node matches
// the server node, or -1.
func (w *walker) findClient(server markup.NodeID, client []*vdom.VNode, from int) int {
	end := w.lookaheadEnd(from, len(client))
	for k := from; k < end; k++ {
		if Matches(w.tree, server, client[k]) {
			return k
		}
	}
	return -1
}

// findServer returns the first index l >= from whose server node matches
// the client node, or -1.
func (w *walker) findServer(client *vdom.VNode, server []markup.NodeID, from int) int {
	end := w.lookaheadEnd(from, len(server))
	for l := from; l < end; l++ {
		if Matches(w.tree, server[l], client) {
			return l
		}
	}
	return -1
}

func (w *walker) lookaheadEnd(from, n int) int {
	if w.opts.Lookahead > 0 && from+w.opts.Lookahead < n {
		return from + w.opts.Lookahead
	}
	return n
}

// visit descends into a matched pair.
func (w *walker) visit(st site) *Escalation {
	sid, v := st.server[st.index], st.client[st.index]
	switch v.Kind {
	case vdom.KindText:
		return w.visitText(st, sid, v)
	case vdom.KindElement:
		return w.visitElement(st, sid, v)
	case vdom.KindBoundary:
		return w.visitBoundary(st, sid, v)
	case vdom.KindFragment, vdom.KindComponent:
		panic("hydrate: transparent node reached the walker unflattened")
	default:
		panic(fmt.Sprintf("hydrate: unknown node kind %d", v.Kind))
	}
}

func (w *walker) visitText(st site, sid markup.NodeID, v *vdom.VNode) *Escalation {
	if w.suppressText {
		return nil
	}
	serverText := w.tree.Text(sid)
	if w.opts.Text.Normalize(serverText) == w.opts.Text.Normalize(v.Text) {
		return nil
	}
	return w.handle(w.textMismatch(st, serverText, v.Text))
}

func (w *walker) visitElement(st site, sid markup.NodeID, v *vdom.VNode) *Escalation {
	suppress := truthy(v.Props["suppressHydrationWarning"])
	if !suppress {
		if deltas := DiffAttrs(w.tree.Attrs(sid), v.Props, w.ignore); len(deltas) > 0 {
			// Attribute mismatches never escalate.
			w.handle(w.attrMismatch(st, deltas))
		}
	}

	// Inner HTML set directly is not owned by the render tree.
	if v.Props["dangerouslySetInnerHTML"] != nil {
		return nil
	}

	pre := isPreformatted(v.Tag)
	if pre {
		w.pre++
	}
	w.serverPath = append(w.serverPath, serverEntry(w.tree, sid))
	w.clientPath = append(w.clientPath, clientEntry(v))
	outer := w.suppressText
	w.suppressText = suppress

	esc := w.walkSiblings(w.serverChildren(sid), w.flatten(v.Children))

	w.suppressText = outer
	w.serverPath = w.serverPath[:len(w.serverPath)-1]
	w.clientPath = w.clientPath[:len(w.clientPath)-1]
	if pre {
		w.pre--
	}
	return esc
}

func (w *walker) visitBoundary(st site, sid markup.NodeID, v *vdom.VNode) *Escalation {
	frame := w.bounds.push(sid, v)
	defer w.bounds.pop()
	w.result.Boundaries = append(w.result.Boundaries, frame)

	switch w.tree.Status(sid) {
	case markup.BoundaryIncomplete:
		return contain(w.handle(w.classify(BoundaryIncomplete, st, true, true)), frame)
	case markup.BoundaryPending:
		frame.State = FallbackRendered
		return nil
	}
	if v.ShowFallback {
		frame.State = FallbackRendered
		return nil
	}

	frame.State = ContentHydrating
	if esc := w.walkSiblings(w.serverChildren(sid), w.flatten(v.Children)); esc != nil {
		return contain(esc, frame)
	}
	frame.State = ContentHydrated
	return nil
}

// handle applies the recovery policy to m. It records patches and returns
// nil when m is repaired in place, and returns the escalation otherwise.
func (w *walker) handle(m *Mismatch) *Escalation {
	scope := Decide(m.Kind, w.opts.Mode, w.bounds.top() != nil)
	if scope == LocalPatchable {
		w.result.Patches = append(w.result.Patches, patchesFor(m)...)
		w.result.Repaired = append(w.result.Repaired, m)
		w.result.Diagnostics = append(w.result.Diagnostics, w.diagnose(m, scope))
		return nil
	}

	esc := &Escalation{Scope: scope, Mismatch: m}
	if scope == ThisBoundary {
		esc.Boundary = w.bounds.top()
		esc.Boundary.State = ClientDiscarded
	} else {
		w.result.Diagnostics = append(w.result.Diagnostics, treeNotice(m))
	}
	esc.Diagnostic = w.diagnose(m, scope)
	w.result.Diagnostics = append(w.result.Diagnostics, esc.Diagnostic)
	w.result.Escalations = append(w.result.Escalations, esc)
	if w.result.Escalation == nil || scope == WholeTree {
		w.result.Escalation = esc
	}
	return esc
}

// contain absorbs an escalation that discards frame itself, so that the
// parent cursor moves on past the boundary. Anything wider passes through.
func contain(esc *Escalation, frame *BoundaryFrame) *Escalation {
	if esc != nil && esc.Scope == ThisBoundary && esc.Boundary == frame {
		return nil
	}
	return esc
}

func patchesFor(m *Mismatch) []Patch {
	switch m.Kind {
	case TextMismatch:
		return []Patch{{Op: PatchSetText, Target: m.Server, Value: m.ClientText}}
	case AttributeMismatch:
		return attrPatches(m.Server, m.Attrs)
	case TypeMismatch:
		return []Patch{{Op: PatchReplaceNode, Target: m.Server, Node: m.Client}}
	default:
		panic(fmt.Sprintf("hydrate: %s cannot be patched", m.Kind))
	}
}

// serverChildren returns the children of id that take part in matching.
func (w *walker) serverChildren(id markup.NodeID) []markup.NodeID {
	children := w.tree.Children(id)
	out := make([]markup.NodeID, 0, len(children))
	for _, c := range children {
		if w.tree.Kind(c) == markup.KindText && w.skipText(w.tree.Text(c)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// flatten splices fragments and component hosts into one sibling sequence
// and drops text that has no server counterpart.
func (w *walker) flatten(nodes []*vdom.VNode) []*vdom.VNode {
	out := make([]*vdom.VNode, 0, len(nodes))
	return w.appendFlat(out, nodes)
}

func (w *walker) appendFlat(out, nodes []*vdom.VNode) []*vdom.VNode {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		switch n.Kind {
		case vdom.KindElement, vdom.KindBoundary:
			out = append(out, n)
		case vdom.KindText:
			if !w.skipText(n.Text) {
				out = append(out, n)
			}
		case vdom.KindFragment, vdom.KindComponent:
			out = w.appendFlat(out, n.Content())
		default:
			panic(fmt.Sprintf("hydrate: unknown node kind %d", n.Kind))
		}
	}
	return out
}

// skipText reports whether a text node is left out of matching: empty text
// always, whitespace-only text outside preformatted content unless
// KeepWhitespace is set.
func (w *walker) skipText(s string) bool {
	if s == "" {
		return true
	}
	if w.opts.KeepWhitespace || w.pre > 0 {
		return false
	}
	return strings.TrimSpace(s) == ""
}

func isPreformatted(tag string) bool {
	return strings.EqualFold(tag, "pre") || strings.EqualFold(tag, "textarea")
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != "" && b != "false"
	default:
		return true
	}
}
