package hydrate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

const hintTextLen = 20

// site is the place a divergence was found: the two flattened sibling
// sequences and the cursor position into them.
type site struct {
	server []markup.NodeID
	client []*vdom.VNode
	index  int
}

func (s site) serverAt(i int) markup.NodeID {
	if i < len(s.server) {
		return s.server[i]
	}
	return markup.NoNode
}

func (s site) clientAt(i int) *vdom.VNode {
	if i < len(s.client) {
		return s.client[i]
	}
	return nil
}

// classify builds the Mismatch for a divergence of kind k at st. hasServer
// and hasClient say which sides own the divergent node.
func (w *walker) classify(k MismatchKind, st site, hasServer, hasClient bool) *Mismatch {
	m := &Mismatch{
		Kind:          k,
		Server:        markup.NoNode,
		Index:         st.index,
		BoundaryDepth: w.bounds.depth(),
		ServerPath:    clonePath(w.serverPath),
		ClientPath:    clonePath(w.clientPath),
		tree:          w.tree,
		ancestors:     len(w.serverPath),
		serverSeq:     st.server,
		clientSeq:     st.client,
	}
	if hasServer {
		m.Server = st.serverAt(st.index)
		m.ServerPath = append(m.ServerPath, serverEntry(w.tree, m.Server))
	}
	if hasClient {
		m.Client = st.clientAt(st.index)
		m.ClientPath = append(m.ClientPath, clientEntry(m.Client))
	}
	return m
}

func (w *walker) textMismatch(st site, serverText, clientText string) *Mismatch {
	m := w.classify(TextMismatch, st, true, true)
	m.ServerText = serverText
	m.ClientText = clientText
	return m
}

func (w *walker) attrMismatch(st site, deltas []AttrDelta) *Mismatch {
	m := w.classify(AttributeMismatch, st, true, true)
	m.Attrs = deltas
	return m
}

// extraOnClient classifies client nodes [index, end) as having no server
// counterpart.
func (w *walker) extraOnClient(st site, end int) *Mismatch {
	m := w.classify(ExtraOnClient, st, false, true)
	m.ClientExtra = st.client[st.index:end]
	return m
}

// extraOnServer classifies server nodes [index, end) as having no client
// counterpart.
func (w *walker) extraOnServer(st site, end int) *Mismatch {
	m := w.classify(ExtraOnServer, st, true, false)
	m.ServerExtra = st.server[st.index:end]
	return m
}

func clonePath(p Path) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return out
}

// serverEntry describes a server node for an ancestor path.
func serverEntry(t *markup.Tree, id markup.NodeID) PathEntry {
	switch t.Kind(id) {
	case markup.KindElement:
		return PathEntry{Tag: t.Tag(id), Hint: serverHint(t, id)}
	case markup.KindText:
		return PathEntry{Tag: "#text", Hint: excerpt(t.Text(id), hintTextLen)}
	case markup.KindBoundary:
		return PathEntry{Tag: "#boundary"}
	case markup.KindRoot:
		return PathEntry{Tag: "#root"}
	default:
		panic(fmt.Sprintf("hydrate: unknown markup kind %d", t.Kind(id)))
	}
}

// clientEntry describes a client node for an ancestor path.
func clientEntry(v *vdom.VNode) PathEntry {
	switch v.Kind {
	case vdom.KindElement:
		return PathEntry{Tag: strings.ToLower(v.Tag), Hint: clientHint(v.Props)}
	case vdom.KindText:
		return PathEntry{Tag: "#text", Hint: excerpt(v.Text, hintTextLen)}
	case vdom.KindBoundary:
		return PathEntry{Tag: "#boundary"}
	case vdom.KindFragment:
		return PathEntry{Tag: "#fragment"}
	case vdom.KindComponent:
		return PathEntry{Tag: "#component"}
	default:
		panic(fmt.Sprintf("hydrate: unknown node kind %d", v.Kind))
	}
}

// The discriminating attribute of an element: #id, else the first class,
// else [name=...].
func serverHint(t *markup.Tree, id markup.NodeID) string {
	get := func(name string) string {
		v, _ := t.Attr(id, name)
		return v
	}
	return hint(get("id"), get("class"), get("name"))
}

func clientHint(props vdom.Props) string {
	get := func(names ...string) string {
		for _, n := range names {
			if v, ok := props[n]; ok {
				if s, ok := propValue(n, v); ok {
					return s
				}
			}
		}
		return ""
	}
	return hint(get("id"), get("class", "className"), get("name"))
}

func hint(id, class, name string) string {
	if id = strings.TrimSpace(id); id != "" {
		return "#" + id
	}
	if fields := strings.Fields(class); len(fields) > 0 {
		return "." + fields[0]
	}
	if name = strings.TrimSpace(name); name != "" {
		return "[name=" + name + "]"
	}
	return ""
}

// excerpt quotes s, cutting it to limit runes.
func excerpt(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return strconv.Quote(s)
	}
	r := []rune(s)
	return strconv.Quote(string(r[:limit])) + "..."
}
