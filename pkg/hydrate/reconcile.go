package hydrate

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

// Options configures a reconciliation. The zero value is usable: lenient
// mode, default text policy, unbounded lookahead, diagnostics discarded.
type Options struct {
	// Mode selects the recovery policy.
	Mode Mode

	// Text normalizes text before comparison. Default: DefaultText.
	Text TextPolicy

	// Lookahead caps how many siblings are searched when two heads differ.
	// Zero means the whole sibling list.
	Lookahead int

	// ContextWindow is the number of siblings shown around a divergence in
	// diagnostic excerpts. Default: DefaultContextWindow.
	ContextWindow int

	// IgnoreAttrs lists attribute names that never produce mismatches.
	IgnoreAttrs []string

	// KeepWhitespace makes whitespace-only client text take part in
	// matching. It must agree with how the server tree was parsed.
	KeepWhitespace bool

	// Sink receives every diagnostic. Default: NopSink.
	Sink Sink

	// Logger is used by Attempt for provider and commit failures.
	// Default: slog.Default().
	Logger *slog.Logger

	// Metrics, when set, records every attempt made through Attempt.
	Metrics *Metrics

	// Tracer, when set, traces every attempt made through Attempt.
	// Default: the global OpenTelemetry tracer provider.
	Tracer trace.Tracer

	// Committer, when set, receives the outcome of Attempt.
	Committer Committer
}

func (o Options) withDefaults() Options {
	if o.Text == nil {
		o.Text = DefaultText
	}
	if o.ContextWindow <= 0 {
		o.ContextWindow = DefaultContextWindow
	}
	if o.Sink == nil {
		o.Sink = NopSink{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Reconcile compares the server markup with the client render tree and
// decides how to recover from the first escalating divergence.
//
// The client tree stands for the content of the server root: a fragment or
// component host at the top is spliced. A nil server tree is treated as
// empty. Diagnostics are sent to opts.Sink before Reconcile returns.
func Reconcile(server *markup.Tree, client *vdom.VNode, opts Options) *Result {
	if server == nil {
		server = markup.NewBuilder().Build()
	}
	return ReconcileAt(server, server.Root(), client, opts)
}

// ReconcileAt compares the subtree of server at node with client. When node
// is the root its children are compared with the client tree; otherwise
// node itself is paired with the client tree, so passing a boundary node
// and the resolved client boundary re-hydrates that boundary alone.
func ReconcileAt(server *markup.Tree, node markup.NodeID, client *vdom.VNode, opts Options) *Result {
	opts = opts.withDefaults()
	w := newWalker(server, &opts)

	var clientSeq []*vdom.VNode
	if client != nil {
		clientSeq = w.flatten([]*vdom.VNode{client})
	}

	var serverSeq []markup.NodeID
	if node == server.Root() {
		serverSeq = w.serverChildren(node)
	} else {
		w.enter(node)
		serverSeq = []markup.NodeID{node}
	}

	w.walkSiblings(serverSeq, clientSeq)
	for _, d := range w.result.Diagnostics {
		opts.Sink.Report(d)
	}
	return w.result
}

// enter primes the walker's state for a diff rooted below the tree root:
// enclosing preformatted elements keep their white space.
func (w *walker) enter(node markup.NodeID) {
	for _, a := range w.tree.Ancestors(node) {
		if a != node && w.tree.Kind(a) == markup.KindElement && isPreformatted(w.tree.Tag(a)) {
			w.pre++
		}
	}
}
