package hydrate

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

const tracerName = "vango/hydrate"

// ClientProvider produces the client render tree for an attempt.
type ClientProvider interface {
	ClientTree(ctx context.Context) (*vdom.VNode, error)
}

// ServerProvider produces the parsed server markup for an attempt.
type ServerProvider interface {
	ServerTree(ctx context.Context) (*markup.Tree, error)
}

// ClientFunc adapts a function to ClientProvider.
type ClientFunc func(ctx context.Context) (*vdom.VNode, error)

// ClientTree implements ClientProvider.
func (f ClientFunc) ClientTree(ctx context.Context) (*vdom.VNode, error) { return f(ctx) }

// ServerFunc adapts a function to ServerProvider.
type ServerFunc func(ctx context.Context) (*markup.Tree, error)

// ServerTree implements ServerProvider.
func (f ServerFunc) ServerTree(ctx context.Context) (*markup.Tree, error) { return f(ctx) }

// StaticClient returns a ClientProvider that always yields v.
func StaticClient(v *vdom.VNode) ClientProvider {
	return ClientFunc(func(context.Context) (*vdom.VNode, error) { return v, nil })
}

// StaticServer returns a ServerProvider that always yields t.
func StaticServer(t *markup.Tree) ServerProvider {
	return ServerFunc(func(context.Context) (*markup.Tree, error) { return t, nil })
}

// Committer applies the outcome of an attempt to the real output.
type Committer interface {
	// ApplyPatches applies in-place repairs. It is called only with patches
	// that lie outside any discarded region.
	ApplyPatches(ctx context.Context, patches []Patch) error

	// Discard throws away the escalated region and renders it again on the
	// client: one boundary for ThisBoundary, everything for WholeTree.
	Discard(ctx context.Context, esc *Escalation) error
}

// Attempt runs one hydration attempt: it obtains both trees, reconciles
// them, records metrics and traces, and hands the outcome to
// opts.Committer.
//
// A provider failure is fatal for the attempt and is returned as an error
// with code E048; it is not retried. Commit failures are returned as-is
// together with the Result.
func Attempt(ctx context.Context, sp ServerProvider, cp ClientProvider, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	ctx, span := tracer.Start(ctx, "hydrate.attempt",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("hydrate.mode", opts.Mode.String())),
	)
	defer span.End()

	server, err := sp.ServerTree(ctx)
	if err == nil && server == nil {
		err = fmt.Errorf("server provider returned no tree")
	}
	if err != nil {
		return nil, providerFailure(span, opts, "server", err)
	}
	client, err := cp.ClientTree(ctx)
	if err == nil && client == nil {
		err = fmt.Errorf("client provider returned no tree")
	}
	if err != nil {
		return nil, providerFailure(span, opts, "client", err)
	}

	start := time.Now()
	result := Reconcile(server, client, opts)
	opts.Metrics.Observe(result, time.Since(start))

	span.SetAttributes(
		attribute.Int("hydrate.patch_count", len(result.Patches)),
		attribute.Int("hydrate.boundary_count", len(result.Boundaries)),
	)
	if esc := result.Escalation; esc != nil {
		span.SetAttributes(
			attribute.String("hydrate.scope", esc.Scope.String()),
			attribute.String("hydrate.mismatch", esc.Mismatch.Kind.String()),
			attribute.String("hydrate.path", esc.Diagnostic.Location().String()),
		)
		span.SetAttributes(attribute.Int("hydrate.escalation_count", len(result.Escalations)))
		for _, e := range result.Escalations {
			span.AddEvent("escalation", trace.WithAttributes(
				attribute.String("code", e.Diagnostic.Code),
				attribute.String("scope", e.Scope.String()),
			))
		}
	}
	span.SetStatus(codes.Ok, "")

	if opts.Committer == nil {
		return result, nil
	}
	if err := commit(ctx, opts.Committer, result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		opts.Logger.Error("hydrate commit failed", "error", err)
		return result, err
	}
	return result, nil
}

func providerFailure(span trace.Span, opts Options, side string, err error) error {
	herr := errors.New("E048").
		WithDetail(fmt.Sprintf("The %s tree could not be produced. The hydration attempt was abandoned.", side)).
		Wrap(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, herr.Error())
	span.SetAttributes(attribute.String("hydrate.failed_provider", side))
	opts.Metrics.ProviderFailure(side)
	opts.Logger.Error("hydrate provider failed", "side", side, "error", err)
	return herr
}

// commit applies patches that survive the escalations, then the discards.
// With WholeTree every patch is void; otherwise patches inside a discarded
// boundary are dropped and each boundary is discarded in document order.
func commit(ctx context.Context, c Committer, r *Result) error {
	esc := r.Escalation
	if esc != nil && esc.Scope == WholeTree {
		if err := c.Discard(ctx, esc); err != nil {
			return fmt.Errorf("discard %s: %w", esc.Scope, err)
		}
		return nil
	}

	discarded := make([]*BoundaryFrame, 0, len(r.Escalations))
	for _, e := range r.Escalations {
		discarded = append(discarded, e.Boundary)
	}
	if patches := patchesOutside(r.Repaired, discarded); len(patches) > 0 {
		if err := c.ApplyPatches(ctx, patches); err != nil {
			return fmt.Errorf("apply patches: %w", err)
		}
	}
	for _, e := range r.Escalations {
		if err := c.Discard(ctx, e); err != nil {
			return fmt.Errorf("discard %s: %w", e.Scope, err)
		}
	}
	return nil
}

func patchesOutside(repaired []*Mismatch, discarded []*BoundaryFrame) []Patch {
	var out []Patch
next:
	for _, m := range repaired {
		for _, b := range discarded {
			if b != nil && m.tree.Contains(b.Server, m.Server) {
				continue next
			}
		}
		out = append(out, patchesFor(m)...)
	}
	return out
}
