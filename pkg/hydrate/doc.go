// Package hydrate reconciles server-rendered markup with a fresh client
// render tree.
//
// Hydration attaches behavior to markup the server already produced instead
// of recreating it. Before that can happen the markup has to agree with what
// the client would render. Reconcile walks both trees in document order,
// pairing sibling sequences head to head, and stops at the first divergence
// it cannot repair.
//
// # Outcomes
//
// Each divergence is classified as a Mismatch and given a Scope by the
// recovery policy:
//
//   - LocalPatchable: repaired in place with the client's values. Attribute
//     differences are always repaired this way. Text and element-type
//     differences are too, in Lenient mode.
//   - ThisBoundary: the nearest enclosing boundary is discarded and rendered
//     on the client. Everything outside it stays hydrated.
//   - WholeTree: no boundary encloses the divergence, so the whole tree is
//     rendered on the client.
//
// Only the first escalating divergence is reported. Traversal stops there.
//
// # Boundaries
//
// A boundary is a region whose content may be replaced by a fallback while
// it is not ready. The server marks boundaries with comment markers (see
// package markup). A boundary presenting its fallback on either side is not
// diffed; a boundary the server failed to complete is always discarded.
//
// # Diagnostics
//
// Every repair and every escalation produces a Diagnostic carrying a code,
// both ancestor paths and a tree excerpt:
//
//	  <div class="parent">
//	    <header class="1">
//	    <main class="2">
//	+   <footer class="3">
//
// Diagnostics go to Options.Sink; LogSink writes them through log/slog.
//
// # Attempts
//
// Attempt wraps Reconcile with tree providers, a Committer, Prometheus
// metrics and OpenTelemetry tracing.
package hydrate
