package hydrate

import (
	"fmt"
	"strings"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

// DefaultContextWindow is the number of siblings shown on each side of a
// divergence.
const DefaultContextWindow = 2

const excerptTextLen = 40

// Severity of a diagnostic.
type Severity uint8

const (
	// SeverityWarning marks a mismatch that was repaired in place.
	SeverityWarning Severity = iota
	// SeverityError marks an escalation.
	SeverityError
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is the developer-facing report of one mismatch or notice.
type Diagnostic struct {
	Code     string
	Severity Severity
	Kind     MismatchKind
	Scope    Scope

	// Message is a one-line summary with both values.
	Message string

	ServerPath Path
	ClientPath Path

	// Excerpt is the rendered tree excerpt, one line per entry, each line
	// starting with "+ ", "- " or two spaces.
	Excerpt []string

	// Explanation lists the usual causes of this kind of mismatch.
	Explanation string
	Suggestion  string
	DocURL      string
}

// Location returns the client path, or the server path when the client has
// no node at the divergence.
func (d Diagnostic) Location() Path {
	if len(d.ClientPath) >= len(d.ServerPath) {
		return d.ClientPath
	}
	return d.ServerPath
}

// Err converts the diagnostic to a structured error.
func (d Diagnostic) Err() *errors.HydrateError {
	e := errors.New(d.Code).
		WithPath(d.Location().String()).
		WithExcerpt(d.Excerpt).
		WithSuggestion(d.Suggestion)
	e.DocURL = d.DocURL
	detail := d.Explanation
	if d.Message != "" {
		detail = d.Message + ". " + detail
	}
	return e.WithDetail(strings.TrimSpace(detail))
}

// Format renders the diagnostic for a terminal.
func (d Diagnostic) Format() string {
	if d.Severity == SeverityWarning {
		return d.Err().FormatWarning()
	}
	return d.Err().Format()
}

// String returns a single-line form of the diagnostic.
func (d Diagnostic) String() string {
	return d.Err().FormatCompact() + ": " + d.Message
}

// diagnose builds the diagnostic for m.
func (w *walker) diagnose(m *Mismatch, scope Scope) Diagnostic {
	tmpl, _ := errors.GetTemplate(m.Kind.Code())
	d := Diagnostic{
		Code:        m.Kind.Code(),
		Severity:    SeverityError,
		Kind:        m.Kind,
		Scope:       scope,
		Message:     m.Describe(),
		ServerPath:  m.ServerPath,
		ClientPath:  m.ClientPath,
		Excerpt:     RenderExcerpt(m, w.opts.ContextWindow),
		Explanation: tmpl.Detail,
		Suggestion:  tmpl.Suggestion,
		DocURL:      tmpl.DocURL,
	}
	switch scope {
	case LocalPatchable:
		d.Severity = SeverityWarning
		d.Message += "; repaired with client values"
	case ThisBoundary:
		d.Message += "; boundary content will be rendered on the client"
	case WholeTree:
		d.Message += "; the whole tree will be rendered on the client"
	}
	return d
}

// treeNotice is the top-level notice that precedes a whole-tree escalation.
func treeNotice(m *Mismatch) Diagnostic {
	tmpl, _ := errors.GetTemplate("E049")
	return Diagnostic{
		Code:        "E049",
		Severity:    SeverityError,
		Kind:        m.Kind,
		Scope:       WholeTree,
		Message:     tmpl.Message,
		ServerPath:  m.ServerPath,
		ClientPath:  m.ClientPath,
		Explanation: tmpl.Detail,
		DocURL:      tmpl.DocURL,
	}
}

// RenderExcerpt renders the ancestor chain of m top down, followed by up to
// window siblings on each side of the divergence. Lines are prefixed with
// "+ " for client-only content, "- " for server-only content and two
// spaces for matched content. Elements render as bare opening tags.
func RenderExcerpt(m *Mismatch, window int) []string {
	if window <= 0 {
		window = DefaultContextWindow
	}
	r := excerptRenderer{m: m}

	for d := 0; d < m.ancestors; d++ {
		s, c := m.ServerPath[d], m.ClientPath[d]
		if s == c {
			r.line(" ", d, entryTag(s))
			continue
		}
		r.line("-", d, entryTag(s))
		r.line("+", d, entryTag(c))
	}

	depth := m.ancestors
	i := m.Index
	start := max(0, i-window)
	if start > 0 {
		r.line(" ", depth, "...")
	}
	for k := start; k < i && k < len(m.serverSeq); k++ {
		r.line(" ", depth, r.server(m.serverSeq[k]))
	}

	next := i + 1
	switch m.Kind {
	case ExtraOnClient:
		r.extras("+", depth, len(m.ClientExtra), window, func(k int) string { return r.client(m.ClientExtra[k]) })
		next = i
	case ExtraOnServer:
		r.extras("-", depth, len(m.ServerExtra), window, func(k int) string { return r.server(m.ServerExtra[k]) })
		next = i + len(m.ServerExtra)
	case TypeMismatch:
		r.line("+", depth, r.client(m.Client))
		r.line("-", depth, r.server(m.Server))
	case TextMismatch:
		r.line("+", depth, excerpt(m.ClientText, excerptTextLen))
		r.line("-", depth, excerpt(m.ServerText, excerptTextLen))
	case AttributeMismatch:
		r.line(" ", depth, r.server(m.Server))
		for _, a := range m.Attrs {
			if a.Op != DeltaRemoved {
				r.line("+", depth+1, fmt.Sprintf("%s=%q", a.Name, a.Client))
			}
			if a.Op != DeltaAdded {
				r.line("-", depth+1, fmt.Sprintf("%s=%q", a.Name, a.Server))
			}
		}
	case BoundaryIncomplete:
		r.line("-", depth, `<Boundary status="incomplete">`)
	}

	end := min(len(m.serverSeq), next+window)
	for k := next; k < end; k++ {
		r.line(" ", depth, r.server(m.serverSeq[k]))
	}
	if end < len(m.serverSeq) {
		r.line(" ", depth, "...")
	}
	return r.lines
}

type excerptRenderer struct {
	m     *Mismatch
	lines []string
}

func (r *excerptRenderer) line(marker string, depth int, text string) {
	r.lines = append(r.lines, marker+" "+strings.Repeat("  ", depth)+text)
}

func (r *excerptRenderer) extras(marker string, depth, n, window int, render func(int) string) {
	shown := min(n, window+1)
	for k := 0; k < shown; k++ {
		r.line(marker, depth, render(k))
	}
	if shown < n {
		r.line(marker, depth, fmt.Sprintf("... (%d more)", n-shown))
	}
}

func (r *excerptRenderer) server(id markup.NodeID) string {
	t := r.m.tree
	switch t.Kind(id) {
	case markup.KindText:
		return excerpt(t.Text(id), excerptTextLen)
	case markup.KindBoundary:
		if st := t.Status(id); st != markup.BoundaryComplete {
			return fmt.Sprintf("<Boundary status=%q>", st)
		}
		return "<Boundary>"
	default:
		return entryTag(serverEntry(t, id))
	}
}

func (r *excerptRenderer) client(v *vdom.VNode) string {
	switch v.Kind {
	case vdom.KindText:
		return excerpt(v.Text, excerptTextLen)
	case vdom.KindBoundary:
		if v.ShowFallback {
			return `<Boundary status="fallback">`
		}
		return "<Boundary>"
	default:
		return entryTag(clientEntry(v))
	}
}

// entryTag renders a path entry as an opening tag carrying its hint.
func entryTag(e PathEntry) string {
	switch {
	case e.Tag == "#boundary":
		return "<Boundary>"
	case strings.HasPrefix(e.Tag, "#"):
		if e.Hint != "" {
			return e.Hint
		}
		return e.Tag
	case strings.HasPrefix(e.Hint, "#"):
		return fmt.Sprintf("<%s id=%q>", e.Tag, e.Hint[1:])
	case strings.HasPrefix(e.Hint, "."):
		return fmt.Sprintf("<%s class=%q>", e.Tag, e.Hint[1:])
	case strings.HasPrefix(e.Hint, "[name="):
		return fmt.Sprintf("<%s name=%q>", e.Tag, strings.TrimSuffix(strings.TrimPrefix(e.Hint, "[name="), "]"))
	default:
		return "<" + e.Tag + ">"
	}
}
