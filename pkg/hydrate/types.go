package hydrate

import (
	"fmt"
	"strings"

	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

// Mode selects how aggressively mismatches are escalated.
type Mode uint8

const (
	// Lenient repairs text and element-type differences in place and only
	// escalates inserted or missing nodes.
	Lenient Mode = iota
	// Safety escalates every mismatch except attribute differences.
	Safety
)

// String returns the string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case Lenient:
		return "lenient"
	case Safety:
		return "safety"
	default:
		return "unknown"
	}
}

// ParseMode parses "lenient" or "safety".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lenient", "":
		return Lenient, nil
	case "safety", "safe", "strict":
		return Safety, nil
	default:
		return Lenient, fmt.Errorf("hydrate: unknown mode %q", s)
	}
}

// MismatchKind classifies a divergence between the two trees.
type MismatchKind uint8

const (
	TextMismatch MismatchKind = iota + 1
	AttributeMismatch
	TypeMismatch
	ExtraOnClient
	ExtraOnServer
	BoundaryIncomplete
)

// String returns the string representation of the MismatchKind.
func (k MismatchKind) String() string {
	switch k {
	case TextMismatch:
		return "TextMismatch"
	case AttributeMismatch:
		return "AttributeMismatch"
	case TypeMismatch:
		return "TypeMismatch"
	case ExtraOnClient:
		return "ExtraOnClient"
	case ExtraOnServer:
		return "ExtraOnServer"
	case BoundaryIncomplete:
		return "BoundaryIncomplete"
	default:
		return "Unknown"
	}
}

// Code returns the diagnostic code registered for the kind.
func (k MismatchKind) Code() string {
	switch k {
	case TypeMismatch:
		return "E040"
	case TextMismatch:
		return "E041"
	case AttributeMismatch:
		return "E042"
	case ExtraOnClient:
		return "E043"
	case ExtraOnServer:
		return "E044"
	case BoundaryIncomplete:
		return "E045"
	default:
		return ""
	}
}

// Scope is how far a failure propagates.
type Scope uint8

const (
	LocalPatchable Scope = iota
	ThisBoundary
	WholeTree
)

// String returns the string representation of the Scope.
func (s Scope) String() string {
	switch s {
	case LocalPatchable:
		return "local"
	case ThisBoundary:
		return "boundary"
	case WholeTree:
		return "tree"
	default:
		return "unknown"
	}
}

// PathEntry is one step of an ancestor chain.
type PathEntry struct {
	Tag  string // element tag, or "#text" / "#boundary"
	Hint string // "#id", ".class", "[name=x]" or a quoted text excerpt
}

// String renders the entry as tag followed by its hint.
func (p PathEntry) String() string {
	if p.Hint == "" {
		return p.Tag
	}
	if strings.HasPrefix(p.Tag, "#") {
		return p.Tag + " " + p.Hint
	}
	return p.Tag + p.Hint
}

// Path is an ancestor chain, outermost first.
type Path []PathEntry

// String joins the entries with " > ".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, e := range p {
		parts[i] = e.String()
	}
	return strings.Join(parts, " > ")
}

// Mismatch is a classified divergence. It is built once and never modified.
type Mismatch struct {
	Kind MismatchKind

	// ServerPath and ClientPath run from the diff root to the divergence.
	// They end with the divergent node when that side has one.
	ServerPath Path
	ClientPath Path

	// Server and Client are the nodes at the divergence point. Server is
	// markup.NoNode and Client is nil when the side has no node there.
	Server markup.NodeID
	Client *vdom.VNode

	// ServerText and ClientText hold both values of a text mismatch.
	ServerText string
	ClientText string

	// Attrs lists the differences of an attribute mismatch.
	Attrs []AttrDelta

	// ServerExtra and ClientExtra list the surplus nodes of an
	// ExtraOnServer or ExtraOnClient mismatch.
	ServerExtra []markup.NodeID
	ClientExtra []*vdom.VNode

	// Index is the position of the divergence in the flattened sibling
	// sequence. Both cursors are at this position when it is detected.
	Index int

	// BoundaryDepth is the number of boundaries enclosing the divergence.
	BoundaryDepth int

	tree      *markup.Tree
	ancestors int
	serverSeq []markup.NodeID
	clientSeq []*vdom.VNode
}

// Describe returns a one-line human readable summary.
func (m *Mismatch) Describe() string {
	switch m.Kind {
	case TextMismatch:
		return fmt.Sprintf("text differs: server %q, client %q", m.ServerText, m.ClientText)
	case AttributeMismatch:
		parts := make([]string, len(m.Attrs))
		for i, d := range m.Attrs {
			parts[i] = d.String()
		}
		return "attributes differ: " + strings.Join(parts, ", ")
	case TypeMismatch:
		return fmt.Sprintf("expected %s, server has %s", last(m.ClientPath), last(m.ServerPath))
	case ExtraOnClient:
		return fmt.Sprintf("client renders %d node(s) the server did not, starting with %s", len(m.ClientExtra), last(m.ClientPath))
	case ExtraOnServer:
		return fmt.Sprintf("server rendered %d node(s) the client did not, starting with %s", len(m.ServerExtra), last(m.ServerPath))
	case BoundaryIncomplete:
		return "server could not complete the boundary content"
	default:
		return m.Kind.String()
	}
}

func last(p Path) string {
	if len(p) == 0 {
		return "nothing"
	}
	return p[len(p)-1].String()
}

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText     PatchOp = 0x01 // Update text content
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchSetStyle    PatchOp = 0x04 // Set one style property
	PatchRemoveStyle PatchOp = 0x05 // Remove one style property
	PatchReplaceNode PatchOp = 0x07 // Replace node entirely
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchSetStyle:
		return "SetStyle"
	case PatchRemoveStyle:
		return "RemoveStyle"
	case PatchReplaceNode:
		return "ReplaceNode"
	default:
		return "Unknown"
	}
}

// Patch is one in-place repair of the server markup. Client values win.
type Patch struct {
	Op     PatchOp
	Target markup.NodeID // server node to modify
	Key    string        // attribute or style property
	Value  string        // new value
	Node   *vdom.VNode   // for ReplaceNode
}

// Escalation is a decision to discard and regenerate markup on the client.
type Escalation struct {
	Scope      Scope
	Mismatch   *Mismatch
	Boundary   *BoundaryFrame // set when Scope is ThisBoundary
	Diagnostic Diagnostic
}

// Result is the outcome of one reconciliation attempt.
type Result struct {
	// Patches lists in-place repairs in document order.
	Patches []Patch

	// Repaired lists the mismatches that produced Patches.
	Repaired []*Mismatch

	// Escalation is nil when the attempt succeeded. Otherwise it is the
	// WholeTree escalation if there is one, else the first boundary
	// escalation.
	Escalation *Escalation

	// Escalations lists every escalation in document order. Boundary
	// escalations do not stop traversal, so several boundaries may be
	// discarded in one attempt. A WholeTree escalation ends traversal and
	// is always last.
	Escalations []*Escalation

	// Boundaries lists every boundary entered, with its final state.
	Boundaries []*BoundaryFrame

	// Diagnostics lists everything reported during the attempt, in the
	// order it was reported.
	Diagnostics []Diagnostic
}

// OK reports whether the attempt succeeded without escalation.
func (r *Result) OK() bool {
	return r != nil && r.Escalation == nil
}

// Scope returns the escalation scope, or LocalPatchable on success.
func (r *Result) Scope() Scope {
	if r == nil || r.Escalation == nil {
		return LocalPatchable
	}
	return r.Escalation.Scope
}
