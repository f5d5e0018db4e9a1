package hydrate

import (
	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

// BoundaryState is the lifecycle state of a boundary during one attempt.
type BoundaryState uint8

const (
	BoundaryPending BoundaryState = iota
	ContentHydrating
	ContentHydrated
	FallbackRendered
	ClientDiscarded
)

// String returns the string representation of the BoundaryState.
func (s BoundaryState) String() string {
	switch s {
	case BoundaryPending:
		return "Pending"
	case ContentHydrating:
		return "ContentHydrating"
	case ContentHydrated:
		return "ContentHydrated"
	case FallbackRendered:
		return "FallbackRendered"
	case ClientDiscarded:
		return "ClientDiscarded"
	default:
		return "Unknown"
	}
}

// Final reports whether the state is terminal.
func (s BoundaryState) Final() bool {
	return s == ContentHydrated || s == FallbackRendered || s == ClientDiscarded
}

// BoundaryFrame is the context of one boundary entered during traversal.
type BoundaryFrame struct {
	Server markup.NodeID
	Client *vdom.VNode
	State  BoundaryState

	// Depth is the number of boundaries enclosing this one.
	Depth int

	// Parent is the enclosing frame, nil at the top level.
	Parent *BoundaryFrame
}

// boundaryStack tracks the boundaries enclosing the cursor. Its depth always
// equals boundary nesting at the current position.
type boundaryStack struct {
	frames []*BoundaryFrame
	seen   []*BoundaryFrame
}

func (s *boundaryStack) push(server markup.NodeID, client *vdom.VNode) *BoundaryFrame {
	f := &BoundaryFrame{
		Server: server,
		Client: client,
		State:  BoundaryPending,
		Depth:  len(s.frames),
		Parent: s.top(),
	}
	s.frames = append(s.frames, f)
	s.seen = append(s.seen, f)
	return f
}

func (s *boundaryStack) pop() {
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// top returns the nearest enclosing frame, or nil outside any boundary.
func (s *boundaryStack) top() *BoundaryFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *boundaryStack) depth() int {
	return len(s.frames)
}
