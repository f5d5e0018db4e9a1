package hydrate

// Decide returns the failure scope of a mismatch of kind k under mode m.
// inBoundary reports whether a boundary encloses the divergence.
//
// LocalPatchable means the mismatch is repaired in place. In Safety mode
// every escalation discards the whole tree. In Lenient mode structural
// mismatches discard the nearest enclosing boundary, or the whole tree when
// there is none. An incomplete boundary discards only itself in either mode.
func Decide(k MismatchKind, m Mode, inBoundary bool) Scope {
	if !escalates(k, m) {
		return LocalPatchable
	}
	switch {
	case k == BoundaryIncomplete:
		return ThisBoundary
	case m == Lenient && inBoundary:
		return ThisBoundary
	default:
		return WholeTree
	}
}

func escalates(k MismatchKind, m Mode) bool {
	switch k {
	case AttributeMismatch:
		return false
	case TextMismatch, TypeMismatch:
		return m == Safety
	case ExtraOnClient, ExtraOnServer, BoundaryIncomplete:
		return true
	default:
		return true
	}
}
