package ir

// Named is any member or entry CompareMembers can order: a display name and
// a NodeKind used only as a tie-break.
type Named interface {
	EntryName() string
	Kind() NodeKind
}

// CompareMembers implements the ordering spec §4.3 requires within a
// single member list: "sorted by (kind, name) using byte-wise comparison".
// Real GIR documents never place two same-kind members under one name, so
// in practice this reduces to a byte-wise name comparison; the NodeKind
// tie-break exists because the original g_ir_node_cmp falls back to it, and
// a rewrite that dropped it would silently depend on sort stability instead
// of a documented total order (spec §4 supplemented feature 4).
func CompareMembers(a, b Named) int {
	an, bn := a.EntryName(), b.EntryName()
	if an != bn {
		if an < bn {
			return -1
		}
		return 1
	}
	ak, bk := a.Kind(), b.Kind()
	switch {
	case ak < bk:
		return -1
	case ak > bk:
		return 1
	default:
		return 0
	}
}

// Less reports whether a orders before b under CompareMembers. Callers sort
// a typed slice through a small adapter (see sortutil in pkg/compile) since
// Go generics over a shared Named interface still need a concrete []T to
// sort; CompareMembers is the single source of truth for the ordering rule.
func Less(a, b Named) bool { return CompareMembers(a, b) < 0 }
