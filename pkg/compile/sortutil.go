package compile

import (
	"sort"

	"github.com/gircomp/gircomp/pkg/ir"
)

// sortMembers returns a stable-sorted copy of items ordered by
// ir.CompareMembers (spec §4.3, §4 supplemented feature 4), the small
// generic adapter ir.CompareMembers's own doc comment points to: Go's sort
// package wants a concrete slice, not the bare ir.Named interface.
func sortMembers[T ir.Named](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return ir.Less(out[i], out[j])
	})
	return out
}
