package parser

import "github.com/gircomp/gircomp/pkg/ir"

// postFilterVarargs implements spec §4.1's closing post-filter, run once a
// module's tree is fully built: drop any callback whose signature is
// varargs, drop every top-level function that is varargs, and drop any
// function (top-level or member) one of whose parameters references a
// removed varargs callback by name (spec §1 "Non-goals": "any function
// taking a varargs-bearing callback type by name is also filtered").
func postFilterVarargs(m *ir.Module) error {
	removedCallbacks := map[string]bool{}
	kept := m.Entries[:0]
	for _, e := range m.Entries {
		if cb, ok := e.(*ir.Callback); ok && cb.Signature.Varargs {
			removedCallbacks[cb.Name] = true
			continue
		}
		if fn, ok := e.(*ir.Function); ok && fn.Signature.Varargs {
			continue
		}
		kept = append(kept, e)
	}
	m.Entries = kept

	final := m.Entries[:0]
	for _, e := range m.Entries {
		switch v := e.(type) {
		case *ir.Function:
			if referencesRemovedCallback(v.Signature, removedCallbacks) {
				continue
			}
		case *ir.Struct:
			v.Methods = filterFunctions(v.Methods, removedCallbacks)
		case *ir.Union:
			v.Methods = filterFunctions(v.Methods, removedCallbacks)
		case *ir.Object:
			v.Methods = filterFunctions(v.Methods, removedCallbacks)
		case *ir.Interface:
			v.Methods = filterFunctions(v.Methods, removedCallbacks)
		}
		final = append(final, e)
	}
	m.Entries = final
	return nil
}

// filterFunctions drops any function one of whose parameters is typed by an
// interface-ref naming a removed varargs callback.
func filterFunctions(fns []*ir.Function, removed map[string]bool) []*ir.Function {
	if len(removed) == 0 {
		return fns
	}
	kept := fns[:0]
	for _, fn := range fns {
		if referencesRemovedCallback(fn.Signature, removed) {
			continue
		}
		kept = append(kept, fn)
	}
	return kept
}

func referencesRemovedCallback(sig *ir.Signature, removed map[string]bool) bool {
	for _, p := range sig.Params {
		if p.Type != nil && p.Type.Variant == ir.TypeInterfaceRef && removed[bareName(p.Type.InterfaceName)] {
			return true
		}
	}
	return false
}

// bareName strips any namespace qualification, since removedCallbacks is
// keyed by unqualified entry name.
func bareName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
