package ir

// ResolveEntry looks up name (optionally "Namespace.Name"-qualified) across
// m and its include modules, breadth-first, short-circuited by a seen-set
// (spec §4.2 "Interface-ref size": "Resolve the name through the alias
// table of the owning module and each include module (breadth-first;
// cycles are short-circuited by a seen-set)"). Alias targets are followed
// before giving up.
func ResolveEntry(m *Module, name string) (Entry, *Module, bool) {
	ns, bare := splitQualified(name)
	seen := map[*Module]bool{}
	queue := []*Module{m}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if ns == "" || ns == cur.Name {
			if e, ok := cur.Lookup(bare); ok {
				return e, cur, true
			}
			if target, ok := cur.Aliases[qualify(cur.Name, bare)]; ok {
				tns, tbare := splitQualified(target)
				if e, tm, ok := ResolveEntry(m, qualify(tns, tbare)); ok {
					return e, tm, true
				}
			}
		}
		queue = append(queue, cur.Includes...)
	}
	return nil, nil, false
}

// IsDisguised reports whether name (optionally qualified) was recorded as a
// disguised record by the parser's first pass (spec §4.1), searching m and
// its includes the same way ResolveEntry does.
func IsDisguised(m *Module, name string) bool {
	ns, bare := splitQualified(name)
	seen := map[*Module]bool{}
	queue := []*Module{m}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		effNS := ns
		if effNS == "" {
			effNS = cur.Name
		}
		if cur.Disguised[qualify(effNS, bare)] {
			return true
		}
		queue = append(queue, cur.Includes...)
	}
	return false
}

func splitQualified(name string) (ns, bare string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}

func qualify(ns, bare string) string {
	if ns == "" {
		return bare
	}
	return ns + "." + bare
}
