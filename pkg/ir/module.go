package ir

import "fmt"

// Module is a parsed namespace: spec §3.3's "ordered list of entries" plus
// the bookkeeping the parser and serializer need around it (spec §4.1,
// §3.7 "IR nodes are owned by the module that holds them").
type Module struct {
	Name    string
	Version string

	// SharedLibraries preserves girmodule.c's comma-separated
	// shared-library list verbatim (spec §4 supplemented feature 7);
	// joined with "," when serialized into the header's single string slot.
	SharedLibraries []string
	CPrefix         string

	Entries []Entry

	// Includes holds modules reached via <include>, in encounter order
	// (spec §4.1). Dependencies records the "N-V" strings written to the
	// image's dependencies table.
	Includes     []*Module
	Dependencies []string

	// Aliases maps a namespace-qualified alias name to its namespace-
	// qualified target (spec §4.1 first pass). Disguised records the
	// namespace-qualified names of records with disguised="1" (same pass).
	Aliases    map[string]string
	Disguised  map[string]bool

	byName map[string]Entry
}

// NewModule creates an empty module ready to receive entries.
func NewModule(name, version string) *Module {
	return &Module{
		Name:      name,
		Version:   version,
		Aliases:   map[string]string{},
		Disguised: map[string]bool{},
		byName:    map[string]Entry{},
	}
}

// AddEntry appends e to the module, enforcing spec §3.3's "unique name
// within its namespace" rule. Two entries with identical names is a
// SemanticResolution error (spec §7).
func (m *Module) AddEntry(e Entry) error {
	name := e.EntryName()
	if _, exists := m.byName[name]; exists {
		return NewError(ErrKindSemanticResolution,
			fmt.Sprintf("duplicate entry name %q in namespace %q", name, m.Name), nil)
	}
	m.Entries = append(m.Entries, e)
	m.byName[name] = e
	return nil
}

// Lookup resolves a bare (unqualified) name to a local entry.
func (m *Module) Lookup(name string) (Entry, bool) {
	e, ok := m.byName[name]
	return e, ok
}

// DependencyString renders the "N-V" form stored in the dependencies table.
func (m *Module) DependencyString() string {
	return m.Name + "-" + m.Version
}

// SharedLibraryString joins SharedLibraries into the single comma-separated
// string the header's shared_library slot carries (spec §4 supplemented
// feature 7, grounded on girmodule.c:g_ir_module_new).
func (m *Module) SharedLibraryString() string {
	s := ""
	for i, lib := range m.SharedLibraries {
		if i > 0 {
			s += ","
		}
		s += lib
	}
	return s
}
