package compile

import (
	"fmt"

	"github.com/gircomp/gircomp/internal/format"
	"github.com/gircomp/gircomp/pkg/ir"
)

// dirPlan is one finalized directory slot: a local entry with a real body,
// or a foreign cross-reference stub with none (spec §6.1 item 2, §4.3
// "Implicit cross-references").
type dirPlan struct {
	kind  format.BlobType
	local bool
	name  string // entry name (local) or bare name (xref)
	ns    string // owning namespace; only meaningful when !local

	entry ir.Entry // nil for xrefs

	nameOff uint32
	bodyOff uint32 // fixed-body offset (local) or namespace-string offset (xref)
}

// planner finalizes the directory before any bytes are sized or written, so
// that every name->index resolution during emission is a pure map lookup
// (spec §9's design-notes alternative to a restart loop: "walk the IR once
// collecting all referenced names, materialize stubs eagerly, then size and
// write in a single pass").
type planner struct {
	m   *ir.Module
	dir []dirPlan

	localIndex map[string]uint16          // bare name -> 1-based directory index
	xrefIndex  map[string]uint16          // "ns.name" -> 1-based directory index
	xrefSeen   map[string]bool
}

func newPlanner(m *ir.Module) (*planner, error) {
	p := &planner{
		m:          m,
		localIndex: map[string]uint16{},
		xrefIndex:  map[string]uint16{},
		xrefSeen:   map[string]bool{},
	}
	for i, e := range m.Entries {
		kind, err := blobKindOf(e)
		if err != nil {
			return nil, err
		}
		p.dir = append(p.dir, dirPlan{kind: kind, local: true, name: e.EntryName(), entry: e})
		p.localIndex[e.EntryName()] = uint16(i + 1)
	}
	for _, e := range m.Entries {
		if err := p.walkEntry(e); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func blobKindOf(e ir.Entry) (format.BlobType, error) {
	switch e.(type) {
	case *ir.Function:
		return format.BlobFunction, nil
	case *ir.Callback:
		return format.BlobCallback, nil
	case *ir.Struct:
		if e.(*ir.Struct).IsBoxed {
			return format.BlobBoxed, nil
		}
		return format.BlobStruct, nil
	case *ir.Union:
		return format.BlobUnion, nil
	case *ir.Enum:
		if e.(*ir.Enum).IsFlags {
			return format.BlobFlags, nil
		}
		return format.BlobEnum, nil
	case *ir.Object:
		return format.BlobObject, nil
	case *ir.Interface:
		return format.BlobInterface, nil
	case *ir.Constant:
		return format.BlobConstant, nil
	case *ir.ErrorDomain:
		return format.BlobErrorDomain, nil
	default:
		return 0, fmt.Errorf("compile: entry %q has no directory representation", e.EntryName())
	}
}

// resolve maps name to its 1-based directory index, registering a new xref
// stub the first time a foreign name is seen. Per spec §4.3 "Implicit
// cross-references", a name qualified with a foreign namespace becomes a
// directory-index xref stub even when that namespace was never <include>d
// (spec §8 seed scenario 4: "X contains class C with parent='Y.Base' and no
// <include name='Y'>" still yields a stub, not an error). Only a name that
// is unqualified (or qualified to this module's own namespace) and cannot
// be found locally is a dangling cross-reference (spec §7
// SemanticResolution).
func (p *planner) resolve(name string) (uint16, error) {
	if name == "" {
		return 0, nil
	}
	ns, bare := splitQualifiedName(name)
	if ns == "" || ns == p.m.Name {
		if idx, ok := p.localIndex[bare]; ok {
			return idx, nil
		}
	}
	entry, owner, ok := ir.ResolveEntry(p.m, name)
	if ok {
		if owner == p.m {
			if idx, ok := p.localIndex[entry.EntryName()]; ok {
				return idx, nil
			}
			return 0, ir.NewError(ir.ErrKindSemanticResolution,
				fmt.Sprintf("internal inconsistency resolving local entry %q", name), nil)
		}
		return p.xrefStub(owner.Name, entry.EntryName())
	}
	if ns == "" || ns == p.m.Name {
		return 0, ir.NewError(ir.ErrKindSemanticResolution,
			fmt.Sprintf("dangling cross-reference %q", name), nil)
	}
	// Namespace-qualified name naming a module that was never <include>d
	// (or that doesn't define the entry): still a legitimate implicit
	// cross-reference, materialized as a stub keyed on the literal
	// namespace + bare name (spec §4.3, §8 seed scenario 4).
	return p.xrefStub(ns, bare)
}

// xrefStub returns the directory index of the stub for ns.bare, registering
// a new one the first time this (ns, bare) pair is seen.
func (p *planner) xrefStub(ns, bare string) (uint16, error) {
	key := ns + "." + bare
	if idx, ok := p.xrefIndex[key]; ok {
		return idx, nil
	}
	idx := uint16(len(p.dir) + 1)
	p.dir = append(p.dir, dirPlan{kind: format.BlobInvalid, local: false, name: bare, ns: ns})
	p.xrefIndex[key] = idx
	return idx, nil
}

func splitQualifiedName(name string) (ns, bare string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}

func (p *planner) walkEntry(e ir.Entry) error {
	switch v := e.(type) {
	case *ir.Function:
		return p.walkSignature(v.Signature)
	case *ir.Callback:
		return p.walkSignature(v.Signature)
	case *ir.Struct:
		if err := p.walkFields(v.Fields); err != nil {
			return err
		}
		return p.walkFunctions(v.Methods)
	case *ir.Union:
		if err := p.walkFields(v.Fields); err != nil {
			return err
		}
		return p.walkFunctions(v.Methods)
	case *ir.Enum:
		return nil
	case *ir.Constant:
		return nil
	case *ir.ErrorDomain:
		if v.CodesName == "" {
			return nil
		}
		_, err := p.resolve(v.CodesName)
		return err
	case *ir.Object:
		for _, n := range []string{v.ParentName, v.ClassStructName} {
			if n == "" {
				continue
			}
			if _, err := p.resolve(n); err != nil {
				return err
			}
		}
		for _, n := range v.Interfaces {
			if _, err := p.resolve(n); err != nil {
				return err
			}
		}
		if err := p.walkFields(v.Fields); err != nil {
			return err
		}
		if err := p.walkProperties(v.Properties); err != nil {
			return err
		}
		if err := p.walkFunctions(v.Methods); err != nil {
			return err
		}
		if err := p.walkSignals(v.Signals); err != nil {
			return err
		}
		return p.walkVFuncs(v.VFuncs)
	case *ir.Interface:
		if v.ClassStructName != "" {
			if _, err := p.resolve(v.ClassStructName); err != nil {
				return err
			}
		}
		for _, n := range v.Prerequisites {
			if _, err := p.resolve(n); err != nil {
				return err
			}
		}
		if err := p.walkProperties(v.Properties); err != nil {
			return err
		}
		if err := p.walkFunctions(v.Methods); err != nil {
			return err
		}
		if err := p.walkSignals(v.Signals); err != nil {
			return err
		}
		return p.walkVFuncs(v.VFuncs)
	default:
		return nil
	}
}

func (p *planner) walkFields(fields []*ir.Field) error {
	for _, f := range fields {
		if f.CallbackSignature != nil {
			if err := p.walkSignature(f.CallbackSignature); err != nil {
				return err
			}
			continue
		}
		if err := p.walkType(f.Type); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) walkProperties(props []*ir.Property) error {
	for _, pr := range props {
		if err := p.walkType(pr.Type); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) walkFunctions(fns []*ir.Function) error {
	for _, fn := range fns {
		if err := p.walkSignature(fn.Signature); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) walkSignals(sigs []*ir.Signal) error {
	for _, s := range sigs {
		if err := p.walkSignature(s.Signature); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) walkVFuncs(vfs []*ir.VFunc) error {
	for _, v := range vfs {
		if err := p.walkSignature(v.Signature); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) walkSignature(sig *ir.Signature) error {
	if sig == nil {
		return nil
	}
	if sig.Return != nil {
		if err := p.walkType(sig.Return.Type); err != nil {
			return err
		}
	}
	for _, param := range sig.Params {
		if err := p.walkType(param.Type); err != nil {
			return err
		}
	}
	return nil
}

func (p *planner) walkType(t *ir.Type) error {
	if t == nil {
		return nil
	}
	switch t.Variant {
	case ir.TypeInterfaceRef:
		_, err := p.resolve(t.InterfaceName)
		return err
	case ir.TypeArray, ir.TypeGList, ir.TypeGSList:
		return p.walkType(t.Element)
	case ir.TypeHashTable:
		if err := p.walkType(t.KeyType); err != nil {
			return err
		}
		return p.walkType(t.ValueType)
	case ir.TypeError:
		for _, d := range t.ErrorDomains {
			if _, err := p.resolve(d); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
