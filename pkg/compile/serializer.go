package compile

import (
	"bytes"
	"fmt"

	"github.com/gircomp/gircomp/internal/buf"
	"github.com/gircomp/gircomp/internal/format"
	"github.com/gircomp/gircomp/internal/layout"
	"github.com/gircomp/gircomp/pkg/ir"
)

// Compile lays out and serializes m into a typelib binary image (spec §4.2,
// §4.3, §6). The layout engine runs internally, so m need only be parsed.
func Compile(m *ir.Module, opts Options) (*Result, error) {
	if err := layout.New().ComputeModule(m); err != nil {
		return nil, err
	}
	p, err := newPlanner(m)
	if err != nil {
		return nil, err
	}

	s := newSerializer(m, p)
	if err := s.runPass(); err != nil {
		return nil, err
	}
	total := s.offset

	image := make([]byte, total)
	s2 := newSerializer(m, p)
	s2.buf = image
	if err := s2.runPass(); err != nil {
		return nil, err
	}
	s2.writeHeader()

	res := &Result{Image: image}
	if opts.EmitC {
		var cbuf bytes.Buffer
		if err := EmitC(&cbuf, image, opts.NoInit); err != nil {
			return nil, err
		}
		res.C = cbuf.String()
	}
	return res, nil
}

// annoPending is one not-yet-encoded attributes-table row (spec §6.1 item 5).
type annoPending struct {
	nodeOff, key, val uint32
}

type serializer struct {
	m *ir.Module
	p *planner

	buf    []byte // nil during the sizing pass
	offset uint32

	strings map[string]uint32
	types   map[string]uint32

	annotations []annoPending

	nsNameOff, nsVersionOff, sharedLibOff uint32
	depsOffset, attrsOffset               uint32
}

func newSerializer(m *ir.Module, p *planner) *serializer {
	return &serializer{
		m:       m,
		p:       p,
		strings: map[string]uint32{},
		types:   map[string]uint32{},
		offset:  uint32(format.HeaderSize + len(p.dir)*format.DirEntrySize),
	}
}

func (s *serializer) writeBytes(off uint32, data []byte) {
	if s.buf != nil {
		copy(s.buf[off:int(off)+len(data)], data)
	}
}

func (s *serializer) advance(n uint32) { s.offset += n }

func (s *serializer) align4() { s.offset = uint32(buf.Align4(int(s.offset))) }

// putString interns v in the shared string pool, returning its byte offset
// (0 for the empty string, which is never otherwise a valid pool entry
// since the pool starts past the header and directory).
func (s *serializer) putString(v string) uint32 {
	if v == "" {
		return 0
	}
	if off, ok := s.strings[v]; ok {
		return off
	}
	off := s.offset
	data := make([]byte, len(v)+1)
	copy(data, v)
	s.writeBytes(off, data)
	s.advance(uint32(len(data)))
	s.align4()
	s.strings[v] = off
	return off
}

func (s *serializer) canon(name string) string {
	entry, owner, ok := ir.ResolveEntry(s.m, name)
	if !ok {
		return name
	}
	return owner.Name + "." + entry.EntryName()
}

// runPass performs one full deterministic walk of the module: header
// strings, the dependency table, then every directory entry's name and (for
// locals) its body and variable tail. Calling it twice with fresh pool maps
// reproduces identical offsets both times (spec §9's eager-stub-collection
// alternative to a restart loop), so the first call only needs to measure
// the total size and the second writes real bytes at those same offsets.
func (s *serializer) runPass() error {
	s.nsNameOff = s.putString(s.m.Name)
	s.nsVersionOff = s.putString(s.m.Version)
	s.sharedLibOff = s.putString(s.m.SharedLibraryString())

	s.depsOffset = s.offset
	for _, dep := range s.m.Dependencies {
		data := append([]byte(dep), 0)
		s.writeBytes(s.offset, data)
		s.advance(uint32(len(data)))
	}
	s.writeBytes(s.offset, []byte{0})
	s.advance(1)
	s.align4()

	for i := range s.p.dir {
		d := &s.p.dir[i]
		d.nameOff = s.putString(d.name)
		if !d.local {
			d.bodyOff = s.putString(d.ns)
			continue
		}
		d.bodyOff = s.offset
		// Reserve the fixed-size head before any per-kind emitter starts
		// carving out variable-size tails (field/method/... arrays), so
		// those tails land after the head instead of overlapping it.
		fixedSize, ok := format.FixedSizeOf(d.kind)
		if !ok {
			return fmt.Errorf("compile: entry %q has unrecognized blob kind", d.name)
		}
		s.advance(uint32(fixedSize))
		if err := s.emitLocalEntry(d); err != nil {
			return err
		}
	}

	s.attrsOffset = s.offset
	for _, a := range s.annotations {
		ab := &format.AnnotationBlob{NodeOffset: a.nodeOff, Key: a.key, Value: a.val}
		s.writeBytes(s.offset, ab.Encode())
		s.advance(format.AnnotationBlobSize)
	}
	return nil
}

func (s *serializer) emitLocalEntry(d *dirPlan) error {
	switch v := d.entry.(type) {
	case *ir.Function:
		return s.emitFunction(d, v)
	case *ir.Callback:
		return s.emitCallback(d, v)
	case *ir.Struct:
		return s.emitStruct(d, v)
	case *ir.Union:
		return s.emitUnion(d, v)
	case *ir.Enum:
		return s.emitEnum(d, v)
	case *ir.Object:
		return s.emitObject(d, v)
	case *ir.Interface:
		return s.emitInterface(d, v)
	case *ir.Constant:
		return s.emitConstant(d, v)
	case *ir.ErrorDomain:
		return s.emitErrorDomain(d, v)
	default:
		return nil
	}
}

// addAnnotations records entry-level annotation triples for e, anchored to
// nodeOff (spec §4 supplemented feature 5). Only top-level entries carry a
// NodeBase.Attrs map; member nodes (Field, Property, ...) do not.
func (s *serializer) addAnnotations(nodeOff uint32, attrs map[string]string) {
	for _, k := range sortedKeys(attrs) {
		s.annotations = append(s.annotations, annoPending{
			nodeOff: nodeOff,
			key:     s.putString(k),
			val:     s.putString(attrs[k]),
		})
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func (s *serializer) writeHeader() {
	h := &format.Header{
		Major: format.MajorVersion, Minor: format.MinorVersion,
		NEntries:      uint16(len(s.p.dir)),
		NLocalEntries: uint16(len(s.m.Entries)),
		DirectoryOffset: format.HeaderSize,
		NAttributes:   uint32(len(s.annotations)),
		AttributesOffset: s.attrsOffset,
		DependenciesOffset: s.depsOffset,
		Size:          uint32(len(s.buf)),
		NamespaceStringOffset: s.nsNameOff,
		NSVersionStringOffset: s.nsVersionOff,
		SharedLibraryStringOffset: s.sharedLibOff,
		BlobSizes:     format.HeaderBlobSizes(),
	}
	copy(s.buf[0:format.HeaderSize], h.Encode())
	for i, d := range s.p.dir {
		kind := d.kind
		if !d.local {
			// Non-local entries carry blob_type=0; body_offset holds the
			// owning namespace's string offset instead (spec §6.1 item 2).
			kind = format.BlobInvalid
		}
		de := &format.DirEntry{BlobType: kind, Local: d.local, NameStringOffset: d.nameOff, BodyOffset: d.bodyOff}
		start := format.HeaderSize + i*format.DirEntrySize
		copy(s.buf[start:start+format.DirEntrySize], de.Encode())
	}
}
