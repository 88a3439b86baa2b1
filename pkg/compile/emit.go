package compile

import (
	"math"
	"strconv"

	"github.com/gircomp/gircomp/internal/buf"
	"github.com/gircomp/gircomp/internal/format"
	"github.com/gircomp/gircomp/pkg/ir"
	"github.com/gircomp/gircomp/pkg/tag"
)

// reserveArray carves out a contiguous block for n fixed-size member
// records (spec §3 "members of an aggregate are emitted in order, each
// list internally sorted"), returning its start offset. Nested variable
// data (type slots, signatures) for those records is appended afterward and
// referenced by offset, so it never breaks the block's contiguity.
func (s *serializer) reserveArray(n, elemSize int) uint32 {
	start := s.offset
	s.advance(uint32(n * elemSize))
	return start
}

func (s *serializer) emitFields(fields []*ir.Field) (uint32, uint16, error) {
	sorted := sortMembers(fields)
	start := s.reserveArray(len(sorted), format.FieldBlobSize)
	for i, f := range sorted {
		t := f.Type
		if t == nil {
			// Inline callback-typed field (spec §4.1): pointer width only,
			// the callback's own signature is not separately addressable
			// from a field slot.
			t = ir.NewSimpleType(tag.Void, true)
		}
		slot, err := s.putType(t)
		if err != nil {
			return 0, 0, err
		}
		var flags uint16
		if f.Readable {
			flags |= format.FieldFlagReadable
		}
		if f.Writable {
			flags |= format.FieldFlagWritable
		}
		fb := &format.FieldBlob{
			EntryHeader: format.EntryHeader{Name: s.putString(f.Name), Flags: flags},
			TypeSlot:    slot,
			Offset:      int32(f.Offset),
		}
		fb.SetBitWidth(uint8(f.BitWidth))
		s.writeBytes(start+uint32(i*format.FieldBlobSize), fb.Encode())
	}
	return start, uint16(len(sorted)), nil
}

func (s *serializer) emitProperties(props []*ir.Property) (uint32, uint16, error) {
	sorted := sortMembers(props)
	start := s.reserveArray(len(sorted), format.PropertyBlobSize)
	for i, p := range sorted {
		slot, err := s.putType(p.Type)
		if err != nil {
			return 0, 0, err
		}
		var flags uint16
		if p.Readable {
			flags |= format.PropFlagReadable
		}
		if p.Writable {
			flags |= format.PropFlagWritable
		}
		if p.Construct {
			flags |= format.PropFlagConstruct
		}
		if p.ConstructOnly {
			flags |= format.PropFlagConstructOnly
		}
		if p.Deprecated {
			flags |= format.PropFlagDeprecated
		}
		pb := &format.PropertyBlob{
			EntryHeader: format.EntryHeader{Name: s.putString(p.Name), Flags: flags},
			TypeSlot:    slot,
		}
		s.writeBytes(start+uint32(i*format.PropertyBlobSize), pb.Encode())
	}
	return start, uint16(len(sorted)), nil
}

// emitFunctionBody writes a FunctionBlob at its own reserved slot followed
// immediately by its trailing SignatureBlob+ArgBlobs, used both for
// top-level functions (spec §6.1 item 4) and for methods inlined into an
// aggregate's member array.
func (s *serializer) emitFunctionBody(off uint32, nameOff uint32, fn *ir.Function) error {
	sigOff, err := s.emitSignature(fn.Signature)
	if err != nil {
		return err
	}
	var flags uint16
	if fn.Deprecated {
		flags |= format.FuncFlagDeprecated
	}
	if fn.IsMethod {
		flags |= format.FuncFlagIsMethod
	}
	switch fn.Role {
	case ir.RoleSetter:
		flags |= format.FuncFlagSetter
	case ir.RoleGetter:
		flags |= format.FuncFlagGetter
	case ir.RoleConstructor:
		flags |= format.FuncFlagConstructor
	case ir.RoleWrapsVFunc:
		flags |= format.FuncFlagWrapsVFunc
	}
	if fn.Signature.Throws {
		flags |= format.FuncFlagThrows
	}
	fb := &format.FunctionBlob{
		EntryHeader:  format.EntryHeader{BlobType: format.BlobFunction, Flags: flags, Name: nameOff},
		Symbol:       s.putString(fn.Symbol),
		SignatureOff: sigOff,
		WrappedIndex: uint32(fn.WrappedIndex),
	}
	s.writeBytes(off, fb.Encode())
	s.addAnnotations(off, fn.Attrs)
	return nil
}

func (s *serializer) emitMethods(methods []*ir.Function) (uint32, uint16, error) {
	sorted := sortMembers(methods)
	start := s.reserveArray(len(sorted), format.FunctionBlobSize)
	for i, fn := range sorted {
		off := start + uint32(i*format.FunctionBlobSize)
		if err := s.emitFunctionBody(off, s.putString(fn.Name), fn); err != nil {
			return 0, 0, err
		}
	}
	return start, uint16(len(sorted)), nil
}

func (s *serializer) emitSignals(signals []*ir.Signal) (uint32, uint16, error) {
	sorted := sortMembers(signals)
	start := s.reserveArray(len(sorted), format.SignalBlobSize)
	for i, sig := range sorted {
		sigOff, err := s.emitSignature(sig.Signature)
		if err != nil {
			return 0, 0, err
		}
		var flags uint16
		switch sig.RunPhase {
		case ir.RunFirst:
			flags |= format.SignalFlagRunFirst
		case ir.RunLast:
			flags |= format.SignalFlagRunLast
		case ir.RunCleanup:
			flags |= format.SignalFlagRunCleanup
		}
		if sig.NoRecurse {
			flags |= format.SignalFlagNoRecurse
		}
		if sig.Detailed {
			flags |= format.SignalFlagDetailed
		}
		if sig.Action {
			flags |= format.SignalFlagAction
		}
		if sig.NoHooks {
			flags |= format.SignalFlagNoHooks
		}
		if sig.HasClassClosure() {
			flags |= format.SignalFlagHasClassClosure
		}
		if sig.TrueStopsEmit {
			flags |= format.SignalFlagTrueStopsEmit
		}
		sb := &format.SignalBlob{
			EntryHeader:  format.EntryHeader{Name: s.putString(sig.Name), Flags: flags},
			SignatureOff: sigOff,
		}
		if sig.HasClassClosure() {
			sb.ClassClosureIdx = uint16(sig.ClassClosureIndex)
		}
		s.writeBytes(start+uint32(i*format.SignalBlobSize), sb.Encode())
	}
	return start, uint16(len(sorted)), nil
}

func (s *serializer) emitVFuncs(vfuncs []*ir.VFunc, methods []*ir.Function) (uint32, uint16, error) {
	sorted := sortMembers(vfuncs)
	start := s.reserveArray(len(sorted), format.VFuncBlobSize)
	for i, v := range sorted {
		sigOff, err := s.emitSignature(v.Signature)
		if err != nil {
			return 0, 0, err
		}
		var flags uint16
		if v.MustChainUp {
			flags |= format.VFuncFlagMustChainUp
		}
		if v.MustBeImplemented {
			flags |= format.VFuncFlagMustBeImplemented
		}
		if v.MustNotBeImplemented {
			flags |= format.VFuncFlagMustNotBeImplemented
		}
		if v.IsClassClosure {
			flags |= format.VFuncFlagIsClassClosure
		}
		invoker := int32(-1)
		if v.InvokerName != "" {
			invoker = invokerIndex(methods, v.InvokerName)
		}
		vb := &format.VFuncBlob{
			EntryHeader:  format.EntryHeader{Name: s.putString(v.Name), Flags: flags},
			SignatureOff: sigOff,
			ClassOffset:  uint32(v.ClassOffset),
			InvokerIndex: invoker,
		}
		s.writeBytes(start+uint32(i*format.VFuncBlobSize), vb.Encode())
	}
	return start, uint16(len(sorted)), nil
}

// invokerIndex finds name's position in methods' declaration order (spec §3.6
// Vfunc "invoker": the index of the ordinary method this vfunc is invoked
// through), or -1 if not found. Matches the pre-sort order the parser built,
// which is the order a real g_ir_node_find_by_name-style lookup would hit.
func invokerIndex(methods []*ir.Function, name string) int32 {
	for i, m := range methods {
		if m.Name == name {
			return int32(i)
		}
	}
	return -1
}

func (s *serializer) emitConstantMembers(consts []*ir.Constant) (uint32, uint16, error) {
	sorted := sortMembers(consts)
	start := s.reserveArray(len(sorted), format.ConstantBlobSize)
	for i, c := range sorted {
		off := start + uint32(i*format.ConstantBlobSize)
		if err := s.emitConstantBody(off, s.putString(c.Name), c); err != nil {
			return 0, 0, err
		}
	}
	return start, uint16(len(sorted)), nil
}

// encodeLiteral renders a constant's textual GIR value into its binary form
// (spec §3.5 Constant): the UTF8 bytes (NUL-terminated) for string-tagged
// constants, otherwise an 8-byte little-endian integer or IEEE-754 double.
func encodeLiteral(t *ir.Type, literal string) []byte {
	if t.Tag == tag.UTF8 || t.Tag == tag.Filename {
		b := make([]byte, len(literal)+1)
		copy(b, literal)
		return b
	}
	if t.Tag == tag.Float || t.Tag == tag.Double {
		f, _ := strconv.ParseFloat(literal, 64)
		b := make([]byte, 8)
		buf.PutU64LE(b, math.Float64bits(f))
		return b
	}
	if t.Tag == tag.Boolean {
		b := make([]byte, 4)
		if literal == "1" || literal == "true" {
			b[0] = 1
		}
		return b
	}
	n, _ := strconv.ParseInt(literal, 10, 64)
	b := make([]byte, 8)
	buf.PutU64LE(b, uint64(n))
	return b
}

func (s *serializer) emitConstantBody(off, nameOff uint32, c *ir.Constant) error {
	slot, err := s.putType(c.Type)
	if err != nil {
		return err
	}
	data := encodeLiteral(c.Type, c.Literal)
	valOff := s.offset
	s.writeBytes(valOff, data)
	s.advance(uint32(buf.Align4(len(data))))

	var flags uint16
	if c.Deprecated {
		flags |= format.EntryFlagDeprecated
	}
	cb := &format.ConstantBlob{
		EntryHeader: format.EntryHeader{BlobType: format.BlobConstant, Flags: flags, Name: nameOff},
		TypeSlot:    slot,
		Size:        uint32(len(data)),
		ValueOff:    valOff,
	}
	s.writeBytes(off, cb.Encode())
	s.addAnnotations(off, c.Attrs)
	return nil
}

func (s *serializer) emitFunction(d *dirPlan, fn *ir.Function) error {
	return s.emitFunctionBody(d.bodyOff, d.nameOff, fn)
}

func (s *serializer) emitCallback(d *dirPlan, cb *ir.Callback) error {
	sigOff, err := s.emitSignature(cb.Signature)
	if err != nil {
		return err
	}
	var flags uint16
	if cb.Deprecated {
		flags |= format.EntryFlagDeprecated
	}
	b := &format.CallbackBlob{
		EntryHeader:  format.EntryHeader{BlobType: format.BlobCallback, Flags: flags, Name: d.nameOff},
		SignatureOff: sigOff,
	}
	s.writeBytes(d.bodyOff, b.Encode())
	s.addAnnotations(d.bodyOff, cb.Attrs)
	return nil
}

func (s *serializer) emitConstant(d *dirPlan, c *ir.Constant) error {
	return s.emitConstantBody(d.bodyOff, d.nameOff, c)
}

func (s *serializer) emitErrorDomain(d *dirPlan, ed *ir.ErrorDomain) error {
	codesIdx, err := s.p.resolve(ed.CodesName)
	if err != nil {
		return err
	}
	var flags uint16
	if ed.Deprecated {
		flags |= format.EntryFlagDeprecated
	}
	b := &format.ErrorDomainBlob{
		EntryHeader: format.EntryHeader{BlobType: format.BlobErrorDomain, Flags: flags, Name: d.nameOff},
		GetQuark:    s.putString(ed.GetQuark),
		ErrorCodes:  uint32(codesIdx),
	}
	s.writeBytes(d.bodyOff, b.Encode())
	s.addAnnotations(d.bodyOff, ed.Attrs)
	return nil
}

func (s *serializer) emitEnum(d *dirPlan, e *ir.Enum) error {
	sorted := sortMembers(e.Values)
	start := s.reserveArray(len(sorted), format.ValueBlobSize)
	for i, v := range sorted {
		var flags uint16
		if v.Deprecated {
			flags |= format.ValueFlagDeprecated
		}
		vb := &format.ValueBlob{
			EntryHeader: format.EntryHeader{Name: s.putString(v.Name), Flags: flags},
			Value:       uint32(v.Value),
		}
		s.writeBytes(start+uint32(i*format.ValueBlobSize), vb.Encode())
	}

	kind := format.BlobEnum
	if e.IsFlags {
		kind = format.BlobFlags
	}
	var flags uint16
	if e.Deprecated {
		flags |= format.EntryFlagDeprecated
	}
	eb := &format.EnumBlob{
		EntryHeader: format.EntryHeader{BlobType: kind, Flags: flags, Name: d.nameOff},
		StorageTag:  uint32(e.StorageTag),
		GTypeName:   s.putString(e.GTypeName),
		GTypeInit:   s.putString(e.GTypeInit),
		NValues:     uint16(len(sorted)),
	}
	s.writeBytes(d.bodyOff, eb.Encode())
	s.addAnnotations(d.bodyOff, e.Attrs)
	return nil
}

func (s *serializer) emitStruct(d *dirPlan, st *ir.Struct) error {
	_, nFields, err := s.emitFields(st.Fields)
	if err != nil {
		return err
	}
	_, nMethods, err := s.emitMethods(st.Methods)
	if err != nil {
		return err
	}

	kind := format.BlobStruct
	if st.IsBoxed {
		kind = format.BlobBoxed
	}
	var flags uint16
	if st.Disguised {
		flags |= format.StructFlagDisguised
	}
	if st.ClassStructFor != "" {
		flags |= format.StructFlagIsClassStructFor
	}
	if st.Deprecated {
		flags |= format.StructFlagDeprecated
	}
	sb := &format.StructBlob{
		EntryHeader: format.EntryHeader{BlobType: kind, Flags: flags, Name: d.nameOff},
		GTypeName:   s.putString(st.GTypeName),
		GTypeInit:   s.putString(st.GTypeInit),
		Size:        uint32(st.Size),
		Alignment:   uint16(st.Alignment),
		NFields:     nFields,
		NMethods:    nMethods,
	}
	s.writeBytes(d.bodyOff, sb.Encode())
	s.addAnnotations(d.bodyOff, st.Attrs)
	return nil
}

func (s *serializer) emitUnion(d *dirPlan, u *ir.Union) error {
	_, nFields, err := s.emitFields(u.Fields)
	if err != nil {
		return err
	}
	_, nMethods, err := s.emitMethods(u.Methods)
	if err != nil {
		return err
	}

	var discType uint32
	if u.Discriminated && u.DiscriminatorType != nil {
		discType, err = s.putType(u.DiscriminatorType)
		if err != nil {
			return err
		}
	}

	var flags uint16
	if u.Discriminated {
		flags |= format.UnionFlagDiscriminated
	}
	if u.Deprecated {
		flags |= format.UnionFlagDeprecated
	}
	ub := &format.UnionBlob{
		EntryHeader:         format.EntryHeader{BlobType: format.BlobUnion, Flags: flags, Name: d.nameOff},
		GTypeName:           s.putString(u.GTypeName),
		GTypeInit:           s.putString(u.GTypeInit),
		Size:                uint32(u.Size),
		Alignment:           uint16(u.Alignment),
		NFields:             nFields,
		NFunctions:          nMethods,
		DiscriminatorOffset: int32(u.DiscriminatorOffset),
		DiscriminatorType:   discType,
		NDiscriminators:     uint16(len(u.DiscriminatorValues)),
	}
	s.writeBytes(d.bodyOff, ub.Encode())
	s.addAnnotations(d.bodyOff, u.Attrs)

	// The discriminator constants trail the union body as ValueBlob records,
	// one per branch, in declaration (branch) order (spec §4 supplemented
	// feature 8 "union discriminator round-trip"): order carries meaning
	// here (it lines up with each field's branch), so these are not sorted.
	for _, v := range u.DiscriminatorValues {
		vb := &format.ValueBlob{
			EntryHeader: format.EntryHeader{Name: s.putString(v.Name)},
			Value:       uint32(v.Value),
		}
		off := s.offset
		s.writeBytes(off, vb.Encode())
		s.advance(format.ValueBlobSize)
	}
	return nil
}

func (s *serializer) emitObject(d *dirPlan, o *ir.Object) error {
	var parentIdx uint16
	if o.ParentName != "" {
		idx, err := s.p.resolve(o.ParentName)
		if err != nil {
			return err
		}
		parentIdx = idx
	}
	var classStructIdx uint16
	if o.ClassStructName != "" {
		idx, err := s.p.resolve(o.ClassStructName)
		if err != nil {
			return err
		}
		classStructIdx = idx
	}

	ifaceStart := s.reserveArray(len(o.Interfaces), 2)
	for i, name := range o.Interfaces {
		idx, err := s.p.resolve(name)
		if err != nil {
			return err
		}
		b := make([]byte, 2)
		buf.PutU16LE(b, idx)
		s.writeBytes(ifaceStart+uint32(i*2), b)
	}
	s.align4()

	_, nFields, err := s.emitFields(o.Fields)
	if err != nil {
		return err
	}
	_, nProps, err := s.emitProperties(o.Properties)
	if err != nil {
		return err
	}
	_, nMethods, err := s.emitMethods(o.Methods)
	if err != nil {
		return err
	}
	_, nSignals, err := s.emitSignals(o.Signals)
	if err != nil {
		return err
	}
	_, nVFuncs, err := s.emitVFuncs(o.VFuncs, o.Methods)
	if err != nil {
		return err
	}
	_, nConsts, err := s.emitConstantMembers(o.Constants)
	if err != nil {
		return err
	}

	var flags uint16
	if o.Abstract {
		flags |= format.ObjectFlagAbstract
	}
	if o.Deprecated {
		flags |= format.ObjectFlagDeprecated
	}
	ob := &format.ObjectBlob{
		EntryHeader: format.EntryHeader{BlobType: format.BlobObject, Flags: flags, Name: d.nameOff},
		GTypeName:   s.putString(o.GTypeName),
		GTypeInit:   s.putString(o.GTypeInit),
		Parent:      parentIdx,
		GTypeStruct: classStructIdx,
		NInterfaces: uint16(len(o.Interfaces)),
		NFields:     nFields,
		NProperties: nProps,
		NMethods:    nMethods,
		NSignals:    nSignals,
		NVFuncs:     nVFuncs,
		NConstants:  nConsts,
	}
	s.writeBytes(d.bodyOff, ob.Encode())
	s.addAnnotations(d.bodyOff, o.Attrs)
	return nil
}

func (s *serializer) emitInterface(d *dirPlan, i *ir.Interface) error {
	var classStructIdx uint16
	if i.ClassStructName != "" {
		idx, err := s.p.resolve(i.ClassStructName)
		if err != nil {
			return err
		}
		classStructIdx = idx
	}

	prereqStart := s.reserveArray(len(i.Prerequisites), 2)
	for idx2, name := range i.Prerequisites {
		idx, err := s.p.resolve(name)
		if err != nil {
			return err
		}
		b := make([]byte, 2)
		buf.PutU16LE(b, idx)
		s.writeBytes(prereqStart+uint32(idx2*2), b)
	}
	s.align4()

	_, nProps, err := s.emitProperties(i.Properties)
	if err != nil {
		return err
	}
	_, nMethods, err := s.emitMethods(i.Methods)
	if err != nil {
		return err
	}
	_, nSignals, err := s.emitSignals(i.Signals)
	if err != nil {
		return err
	}
	_, nVFuncs, err := s.emitVFuncs(i.VFuncs, i.Methods)
	if err != nil {
		return err
	}
	_, nConsts, err := s.emitConstantMembers(i.Constants)
	if err != nil {
		return err
	}

	var flags uint16
	if i.Deprecated {
		flags |= format.EntryFlagDeprecated
	}
	ib := &format.InterfaceBlob{
		EntryHeader:    format.EntryHeader{BlobType: format.BlobInterface, Flags: flags, Name: d.nameOff},
		GTypeName:      s.putString(i.GTypeName),
		GTypeInit:      s.putString(i.GTypeInit),
		GTypeStruct:    classStructIdx,
		NPrerequisites: uint16(len(i.Prerequisites)),
		NProperties:    nProps,
		NMethods:       nMethods,
		NSignals:       nSignals,
		NVFuncs:        nVFuncs,
		NConstants:     nConsts,
	}
	s.writeBytes(d.bodyOff, ib.Encode())
	s.addAnnotations(d.bodyOff, i.Attrs)
	return nil
}
