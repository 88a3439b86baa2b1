package validate

import (
	"github.com/gircomp/gircomp/internal/buf"
	"github.com/gircomp/gircomp/internal/format"
)

func (v *validator) checkLocalEntry(de *format.DirEntry) error {
	switch de.BlobType {
	case format.BlobFunction:
		return v.checkFunction(de.BodyOffset)
	case format.BlobCallback:
		return v.checkCallback(de.BodyOffset)
	case format.BlobStruct, format.BlobBoxed:
		return v.checkStruct(de.BodyOffset)
	case format.BlobUnion:
		return v.checkUnion(de.BodyOffset)
	case format.BlobEnum, format.BlobFlags:
		return v.checkEnum(de.BodyOffset)
	case format.BlobObject:
		return v.checkObject(de.BodyOffset)
	case format.BlobInterface:
		return v.checkInterface(de.BodyOffset)
	case format.BlobConstant:
		return v.checkConstant(de.BodyOffset)
	case format.BlobErrorDomain:
		return v.checkErrorDomain(de.BodyOffset)
	default:
		return v.path.errorf(errKindBinary, "no validator for blob kind %s", de.BlobType)
	}
}

// checkSignature validates the SignatureBlob at off and its trailing
// ArgBlob array (spec §3.4, §6.1 item 4).
func (v *validator) checkSignature(off uint32) error {
	pop := v.path.push("signature")
	defer pop()

	head, ok := buf.Slice(v.buf, int(off), format.SignatureBlobSize)
	if !ok {
		return v.path.errorf(errKindBinary, "signature at %d exceeds buffer", off)
	}
	sb, err := format.DecodeSignatureBlob(head)
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	if err := v.checkTypeSlot(sb.ReturnTypeSlot); err != nil {
		return err
	}

	argsStart := off + format.SignatureBlobSize
	for i := 0; i < int(sb.NArguments); i++ {
		argOff := argsStart + uint32(i)*format.ArgBlobSize
		if err := v.checkArg(argOff, int(sb.NArguments)); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) checkArg(off uint32, nArgs int) error {
	body, ok := buf.Slice(v.buf, int(off), format.ArgBlobSize)
	if !ok {
		return v.path.errorf(errKindBinary, "argument at %d exceeds buffer", off)
	}
	ab, err := format.DecodeArgBlob(body)
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	name, err := v.identifierString(ab.Name, false)
	if err != nil {
		return err
	}
	pop := v.path.push("argument %q", name)
	defer pop()
	if err := v.checkTypeSlot(ab.TypeSlot); err != nil {
		return err
	}
	if ab.Scope > format.ScopeNotified {
		return v.path.errorf(errKindBinary, "invalid scope %d", ab.Scope)
	}
	if int(ab.ClosureIndex) >= nArgs || int(ab.DestroyIndex) >= nArgs {
		return v.path.errorf(errKindBinary, "closure/destroy index out of range [0, %d)", nArgs)
	}
	return nil
}

// fieldArray, methodArray, ... each validate a member array of n elements of
// elemSize starting at start, dispatching to checkFn per element (spec §4.4
// item 4, recursively checking every embedded field/property/.../vfunc).
func (v *validator) memberArray(start uint32, n int, elemSize int, label string, checkFn func(off uint32) error) error {
	for i := 0; i < n; i++ {
		off := start + uint32(i*elemSize)
		if !buf.Has(v.buf, int(off), elemSize) {
			return v.path.errorf(errKindBinary, "%s %d at %d exceeds buffer", label, i, off)
		}
		if err := checkFn(off); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) checkField(off uint32) error {
	fb, err := format.DecodeFieldBlob(v.buf[off : off+format.FieldBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	name, _ := v.identifierString(fb.Name, false)
	pop := v.path.push("field %q", name)
	defer pop()
	return v.checkTypeSlot(fb.TypeSlot)
}

func (v *validator) checkProperty(off uint32) error {
	pb, err := format.DecodePropertyBlob(v.buf[off : off+format.PropertyBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	name, _ := v.identifierString(pb.Name, false)
	pop := v.path.push("property %q", name)
	defer pop()
	return v.checkTypeSlot(pb.TypeSlot)
}

func (v *validator) checkMethod(off uint32) error {
	fb, err := format.DecodeFunctionBlob(v.buf[off : off+format.FunctionBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	name, _ := v.identifierString(fb.Name, false)
	pop := v.path.push("method %q", name)
	defer pop()
	return v.checkFunctionBlob(fb)
}

func (v *validator) checkSignal(off uint32) error {
	sb, err := format.DecodeSignalBlob(v.buf[off : off+format.SignalBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	name, _ := v.identifierString(sb.Name, false)
	pop := v.path.push("signal %q", name)
	defer pop()

	phases := 0
	for _, f := range []uint16{format.SignalFlagRunFirst, format.SignalFlagRunLast, format.SignalFlagRunCleanup} {
		if sb.Flags&f != 0 {
			phases++
		}
	}
	if phases != 1 {
		return v.path.errorf(errKindBinary, "exactly one run-phase bit must be set, found %d", phases)
	}
	return v.checkSignature(sb.SignatureOff)
}

func (v *validator) checkVFunc(off uint32) error {
	vb, err := format.DecodeVFuncBlob(v.buf[off : off+format.VFuncBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	name, _ := v.identifierString(vb.Name, false)
	pop := v.path.push("vfunc %q", name)
	defer pop()
	return v.checkSignature(vb.SignatureOff)
}

func (v *validator) checkConstantMember(off uint32) error {
	cb, err := format.DecodeConstantBlob(v.buf[off : off+format.ConstantBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	name, _ := v.identifierString(cb.Name, false)
	pop := v.path.push("constant %q", name)
	defer pop()
	return v.checkConstantBlob(cb)
}

func (v *validator) checkFunction(off uint32) error {
	fb, err := format.DecodeFunctionBlob(v.buf[off : off+format.FunctionBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	return v.checkFunctionBlob(fb)
}

func (v *validator) checkFunctionBlob(fb *format.FunctionBlob) error {
	if _, err := v.identifierString(fb.Symbol, false); err != nil {
		return err
	}
	exclusive := 0
	for _, f := range []uint16{format.FuncFlagSetter, format.FuncFlagGetter, format.FuncFlagWrapsVFunc} {
		if fb.Flags&f != 0 {
			exclusive++
		}
	}
	if exclusive > 1 {
		return v.path.errorf(errKindBinary, "at most one of setter/getter/wraps-vfunc may be set")
	}
	if exclusive == 1 && fb.Flags&format.FuncFlagIsMethod == 0 {
		return v.path.errorf(errKindBinary, "setter/getter/wraps-vfunc implies is-method")
	}
	return v.checkSignature(fb.SignatureOff)
}

func (v *validator) checkCallback(off uint32) error {
	cb, err := format.DecodeCallbackBlob(v.buf[off : off+format.CallbackBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	return v.checkSignature(cb.SignatureOff)
}

// isPow2InRange reports whether n is one of {1,2,4,8} (spec §8's "alignment
// is a power of two in {1,2,4,8}" testable property).
func isPow2InRange(n int) bool {
	switch n {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

func (v *validator) checkSizeAlignment(size int, alignment int) error {
	if !isPow2InRange(alignment) {
		return v.path.errorf(errKindBinary, "alignment %d is not a power of two in {1,2,4,8}", alignment)
	}
	if size%alignment != 0 {
		return v.path.errorf(errKindBinary, "size %d is not a multiple of alignment %d", size, alignment)
	}
	return nil
}

func (v *validator) checkStruct(off uint32) error {
	sb, err := format.DecodeStructBlob(v.buf[off : off+format.StructBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	if err := v.checkSizeAlignment(int(sb.Size), int(sb.Alignment)); err != nil {
		return err
	}
	if _, err := v.identifierString(sb.GTypeName, false); err != nil {
		return err
	}
	if _, err := v.identifierString(sb.GTypeInit, false); err != nil {
		return err
	}

	tailStart := off + format.StructBlobSize
	if err := v.memberArray(tailStart, int(sb.NFields), format.FieldBlobSize, "field", v.checkField); err != nil {
		return err
	}
	methodsStart := tailStart + uint32(sb.NFields)*format.FieldBlobSize
	return v.memberArray(methodsStart, int(sb.NMethods), format.FunctionBlobSize, "method", v.checkMethod)
}

func (v *validator) checkUnion(off uint32) error {
	ub, err := format.DecodeUnionBlob(v.buf[off : off+format.UnionBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	if err := v.checkSizeAlignment(int(ub.Size), int(ub.Alignment)); err != nil {
		return err
	}

	tailStart := off + format.UnionBlobSize
	if err := v.memberArray(tailStart, int(ub.NFields), format.FieldBlobSize, "field", v.checkField); err != nil {
		return err
	}
	methodsStart := tailStart + uint32(ub.NFields)*format.FieldBlobSize
	if err := v.memberArray(methodsStart, int(ub.NFunctions), format.FunctionBlobSize, "method", v.checkMethod); err != nil {
		return err
	}
	if ub.Flags&format.UnionFlagDiscriminated != 0 {
		if err := v.checkTypeSlot(ub.DiscriminatorType); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) checkEnum(off uint32) error {
	eb, err := format.DecodeEnumBlob(v.buf[off : off+format.EnumBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	if eb.StorageTag > uint32(format.TypeKindFilename) {
		return v.path.errorf(errKindBinary, "enum storage tag %d is not a basic integer tag", eb.StorageTag)
	}
	tailStart := off + format.EnumBlobSize
	return v.memberArray(tailStart, int(eb.NValues), format.ValueBlobSize, "value", func(voff uint32) error {
		_, err := format.DecodeValueBlob(v.buf[voff : voff+format.ValueBlobSize])
		return err
	})
}

func (v *validator) checkObject(off uint32) error {
	ob, err := format.DecodeObjectBlob(v.buf[off : off+format.ObjectBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	if err := v.dirIndex(uint32(ob.Parent), true); err != nil {
		return err
	}
	if k := v.dirEntryKind(uint32(ob.Parent)); ob.Parent != 0 && k != format.BlobInvalid && k != format.BlobObject {
		return v.path.errorf(errKindBinary, "parent points to non-object blob kind %s", k)
	}
	if err := v.dirIndex(uint32(ob.GTypeStruct), true); err != nil {
		return err
	}
	if k := v.dirEntryKind(uint32(ob.GTypeStruct)); ob.GTypeStruct != 0 && k != format.BlobInvalid && k != format.BlobStruct && k != format.BlobBoxed {
		return v.path.errorf(errKindBinary, "gtype_struct points to non-struct blob kind %s", k)
	}

	ifaceStart := off + format.ObjectBlobSize
	for i := 0; i < int(ob.NInterfaces); i++ {
		idxOff := ifaceStart + uint32(i*2)
		if !buf.Has(v.buf, int(idxOff), 2) {
			return v.path.errorf(errKindBinary, "interface %d exceeds buffer", i)
		}
		idx := uint32(buf.U16LE(v.buf[idxOff : idxOff+2]))
		if err := v.dirIndex(idx, false); err != nil {
			return err
		}
		if k := v.dirEntryKind(idx); k != format.BlobInvalid && k != format.BlobInterface {
			return v.path.errorf(errKindBinary, "implemented interface %d points to non-interface blob kind %s", idx, k)
		}
	}

	cursor := buf.Align4(int(ifaceStart) + int(ob.NInterfaces)*2)
	_, err = v.walkCommonMembers(uint32(cursor), int(ob.NFields), int(ob.NProperties), int(ob.NMethods), int(ob.NSignals), int(ob.NVFuncs), int(ob.NConstants))
	return err
}

func (v *validator) checkInterface(off uint32) error {
	ib, err := format.DecodeInterfaceBlob(v.buf[off : off+format.InterfaceBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	if err := v.dirIndex(uint32(ib.GTypeStruct), true); err != nil {
		return err
	}
	if k := v.dirEntryKind(uint32(ib.GTypeStruct)); ib.GTypeStruct != 0 && k != format.BlobInvalid && k != format.BlobStruct && k != format.BlobBoxed {
		return v.path.errorf(errKindBinary, "gtype_struct points to non-struct blob kind %s", k)
	}

	prereqStart := off + format.InterfaceBlobSize
	for i := 0; i < int(ib.NPrerequisites); i++ {
		idxOff := prereqStart + uint32(i*2)
		if !buf.Has(v.buf, int(idxOff), 2) {
			return v.path.errorf(errKindBinary, "prerequisite %d exceeds buffer", i)
		}
		idx := uint32(buf.U16LE(v.buf[idxOff : idxOff+2]))
		if err := v.dirIndex(idx, false); err != nil {
			return err
		}
		if k := v.dirEntryKind(idx); k != format.BlobInvalid && k != format.BlobObject && k != format.BlobInterface {
			return v.path.errorf(errKindBinary, "prerequisite %d points to incompatible blob kind %s", idx, k)
		}
	}

	cursor := buf.Align4(int(prereqStart) + int(ib.NPrerequisites)*2)
	_, err = v.walkCommonMembers(uint32(cursor), 0, int(ib.NProperties), int(ib.NMethods), int(ib.NSignals), int(ib.NVFuncs), int(ib.NConstants))
	return err
}

// walkCommonMembers checks the shared object/interface member-array tail in
// the canonical order (spec §4.3 "tie-breaks and ordering": fields,
// properties, methods, signals, vfuncs, constants), returning the cursor
// just past the constants array.
func (v *validator) walkCommonMembers(start uint32, nFields, nProps, nMethods, nSignals, nVFuncs, nConsts int) (uint32, error) {
	cursor := start
	if err := v.memberArray(cursor, nFields, format.FieldBlobSize, "field", v.checkField); err != nil {
		return 0, err
	}
	cursor += uint32(nFields) * format.FieldBlobSize

	if err := v.memberArray(cursor, nProps, format.PropertyBlobSize, "property", v.checkProperty); err != nil {
		return 0, err
	}
	cursor += uint32(nProps) * format.PropertyBlobSize

	if err := v.memberArray(cursor, nMethods, format.FunctionBlobSize, "method", v.checkMethod); err != nil {
		return 0, err
	}
	cursor += uint32(nMethods) * format.FunctionBlobSize

	if err := v.memberArray(cursor, nSignals, format.SignalBlobSize, "signal", v.checkSignal); err != nil {
		return 0, err
	}
	cursor += uint32(nSignals) * format.SignalBlobSize

	if err := v.memberArray(cursor, nVFuncs, format.VFuncBlobSize, "vfunc", v.checkVFunc); err != nil {
		return 0, err
	}
	cursor += uint32(nVFuncs) * format.VFuncBlobSize

	if err := v.memberArray(cursor, nConsts, format.ConstantBlobSize, "constant", v.checkConstantMember); err != nil {
		return 0, err
	}
	cursor += uint32(nConsts) * format.ConstantBlobSize

	return cursor, nil
}

func (v *validator) checkConstant(off uint32) error {
	cb, err := format.DecodeConstantBlob(v.buf[off : off+format.ConstantBlobSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	return v.checkConstantBlob(cb)
}

// checkConstantBlob validates a constant's declared literal size against its
// basic tag (spec §4.4 item 4 "constant values have the correct size for
// their declared basic tag").
func (v *validator) checkConstantBlob(cb *format.ConstantBlob) error {
	if err := v.checkTypeSlot(cb.TypeSlot); err != nil {
		return err
	}
	if format.IsPoolOffset(cb.TypeSlot) {
		return v.path.errorf(errKindBinary, "constant type must be a basic tag, not a compound type")
	}
	kind, pointer := format.DecodeSimpleSlot(cb.TypeSlot)
	want := expectedConstantSize(kind, pointer)
	if want >= 0 && int(cb.Size) != want {
		return v.path.errorf(errKindBinary, "constant of tag %d has size %d, expected %d", kind, cb.Size, want)
	}
	if !buf.Has(v.buf, int(cb.ValueOff), int(cb.Size)) {
		return v.path.errorf(errKindBinary, "constant value at %d+%d exceeds buffer", cb.ValueOff, cb.Size)
	}
	if v.buf[int(cb.ValueOff)+int(cb.Size)-1] != 0 && (kind == format.TypeKindUTF8 || kind == format.TypeKindFilename) {
		return v.path.errorf(errKindBinary, "string constant is not NUL-terminated")
	}
	return nil
}

// expectedConstantSize returns the encoded byte length encodeLiteral (pkg
// /compile) produces for kind, or -1 when the tag carries no fixed width
// constraint (e.g. a string, whose length varies with content).
func expectedConstantSize(kind format.TypeKind, pointer bool) int {
	if pointer || kind == format.TypeKindUTF8 || kind == format.TypeKindFilename {
		return -1
	}
	switch kind {
	case format.TypeKindBoolean:
		return 4
	case format.TypeKindFloat, format.TypeKindDouble:
		return 8
	default:
		return 8
	}
}

func (v *validator) checkErrorDomain(off uint32) error {
	eb, err := format.DecodeErrorDomainBlob(v.buf[off : off+format.ErrorDomainSize])
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	if _, err := v.identifierString(eb.GetQuark, false); err != nil {
		return err
	}
	if err := v.dirIndex(eb.ErrorCodes, false); err != nil {
		return err
	}
	if k := v.dirEntryKind(eb.ErrorCodes); k != format.BlobInvalid && k != format.BlobEnum && k != format.BlobFlags {
		return v.path.errorf(errKindBinary, "error_codes points to non-enum blob kind %s", k)
	}
	return nil
}
