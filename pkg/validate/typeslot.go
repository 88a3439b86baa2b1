package validate

import (
	"github.com/gircomp/gircomp/internal/buf"
	"github.com/gircomp/gircomp/internal/format"
)

// compatibleInterfaceKinds are the blob kinds a resolved interface-ref may
// legally point at (spec §4.2 "Interface-ref size"): struct/boxed/union
// (layout recurses), enum/flags (width inference), callback (pointer
// width), or object/interface (always pointer width, e.g. a field typed by
// another object).
func compatibleInterfaceKind(k format.BlobType) bool {
	switch k {
	case format.BlobStruct, format.BlobBoxed, format.BlobUnion,
		format.BlobEnum, format.BlobFlags, format.BlobCallback,
		format.BlobObject, format.BlobInterface:
		return true
	default:
		return false
	}
}

// checkTypeSlot validates a 4-byte type slot (spec §6.3): either an inlined
// simple type, or an offset into the type pool whose first byte identifies
// a recognized compound kind (spec §4.4 item 4). Recursion is bounded by the
// type descriptor's own tree shape; the serializer never produces cycles.
func (v *validator) checkTypeSlot(slot uint32) error {
	if !format.IsPoolOffset(slot) {
		kind, _ := format.DecodeSimpleSlot(slot)
		if kind > format.TypeKindFilename {
			return v.path.errorf(errKindBinary, "inlined type slot has non-basic tag %d", kind)
		}
		return nil
	}

	b, ok := buf.Slice(v.buf, int(slot), 1)
	if !ok {
		return v.path.errorf(errKindBinary, "type slot %d out of bounds", slot)
	}
	kind := format.TypeKind(b[0] & 0x1F)
	switch kind {
	case format.TypeKindInterface:
		return v.checkInterfaceType(slot)
	case format.TypeKindArray:
		return v.checkArrayType(slot)
	case format.TypeKindGList, format.TypeKindGSList:
		return v.checkListType(slot)
	case format.TypeKindGHash:
		return v.checkHashType(slot)
	case format.TypeKindError:
		return v.checkErrorType(slot)
	default:
		return v.path.errorf(errKindBinary, "type pool offset %d: unrecognized kind %d", slot, kind)
	}
}

func (v *validator) checkInterfaceType(off uint32) error {
	body, ok := buf.Slice(v.buf, int(off), format.InterfaceTypeBlobSize)
	if !ok {
		return v.path.errorf(errKindBinary, "InterfaceTypeBlob at %d exceeds buffer", off)
	}
	idx := buf.U32LE(body[4:8])
	if err := v.dirIndex(idx, false); err != nil {
		return err
	}
	if k := v.dirEntryKind(idx); k != format.BlobInvalid && !compatibleInterfaceKind(k) {
		return v.path.errorf(errKindBinary, "interface-ref at %d points to incompatible blob kind %s", off, k)
	}
	return nil
}

func (v *validator) checkArrayType(off uint32) error {
	body, ok := buf.Slice(v.buf, int(off), format.ArrayTypeBlobHeadSize+4)
	if !ok {
		return v.path.errorf(errKindBinary, "ArrayTypeBlob at %d exceeds buffer", off)
	}
	elem := buf.U32LE(body[8:12])
	return v.checkTypeSlot(elem)
}

func (v *validator) checkListType(off uint32) error {
	body, ok := buf.Slice(v.buf, int(off), format.ParamTypeBlobHeadSize+4)
	if !ok {
		return v.path.errorf(errKindBinary, "list-type blob at %d exceeds buffer", off)
	}
	if body[1] != 1 {
		return v.path.errorf(errKindBinary, "list-type blob at %d has nParams=%d, expected 1", off, body[1])
	}
	elem := buf.U32LE(body[8:12])
	return v.checkTypeSlot(elem)
}

func (v *validator) checkHashType(off uint32) error {
	body, ok := buf.Slice(v.buf, int(off), format.ParamTypeBlobHeadSize+8)
	if !ok {
		return v.path.errorf(errKindBinary, "GHashTable type blob at %d exceeds buffer", off)
	}
	if body[1] != 2 {
		return v.path.errorf(errKindBinary, "GHashTable type blob at %d has nParams=%d, expected 2", off, body[1])
	}
	key := buf.U32LE(body[8:12])
	if err := v.checkTypeSlot(key); err != nil {
		return err
	}
	val := buf.U32LE(body[12:16])
	return v.checkTypeSlot(val)
}

func (v *validator) checkErrorType(off uint32) error {
	head, ok := buf.Slice(v.buf, int(off), format.ErrorTypeBlobHeadSize)
	if !ok {
		return v.path.errorf(errKindBinary, "ErrorTypeBlob at %d exceeds buffer", off)
	}
	n := buf.U16LE(head[2:4])
	tail, ok := buf.Slice(v.buf, int(off)+format.ErrorTypeBlobHeadSize, int(n)*2)
	if !ok {
		return v.path.errorf(errKindBinary, "ErrorTypeBlob at %d: domain list exceeds buffer", off)
	}
	for i := 0; i < int(n); i++ {
		idx := uint32(buf.U16LE(tail[i*2 : i*2+2]))
		if err := v.dirIndex(idx, false); err != nil {
			return err
		}
		if k := v.dirEntryKind(idx); k != format.BlobInvalid && k != format.BlobErrorDomain {
			return v.path.errorf(errKindBinary, "error-type domain %d points to non-error-domain blob kind %s", idx, k)
		}
	}
	return nil
}
