package compile

import (
	"github.com/gircomp/gircomp/internal/buf"
	"github.com/gircomp/gircomp/internal/format"
	"github.com/gircomp/gircomp/pkg/ir"
	"github.com/gircomp/gircomp/pkg/tag"
)

var tagToKind = map[tag.Tag]format.TypeKind{
	tag.Void: format.TypeKindVoid, tag.Boolean: format.TypeKindBoolean,
	tag.Int8: format.TypeKindInt8, tag.UInt8: format.TypeKindUInt8,
	tag.Int16: format.TypeKindInt16, tag.UInt16: format.TypeKindUInt16,
	tag.Int32: format.TypeKindInt32, tag.UInt32: format.TypeKindUInt32,
	tag.Int64: format.TypeKindInt64, tag.UInt64: format.TypeKindUInt64,
	tag.Int: format.TypeKindInt, tag.UInt: format.TypeKindUInt,
	tag.Long: format.TypeKindLong, tag.ULong: format.TypeKindULong,
	tag.SSize: format.TypeKindSSize, tag.Size: format.TypeKindSize,
	tag.Float: format.TypeKindFloat, tag.Double: format.TypeKindDouble,
	tag.Time: format.TypeKindTime, tag.GType: format.TypeKindGType,
	tag.UTF8: format.TypeKindUTF8, tag.Filename: format.TypeKindFilename,
}

// putType writes (or, during the sizing pass, just measures) the type slot
// for t: an inlined simple value for basic tags, or a pool-deduplicated
// offset for anything compound (spec §6.3, §6.4).
func (s *serializer) putType(t *ir.Type) (uint32, error) {
	if t.IsInlineSimple() {
		k, ok := tagToKind[t.Tag]
		if !ok {
			k = format.TypeKindVoid
		}
		return format.SimpleSlot(k, t.Pointer), nil
	}

	key := t.Canonical(s.canon)
	if off, ok := s.types[key]; ok {
		return off, nil
	}

	switch t.Variant {
	case ir.TypeInterfaceRef:
		idx, err := s.p.resolve(t.InterfaceName)
		if err != nil {
			return 0, err
		}
		off := s.offset
		b := make([]byte, format.InterfaceTypeBlobSize)
		b[0] = byte(format.TypeKindInterface)
		buf.PutU32LE(b[4:8], uint32(idx))
		s.writeBytes(off, b)
		s.advance(uint32(len(b)))
		s.types[key] = off
		return off, nil

	case ir.TypeArray:
		elemSlot, err := s.putType(t.Element)
		if err != nil {
			return 0, err
		}
		var flags uint8
		var lengthOrSize uint32
		if t.ZeroTerminated {
			flags |= format.ArrayFlagZeroTerminated
		}
		if t.HasLength {
			flags |= format.ArrayFlagHasLength
			lengthOrSize = uint32(int32(t.LengthParamIndex))
		}
		if t.HasFixedSize {
			flags |= format.ArrayFlagHasSize
			lengthOrSize = uint32(t.FixedSize)
		}
		off := s.offset
		b := make([]byte, format.ArrayTypeBlobHeadSize+4)
		b[0] = byte(format.TypeKindArray)
		b[1] = flags
		buf.PutU32LE(b[4:8], lengthOrSize)
		buf.PutU32LE(b[8:12], elemSlot)
		s.writeBytes(off, b)
		s.advance(uint32(len(b)))
		s.types[key] = off
		return off, nil

	case ir.TypeGList, ir.TypeGSList:
		elemSlot, err := s.putType(t.Element)
		if err != nil {
			return 0, err
		}
		kind := format.TypeKindGList
		if t.Variant == ir.TypeGSList {
			kind = format.TypeKindGSList
		}
		off := s.offset
		b := make([]byte, format.ParamTypeBlobHeadSize+4)
		b[0] = byte(kind)
		b[1] = 1
		buf.PutU32LE(b[8:12], elemSlot)
		s.writeBytes(off, b)
		s.advance(uint32(len(b)))
		s.types[key] = off
		return off, nil

	case ir.TypeHashTable:
		keySlot, err := s.putType(t.KeyType)
		if err != nil {
			return 0, err
		}
		valSlot, err := s.putType(t.ValueType)
		if err != nil {
			return 0, err
		}
		off := s.offset
		b := make([]byte, format.ParamTypeBlobHeadSize+8)
		b[0] = byte(format.TypeKindGHash)
		b[1] = 2
		buf.PutU32LE(b[8:12], keySlot)
		buf.PutU32LE(b[12:16], valSlot)
		s.writeBytes(off, b)
		s.advance(uint32(len(b)))
		s.types[key] = off
		return off, nil

	case ir.TypeError:
		idxs := make([]uint16, len(t.ErrorDomains))
		for i, d := range t.ErrorDomains {
			idx, err := s.p.resolve(d)
			if err != nil {
				return 0, err
			}
			idxs[i] = idx
		}
		off := s.offset
		tailLen := buf.Align4(len(idxs) * 2)
		b := make([]byte, format.ErrorTypeBlobHeadSize+tailLen)
		b[0] = byte(format.TypeKindError)
		buf.PutU16LE(b[2:4], uint16(len(idxs)))
		for i, idx := range idxs {
			off2 := format.ErrorTypeBlobHeadSize + i*2
			buf.PutU16LE(b[off2:off2+2], idx)
		}
		s.writeBytes(off, b)
		s.advance(uint32(len(b)))
		s.types[key] = off
		return off, nil

	default:
		return 0, nil
	}
}

// emitSignature writes a SignatureBlob followed by its ArgBlob records
// (spec §3.4, §6.1 item 4, §4 supplemented feature 2 "implicit throws arg").
func (s *serializer) emitSignature(sig *ir.Signature) (uint32, error) {
	retSlot, err := s.putType(sig.Return.Type)
	if err != nil {
		return 0, err
	}
	nArgs := len(sig.Params) + sig.ImplicitArgCount()
	var flags uint16
	if sig.Throws {
		flags |= format.SignatureFlagThrows
	}
	off := s.offset
	sb := &format.SignatureBlob{ReturnTypeSlot: retSlot, NArguments: uint16(nArgs), Flags: flags}
	s.writeBytes(off, sb.Encode())
	s.advance(format.SignatureBlobSize)

	for _, p := range sig.Params {
		if err := s.emitArg(p); err != nil {
			return 0, err
		}
	}
	if sig.Throws {
		implicit := &ir.Param{Name: "error", Direction: ir.DirOut, Type: ir.NewErrorType(nil)}
		if err := s.emitArg(implicit); err != nil {
			return 0, err
		}
	}
	return off, nil
}

func (s *serializer) emitArg(p *ir.Param) error {
	slot, err := s.putType(p.Type)
	if err != nil {
		return err
	}
	var nameOff uint32
	if !p.Retval {
		nameOff = s.putString(p.Name)
	}
	var flags uint16
	if !p.Retval {
		switch p.Direction {
		case ir.DirIn:
			flags |= format.ArgFlagIn
		case ir.DirOut:
			flags |= format.ArgFlagOut
		case ir.DirInOut:
			flags |= format.ArgFlagIn | format.ArgFlagOut
		}
	}
	if p.CallerAllocates {
		flags |= format.ArgFlagCallerAllocates
	}
	if p.Optional {
		flags |= format.ArgFlagOptional
	}
	if p.AllowNone {
		flags |= format.ArgFlagAllowNone
	}
	if p.Transfer == ir.TransferContainer || p.Transfer == ir.TransferFull {
		flags |= format.ArgFlagTransferContainer
	}
	if p.Transfer == ir.TransferFull {
		flags |= format.ArgFlagTransferValue
	}
	if p.Retval {
		flags |= format.ArgFlagRetval
	}
	scope := format.ScopeInvalid
	switch p.Scope {
	case ir.ScopeCall:
		scope = format.ScopeCall
	case ir.ScopeAsync:
		scope = format.ScopeAsync
	case ir.ScopeNotified:
		scope = format.ScopeNotified
	}
	ab := &format.ArgBlob{
		Flags: flags, Scope: scope,
		ClosureIndex: int16(p.ClosureIndex), DestroyIndex: int16(p.DestroyIndex),
		TypeSlot: slot, Name: nameOff,
	}
	off := s.offset
	s.writeBytes(off, ab.Encode())
	s.advance(format.ArgBlobSize)
	return nil
}
