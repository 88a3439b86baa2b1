package format

import (
	"fmt"

	"github.com/gircomp/gircomp/internal/buf"
)

// EntryHeader is the common 8-byte prefix shared by every fixed-size blob
// that corresponds to a directory entry or a tail member record: a
// blob-type tag (validated against the enclosing DirEntry per spec §4.4
// item 4 "blob-type fields match their expected kind"), a per-kind bit-flag
// word, and a name string offset. Packing the boolean attributes listed in
// spec §3 (deprecated, readable/writable, run-phase, ...) into the flags
// word keeps every blob kind's remaining budget free for the fields that
// actually vary by kind.
type EntryHeader struct {
	BlobType BlobType
	Flags    uint16
	Name     uint32
}

func (h EntryHeader) encodeInto(b []byte) {
	buf.PutU16LE(b[0:2], uint16(h.BlobType))
	buf.PutU16LE(b[2:4], h.Flags)
	buf.PutU32LE(b[4:8], h.Name)
}

func decodeEntryHeader(b []byte) EntryHeader {
	return EntryHeader{
		BlobType: BlobType(buf.U16LE(b[0:2])),
		Flags:    buf.U16LE(b[2:4]),
		Name:     buf.U32LE(b[4:8]),
	}
}

func checkLen(b []byte, n int, what string) error {
	if len(b) < n {
		return fmt.Errorf("format: buffer too short for %s: need %d, have %d", what, n, len(b))
	}
	return nil
}

// Function-blob flag bits (spec §3.4, §4.3 "serial numbering of functions").
const (
	FuncFlagDeprecated = 1 << 0
	FuncFlagSetter     = 1 << 1
	FuncFlagGetter     = 1 << 2
	FuncFlagConstructor = 1 << 3
	FuncFlagWrapsVFunc  = 1 << 4
	FuncFlagThrows      = 1 << 5
	FuncFlagIsMethod    = 1 << 6
)

// FunctionBlob is the fixed 20-byte body of a [BlobFunction] directory
// entry (spec §6.2).
type FunctionBlob struct {
	EntryHeader
	Symbol        uint32 // string offset
	SignatureOff  uint32 // offset of the trailing SignatureBlob
	WrappedIndex  uint32 // index of wrapped field/property/vfunc within owner; 0 if none
}

func (fb *FunctionBlob) Encode() []byte {
	b := make([]byte, FunctionBlobSize)
	fb.encodeInto(b)
	buf.PutU32LE(b[8:12], fb.Symbol)
	buf.PutU32LE(b[12:16], fb.SignatureOff)
	buf.PutU32LE(b[16:20], fb.WrappedIndex)
	return b
}

func DecodeFunctionBlob(b []byte) (*FunctionBlob, error) {
	if err := checkLen(b, FunctionBlobSize, "FunctionBlob"); err != nil {
		return nil, err
	}
	return &FunctionBlob{
		EntryHeader:  decodeEntryHeader(b),
		Symbol:       buf.U32LE(b[8:12]),
		SignatureOff: buf.U32LE(b[12:16]),
		WrappedIndex: buf.U32LE(b[16:20]),
	}, nil
}

// CallbackBlob is the fixed 12-byte body of a [BlobCallback] directory
// entry.
type CallbackBlob struct {
	EntryHeader
	SignatureOff uint32
}

func (cb *CallbackBlob) Encode() []byte {
	b := make([]byte, CallbackBlobSize)
	cb.encodeInto(b)
	buf.PutU32LE(b[8:12], cb.SignatureOff)
	return b
}

func DecodeCallbackBlob(b []byte) (*CallbackBlob, error) {
	if err := checkLen(b, CallbackBlobSize, "CallbackBlob"); err != nil {
		return nil, err
	}
	return &CallbackBlob{EntryHeader: decodeEntryHeader(b), SignatureOff: buf.U32LE(b[8:12])}, nil
}

// Signal-blob flag bits (spec §3.6 Signal). Exactly one of RunFirst/
// RunLast/RunCleanup is set (spec §4.4 item 4 "signal run-phase bits have
// exactly one set").
const (
	SignalFlagRunFirst   = 1 << 0
	SignalFlagRunLast    = 1 << 1
	SignalFlagRunCleanup = 1 << 2
	SignalFlagNoRecurse  = 1 << 3
	SignalFlagDetailed   = 1 << 4
	SignalFlagAction     = 1 << 5
	SignalFlagNoHooks    = 1 << 6
	SignalFlagHasClassClosure = 1 << 7
	SignalFlagTrueStopsEmit   = 1 << 8
)

// SignalBlob is the fixed 16-byte body of a signal member record.
type SignalBlob struct {
	EntryHeader
	SignatureOff     uint32
	ClassClosureIdx  uint16
	reserved         uint16
}

func (sb *SignalBlob) Encode() []byte {
	b := make([]byte, SignalBlobSize)
	sb.encodeInto(b)
	buf.PutU32LE(b[8:12], sb.SignatureOff)
	buf.PutU16LE(b[12:14], sb.ClassClosureIdx)
	return b
}

func DecodeSignalBlob(b []byte) (*SignalBlob, error) {
	if err := checkLen(b, SignalBlobSize, "SignalBlob"); err != nil {
		return nil, err
	}
	return &SignalBlob{
		EntryHeader:     decodeEntryHeader(b),
		SignatureOff:    buf.U32LE(b[8:12]),
		ClassClosureIdx: buf.U16LE(b[12:14]),
	}, nil
}

// VFunc-blob flag bits (spec §3.6 Vfunc).
const (
	VFuncFlagMustChainUp        = 1 << 0
	VFuncFlagMustBeImplemented  = 1 << 1
	VFuncFlagMustNotBeImplemented = 1 << 2
	VFuncFlagIsClassClosure       = 1 << 3
)

// VFuncBlob is the fixed 20-byte body of a vfunc member record.
type VFuncBlob struct {
	EntryHeader
	SignatureOff uint32
	ClassOffset  uint32 // byte offset into the class struct
	InvokerIndex int32  // index of the invoker method within the owner, or -1
}

func (vb *VFuncBlob) Encode() []byte {
	b := make([]byte, VFuncBlobSize)
	vb.encodeInto(b)
	buf.PutU32LE(b[8:12], vb.SignatureOff)
	buf.PutU32LE(b[12:16], vb.ClassOffset)
	buf.PutI32LE(b[16:20], vb.InvokerIndex)
	return b
}

func DecodeVFuncBlob(b []byte) (*VFuncBlob, error) {
	if err := checkLen(b, VFuncBlobSize, "VFuncBlob"); err != nil {
		return nil, err
	}
	return &VFuncBlob{
		EntryHeader:  decodeEntryHeader(b),
		SignatureOff: buf.U32LE(b[8:12]),
		ClassOffset:  buf.U32LE(b[12:16]),
		InvokerIndex: buf.I32LE(b[16:20]),
	}, nil
}

// Arg-blob flag bits (spec §3.4).
const (
	ArgFlagIn             = 1 << 0
	ArgFlagOut            = 1 << 1
	ArgFlagCallerAllocates = 1 << 2 // "dipper"
	ArgFlagOptional        = 1 << 3
	ArgFlagAllowNone       = 1 << 4
	ArgFlagTransferValue   = 1 << 5 // owns-value
	ArgFlagTransferContainer = 1 << 6 // owns-container
	ArgFlagRetval            = 1 << 7
)

// ParamScope mirrors spec §3.4's scope enumeration.
type ParamScope uint8

const (
	ScopeInvalid ParamScope = iota
	ScopeCall
	ScopeAsync
	ScopeNotified
)

// ArgBlob is the fixed 16-byte body of a parameter (or return-value) record.
type ArgBlob struct {
	Flags        uint16
	Scope        ParamScope
	reserved     uint8
	ClosureIndex int16
	DestroyIndex int16
	TypeSlot     uint32
	Name         uint32 // string offset; 0 for the implicit return-value arg
}

func (ab *ArgBlob) Encode() []byte {
	b := make([]byte, ArgBlobSize)
	buf.PutU16LE(b[0:2], ab.Flags)
	b[2] = byte(ab.Scope)
	buf.PutU16LE(b[4:6], uint16(ab.ClosureIndex))
	buf.PutU16LE(b[6:8], uint16(ab.DestroyIndex))
	buf.PutU32LE(b[8:12], ab.TypeSlot)
	buf.PutU32LE(b[12:16], ab.Name)
	return b
}

func DecodeArgBlob(b []byte) (*ArgBlob, error) {
	if err := checkLen(b, ArgBlobSize, "ArgBlob"); err != nil {
		return nil, err
	}
	return &ArgBlob{
		Flags:        buf.U16LE(b[0:2]),
		Scope:        ParamScope(b[2]),
		ClosureIndex: int16(buf.U16LE(b[4:6])),
		DestroyIndex: int16(buf.U16LE(b[6:8])),
		TypeSlot:     buf.U32LE(b[8:12]),
		Name:         buf.U32LE(b[12:16]),
	}, nil
}

// Property-blob flag bits (spec §3.6 Property).
const (
	PropFlagReadable      = 1 << 0
	PropFlagWritable      = 1 << 1
	PropFlagConstruct     = 1 << 2
	PropFlagConstructOnly = 1 << 3
	PropFlagDeprecated    = 1 << 4
)

// PropertyBlob is the fixed 16-byte body of a property member record.
type PropertyBlob struct {
	EntryHeader
	TypeSlot uint32
	reserved uint32
}

func (pb *PropertyBlob) Encode() []byte {
	b := make([]byte, PropertyBlobSize)
	pb.encodeInto(b)
	buf.PutU32LE(b[8:12], pb.TypeSlot)
	return b
}

func DecodePropertyBlob(b []byte) (*PropertyBlob, error) {
	if err := checkLen(b, PropertyBlobSize, "PropertyBlob"); err != nil {
		return nil, err
	}
	return &PropertyBlob{EntryHeader: decodeEntryHeader(b), TypeSlot: buf.U32LE(b[8:12])}, nil
}

// Field-blob flag bits (spec §3.6 Field): low bit readable, next bit
// writable, remaining 6 bits of the low byte are the bit-width (0 = whole
// field).
const (
	FieldFlagReadable = 1 << 0
	FieldFlagWritable = 1 << 1
)

// FieldBlob is the fixed 16-byte body of a field member record.
type FieldBlob struct {
	EntryHeader
	TypeSlot uint32
	Offset   int32 // -1 until the layout engine runs
}

func (fb *FieldBlob) Encode() []byte {
	b := make([]byte, FieldBlobSize)
	fb.encodeInto(b)
	buf.PutU32LE(b[8:12], fb.TypeSlot)
	buf.PutI32LE(b[12:16], fb.Offset)
	return b
}

func DecodeFieldBlob(b []byte) (*FieldBlob, error) {
	if err := checkLen(b, FieldBlobSize, "FieldBlob"); err != nil {
		return nil, err
	}
	return &FieldBlob{
		EntryHeader: decodeEntryHeader(b),
		TypeSlot:    buf.U32LE(b[8:12]),
		Offset:      buf.I32LE(b[12:16]),
	}, nil
}

// BitWidth extracts the bit-width packed into bits 2-7 of Flags.
func (fb *FieldBlob) BitWidth() uint8 { return uint8(fb.Flags>>2) & 0x3F }

// SetBitWidth packs w into bits 2-7 of Flags, preserving the
// readable/writable bits.
func (fb *FieldBlob) SetBitWidth(w uint8) {
	fb.Flags = (fb.Flags &^ (0x3F << 2)) | (uint16(w&0x3F) << 2)
}

// ValueBlob is the fixed 12-byte body of an enum/flags member record (spec
// §3.6 Value). The Deprecated flag is packed into EntryHeader.Flags bit 0.
const ValueFlagDeprecated = 1 << 0

type ValueBlob struct {
	EntryHeader
	Value uint32
}

func (vb *ValueBlob) Encode() []byte {
	b := make([]byte, ValueBlobSize)
	vb.encodeInto(b)
	buf.PutU32LE(b[8:12], vb.Value)
	return b
}

func DecodeValueBlob(b []byte) (*ValueBlob, error) {
	if err := checkLen(b, ValueBlobSize, "ValueBlob"); err != nil {
		return nil, err
	}
	return &ValueBlob{EntryHeader: decodeEntryHeader(b), Value: buf.U32LE(b[8:12])}, nil
}

// AnnotationBlob is the fixed 12-byte body of one attributes-table entry
// (spec §6.1 item 5): the owning blob's byte offset, and a key/value string
// offset pair (spec §4 supplemented-feature item 5).
type AnnotationBlob struct {
	NodeOffset uint32
	Key        uint32
	Value      uint32
}

func (ab *AnnotationBlob) Encode() []byte {
	b := make([]byte, AnnotationBlobSize)
	buf.PutU32LE(b[0:4], ab.NodeOffset)
	buf.PutU32LE(b[4:8], ab.Key)
	buf.PutU32LE(b[8:12], ab.Value)
	return b
}

func DecodeAnnotationBlob(b []byte) (*AnnotationBlob, error) {
	if err := checkLen(b, AnnotationBlobSize, "AnnotationBlob"); err != nil {
		return nil, err
	}
	return &AnnotationBlob{
		NodeOffset: buf.U32LE(b[0:4]),
		Key:        buf.U32LE(b[4:8]),
		Value:      buf.U32LE(b[8:12]),
	}, nil
}

// ConstantBlob is the fixed 24-byte body of a [BlobConstant] directory
// entry (spec §3.5 Constant).
type ConstantBlob struct {
	EntryHeader
	TypeSlot   uint32
	Size       uint32 // byte length of the encoded literal
	ValueOff   uint32 // offset of the encoded literal bytes
	reserved   uint32
}

func (cb *ConstantBlob) Encode() []byte {
	b := make([]byte, ConstantBlobSize)
	cb.encodeInto(b)
	buf.PutU32LE(b[8:12], cb.TypeSlot)
	buf.PutU32LE(b[12:16], cb.Size)
	buf.PutU32LE(b[16:20], cb.ValueOff)
	return b
}

func DecodeConstantBlob(b []byte) (*ConstantBlob, error) {
	if err := checkLen(b, ConstantBlobSize, "ConstantBlob"); err != nil {
		return nil, err
	}
	return &ConstantBlob{
		EntryHeader: decodeEntryHeader(b),
		TypeSlot:    buf.U32LE(b[8:12]),
		Size:        buf.U32LE(b[12:16]),
		ValueOff:    buf.U32LE(b[16:20]),
	}, nil
}

// ErrorDomainBlob is the fixed 16-byte body of a [BlobErrorDomain] entry
// (spec §3.5 Error-domain).
type ErrorDomainBlob struct {
	EntryHeader
	GetQuark   uint32 // string offset of the quark-getter symbol
	ErrorCodes uint32 // directory index of the codes enum
}

func (eb *ErrorDomainBlob) Encode() []byte {
	b := make([]byte, ErrorDomainSize)
	eb.encodeInto(b)
	buf.PutU32LE(b[8:12], eb.GetQuark)
	buf.PutU32LE(b[12:16], eb.ErrorCodes)
	return b
}

func DecodeErrorDomainBlob(b []byte) (*ErrorDomainBlob, error) {
	if err := checkLen(b, ErrorDomainSize, "ErrorDomainBlob"); err != nil {
		return nil, err
	}
	return &ErrorDomainBlob{
		EntryHeader: decodeEntryHeader(b),
		GetQuark:    buf.U32LE(b[8:12]),
		ErrorCodes:  buf.U32LE(b[12:16]),
	}, nil
}

// SignatureBlob is the fixed 8-byte head of a callable signature (spec
// §3.4, §6.1 item 4): the return-value type slot inlined, a parameter
// count, and a one-bit "throws" flag (spec §4 supplemented-feature item 2).
// n Arguments ArgBlob records trail it, the last of which — when Throws is
// set — is the implicit GError** out-parameter.
type SignatureBlob struct {
	ReturnTypeSlot uint32
	NArguments     uint16
	Flags          uint16
}

const SignatureFlagThrows = 1 << 0

func (sb *SignatureBlob) Encode() []byte {
	b := make([]byte, SignatureBlobSize)
	buf.PutU32LE(b[0:4], sb.ReturnTypeSlot)
	buf.PutU16LE(b[4:6], sb.NArguments)
	buf.PutU16LE(b[6:8], sb.Flags)
	return b
}

func DecodeSignatureBlob(b []byte) (*SignatureBlob, error) {
	if err := checkLen(b, SignatureBlobSize, "SignatureBlob"); err != nil {
		return nil, err
	}
	return &SignatureBlob{
		ReturnTypeSlot: buf.U32LE(b[0:4]),
		NArguments:     buf.U16LE(b[4:6]),
		Flags:          buf.U16LE(b[6:8]),
	}, nil
}

// EnumBlob is the fixed 24-byte body of an [BlobEnum]/[BlobFlags] entry
// (spec §3.5 Enum/Flags). StorageTag holds the tag.Tag value chosen by
// enum width inference (spec §4.2).
type EnumBlob struct {
	EntryHeader
	StorageTag   uint32
	GTypeName    uint32
	GTypeInit    uint32
	NValues      uint16
	reserved     uint16
}

func (eb *EnumBlob) Encode() []byte {
	b := make([]byte, EnumBlobSize)
	eb.encodeInto(b)
	buf.PutU32LE(b[8:12], eb.StorageTag)
	buf.PutU32LE(b[12:16], eb.GTypeName)
	buf.PutU32LE(b[16:20], eb.GTypeInit)
	buf.PutU16LE(b[20:22], eb.NValues)
	return b
}

func DecodeEnumBlob(b []byte) (*EnumBlob, error) {
	if err := checkLen(b, EnumBlobSize, "EnumBlob"); err != nil {
		return nil, err
	}
	return &EnumBlob{
		EntryHeader: decodeEntryHeader(b),
		StorageTag:  buf.U32LE(b[8:12]),
		GTypeName:   buf.U32LE(b[12:16]),
		GTypeInit:   buf.U32LE(b[16:20]),
		NValues:     buf.U16LE(b[20:22]),
	}, nil
}

// Struct-blob flag bits (spec §3.5 Struct).
const (
	StructFlagDisguised      = 1 << 0
	StructFlagIsClassStructFor = 1 << 1
	StructFlagDeprecated       = 1 << 2
)

// Generic deprecated bit for entry kinds with no other flags of their own
// (Callback, Enum/Flags, Interface, ErrorDomain, Constant).
const EntryFlagDeprecated = 1 << 0

// StructBlob is the fixed 32-byte body of a [BlobStruct]/[BlobBoxed] entry.
type StructBlob struct {
	EntryHeader
	GTypeName uint32
	GTypeInit uint32
	Size      uint32
	Alignment uint16
	NFields   uint16
	NMethods  uint16
	reserved  uint16
	reserved2 uint32
}

func (sb *StructBlob) Encode() []byte {
	b := make([]byte, StructBlobSize)
	sb.encodeInto(b)
	buf.PutU32LE(b[8:12], sb.GTypeName)
	buf.PutU32LE(b[12:16], sb.GTypeInit)
	buf.PutU32LE(b[16:20], sb.Size)
	buf.PutU16LE(b[20:22], sb.Alignment)
	buf.PutU16LE(b[22:24], sb.NFields)
	buf.PutU16LE(b[24:26], sb.NMethods)
	return b
}

func DecodeStructBlob(b []byte) (*StructBlob, error) {
	if err := checkLen(b, StructBlobSize, "StructBlob"); err != nil {
		return nil, err
	}
	return &StructBlob{
		EntryHeader: decodeEntryHeader(b),
		GTypeName:   buf.U32LE(b[8:12]),
		GTypeInit:   buf.U32LE(b[12:16]),
		Size:        buf.U32LE(b[16:20]),
		Alignment:   buf.U16LE(b[20:22]),
		NFields:     buf.U16LE(b[22:24]),
		NMethods:    buf.U16LE(b[24:26]),
	}, nil
}

// UnionBlob is the fixed 40-byte body of a [BlobUnion] entry (spec §3.5
// Union).
type UnionBlob struct {
	EntryHeader
	GTypeName          uint32
	GTypeInit          uint32
	Size               uint32
	Alignment          uint16
	NFields            uint16
	NFunctions         uint16
	DiscriminatorOffset int32
	DiscriminatorType   uint32
	NDiscriminators     uint16
	reserved            uint16
}

const (
	UnionFlagDiscriminated = 1 << 0
	UnionFlagDeprecated    = 1 << 1
)

func (ub *UnionBlob) Encode() []byte {
	b := make([]byte, UnionBlobSize)
	ub.encodeInto(b)
	buf.PutU32LE(b[8:12], ub.GTypeName)
	buf.PutU32LE(b[12:16], ub.GTypeInit)
	buf.PutU32LE(b[16:20], ub.Size)
	buf.PutU16LE(b[20:22], ub.Alignment)
	buf.PutU16LE(b[22:24], ub.NFields)
	buf.PutU16LE(b[24:26], ub.NFunctions)
	buf.PutI32LE(b[26:30], ub.DiscriminatorOffset)
	buf.PutU32LE(b[30:34], ub.DiscriminatorType)
	buf.PutU16LE(b[34:36], ub.NDiscriminators)
	return b
}

func DecodeUnionBlob(b []byte) (*UnionBlob, error) {
	if err := checkLen(b, UnionBlobSize, "UnionBlob"); err != nil {
		return nil, err
	}
	return &UnionBlob{
		EntryHeader:         decodeEntryHeader(b),
		GTypeName:           buf.U32LE(b[8:12]),
		GTypeInit:           buf.U32LE(b[12:16]),
		Size:                buf.U32LE(b[16:20]),
		Alignment:           buf.U16LE(b[20:22]),
		NFields:             buf.U16LE(b[22:24]),
		NFunctions:          buf.U16LE(b[24:26]),
		DiscriminatorOffset: buf.I32LE(b[26:30]),
		DiscriminatorType:   buf.U32LE(b[30:34]),
		NDiscriminators:     buf.U16LE(b[34:36]),
	}, nil
}

// ObjectBlob is the fixed 44-byte body of a [BlobObject] entry (spec §3.5
// Object). The Abstract flag is packed into EntryHeader.Flags bit 0.
type ObjectBlob struct {
	EntryHeader
	GTypeName     uint32
	GTypeInit     uint32
	Parent        uint16 // directory index, 0 if none
	GTypeStruct   uint16 // directory index of the class struct, 0 if none
	NInterfaces   uint16
	NFields       uint16
	NProperties   uint16
	NMethods      uint16
	NSignals      uint16
	NVFuncs       uint16
	NConstants    uint16
	reserved      uint16
	reserved2, reserved3 uint32
}

const (
	ObjectFlagAbstract   = 1 << 0
	ObjectFlagDeprecated = 1 << 1
)

func (ob *ObjectBlob) Encode() []byte {
	b := make([]byte, ObjectBlobSize)
	ob.encodeInto(b)
	buf.PutU32LE(b[8:12], ob.GTypeName)
	buf.PutU32LE(b[12:16], ob.GTypeInit)
	buf.PutU16LE(b[16:18], ob.Parent)
	buf.PutU16LE(b[18:20], ob.GTypeStruct)
	buf.PutU16LE(b[20:22], ob.NInterfaces)
	buf.PutU16LE(b[22:24], ob.NFields)
	buf.PutU16LE(b[24:26], ob.NProperties)
	buf.PutU16LE(b[26:28], ob.NMethods)
	buf.PutU16LE(b[28:30], ob.NSignals)
	buf.PutU16LE(b[30:32], ob.NVFuncs)
	buf.PutU16LE(b[32:34], ob.NConstants)
	return b
}

func DecodeObjectBlob(b []byte) (*ObjectBlob, error) {
	if err := checkLen(b, ObjectBlobSize, "ObjectBlob"); err != nil {
		return nil, err
	}
	return &ObjectBlob{
		EntryHeader: decodeEntryHeader(b),
		GTypeName:   buf.U32LE(b[8:12]),
		GTypeInit:   buf.U32LE(b[12:16]),
		Parent:      buf.U16LE(b[16:18]),
		GTypeStruct: buf.U16LE(b[18:20]),
		NInterfaces: buf.U16LE(b[20:22]),
		NFields:     buf.U16LE(b[22:24]),
		NProperties: buf.U16LE(b[24:26]),
		NMethods:    buf.U16LE(b[26:28]),
		NSignals:    buf.U16LE(b[28:30]),
		NVFuncs:     buf.U16LE(b[30:32]),
		NConstants:  buf.U16LE(b[32:34]),
	}, nil
}

// InterfaceBlob is the fixed 40-byte body of a [BlobInterface] entry (spec
// §3.5 Interface).
type InterfaceBlob struct {
	EntryHeader
	GTypeName      uint32
	GTypeInit      uint32
	GTypeStruct    uint16
	NPrerequisites uint16
	NProperties    uint16
	NMethods       uint16
	NSignals       uint16
	NVFuncs        uint16
	NConstants     uint16
	reserved       uint16
	reserved2, reserved3 uint32
}

func (ib *InterfaceBlob) Encode() []byte {
	b := make([]byte, InterfaceBlobSize)
	ib.encodeInto(b)
	buf.PutU32LE(b[8:12], ib.GTypeName)
	buf.PutU32LE(b[12:16], ib.GTypeInit)
	buf.PutU16LE(b[16:18], ib.GTypeStruct)
	buf.PutU16LE(b[18:20], ib.NPrerequisites)
	buf.PutU16LE(b[20:22], ib.NProperties)
	buf.PutU16LE(b[22:24], ib.NMethods)
	buf.PutU16LE(b[24:26], ib.NSignals)
	buf.PutU16LE(b[26:28], ib.NVFuncs)
	buf.PutU16LE(b[28:30], ib.NConstants)
	return b
}

func DecodeInterfaceBlob(b []byte) (*InterfaceBlob, error) {
	if err := checkLen(b, InterfaceBlobSize, "InterfaceBlob"); err != nil {
		return nil, err
	}
	return &InterfaceBlob{
		EntryHeader:    decodeEntryHeader(b),
		GTypeName:      buf.U32LE(b[8:12]),
		GTypeInit:      buf.U32LE(b[12:16]),
		GTypeStruct:    buf.U16LE(b[16:18]),
		NPrerequisites: buf.U16LE(b[18:20]),
		NProperties:    buf.U16LE(b[20:22]),
		NMethods:       buf.U16LE(b[22:24]),
		NSignals:       buf.U16LE(b[24:26]),
		NVFuncs:        buf.U16LE(b[26:28]),
		NConstants:     buf.U16LE(b[28:30]),
	}, nil
}
