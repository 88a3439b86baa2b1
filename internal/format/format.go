// Package format defines the on-disk layout of a typelib image: the header,
// directory entries, and the fixed-size portion of every blob kind. The
// header and directory-entry shapes follow gobject-introspection's
// gtypelib.h; the field layout inside each blob body is this package's own,
// documented per blob. The
// serializer (pkg/compile) and the validator (pkg/validate) both depend on
// the constants here so that they cannot silently disagree (spec §4.4 item 2).
package format

// Magic is the 16-byte signature at the start of every image.
const Magic = "GOBJ\nMETADATA\r\n\032"

// Version is the only supported (major, minor) pair.
const (
	MajorVersion = 2
	MinorVersion = 0
)

// BlobType enumerates the recognized top-level entry kinds, matching the
// BlobType enum in gtypelib.h. Zero is reserved (non-local directory
// entries and the invalid/sentinel kind both use it).
type BlobType uint16

const (
	BlobInvalid BlobType = iota
	BlobFunction
	BlobCallback
	BlobStruct
	BlobBoxed
	BlobEnum
	BlobFlags
	BlobObject
	BlobInterface
	BlobConstant
	BlobErrorDomain
	BlobUnion
)

func (b BlobType) String() string {
	switch b {
	case BlobFunction:
		return "function"
	case BlobCallback:
		return "callback"
	case BlobStruct:
		return "struct"
	case BlobBoxed:
		return "boxed"
	case BlobEnum:
		return "enum"
	case BlobFlags:
		return "flags"
	case BlobObject:
		return "object"
	case BlobInterface:
		return "interface"
	case BlobConstant:
		return "constant"
	case BlobErrorDomain:
		return "error-domain"
	case BlobUnion:
		return "union"
	default:
		return "invalid"
	}
}

// IsRecognized reports whether b is one of the local-entry blob kinds a
// directory entry may legally carry (spec §4.4 item 3).
func (b BlobType) IsRecognized() bool {
	return b >= BlobFunction && b <= BlobUnion
}

// TypeKind identifies the shape of a non-basic type-slot payload: the first
// byte's low 5 bits of an InterfaceTypeBlob/ArrayTypeBlob/ParamTypeBlob/
// ErrorTypeBlob (spec §6.3).
type TypeKind uint8

const (
	TypeKindVoid TypeKind = iota
	TypeKindBoolean
	TypeKindInt8
	TypeKindUInt8
	TypeKindInt16
	TypeKindUInt16
	TypeKindInt32
	TypeKindUInt32
	TypeKindInt64
	TypeKindUInt64
	TypeKindInt
	TypeKindUInt
	TypeKindLong
	TypeKindULong
	TypeKindSSize
	TypeKindSize
	TypeKindFloat
	TypeKindDouble
	TypeKindTime
	TypeKindGType
	TypeKindUTF8
	TypeKindFilename
	TypeKindArray
	TypeKindInterface
	TypeKindGList
	TypeKindGSList
	TypeKindGHash
	TypeKindError
)

// HeaderSize is sizeof(Header) on the wire (spec §6.1 item 1).
const HeaderSize = 112

// DirEntrySize is sizeof(DirEntry) on the wire (spec §6.1 item 2).
const DirEntrySize = 12

// Fixed blob-body sizes, in declaration order matching the header's trailing
// u16 fields and spec §6.2. These are compile-time constants; the serializer
// and validator both import this package so they can never disagree.
const (
	DirEntryBlobSize   = DirEntrySize
	FunctionBlobSize   = 20
	CallbackBlobSize   = 12
	SignalBlobSize     = 16
	VFuncBlobSize      = 20
	ArgBlobSize        = 16
	PropertyBlobSize   = 16
	FieldBlobSize      = 16
	ValueBlobSize      = 12
	AnnotationBlobSize = 12
	ConstantBlobSize   = 24
	ErrorDomainSize    = 16
	SignatureBlobSize  = 8
	EnumBlobSize       = 24
	StructBlobSize     = 32
	ObjectBlobSize     = 44
	InterfaceBlobSize  = 40
	UnionBlobSize      = 40
)

// FixedSizeOf returns the fixed blob-body size for a recognized BlobType.
func FixedSizeOf(b BlobType) (int, bool) {
	switch b {
	case BlobFunction:
		return FunctionBlobSize, true
	case BlobCallback:
		return CallbackBlobSize, true
	case BlobStruct, BlobBoxed:
		return StructBlobSize, true
	case BlobEnum, BlobFlags:
		return EnumBlobSize, true
	case BlobObject:
		return ObjectBlobSize, true
	case BlobInterface:
		return InterfaceBlobSize, true
	case BlobConstant:
		return ConstantBlobSize, true
	case BlobErrorDomain:
		return ErrorDomainSize, true
	case BlobUnion:
		return UnionBlobSize, true
	default:
		return 0, false
	}
}

// NumHeaderBlobSizeFields is the count of u16 fixed-blob-size fields that
// trail the header's fixed offsets, one per fixed-size record kind listed in
// HeaderBlobSizes: the directory entry, the entry blobs, and the member,
// argument, signature and annotation records (spec §6.1 item 1).
const NumHeaderBlobSizeFields = 18

// NumHeaderPaddingFields is the count of reserved u16 fields that follow the
// blob-size fields, bringing the header to exactly HeaderSize bytes.
const NumHeaderPaddingFields = (HeaderSize - 56 - NumHeaderBlobSizeFields*2) / 2

// HeaderBlobSizes lists, in wire order, the u16 fixed-size fields that trail
// the header's fixed offsets (spec §6.1 item 1). The serializer writes these
// and the validator checks every one matches FixedSizeOf/the constants above
// (spec §4.4 item 2).
func HeaderBlobSizes() [NumHeaderBlobSizeFields]uint16 {
	return [NumHeaderBlobSizeFields]uint16{
		DirEntryBlobSize, FunctionBlobSize, CallbackBlobSize, SignalBlobSize,
		VFuncBlobSize, ArgBlobSize, PropertyBlobSize, FieldBlobSize,
		ValueBlobSize, AnnotationBlobSize, ConstantBlobSize, ErrorDomainSize,
		SignatureBlobSize, EnumBlobSize, StructBlobSize, ObjectBlobSize,
		InterfaceBlobSize, UnionBlobSize,
	}
}
