package format

import "github.com/gircomp/gircomp/internal/buf"

// SimpleSlot encodes an inlined simple type (spec §6.3 variant a): low 5
// bits carry the tag, bit 8 carries the pointer flag. Every other bit,
// including the flags.reserved/reserved2 ranges the validator checks are
// zero, must stay zero for the slot to be recognized as simple rather than a
// pool offset.
func SimpleSlot(tag TypeKind, pointer bool) uint32 {
	v := uint32(tag) & 0x1F
	if pointer {
		v |= 1 << 8
	}
	return v
}

// DecodeSimpleSlot extracts the tag and pointer flag from a slot known (by
// IsPoolOffset returning false) to be simple.
func DecodeSimpleSlot(slot uint32) (tag TypeKind, pointer bool) {
	return TypeKind(slot & 0x1F), slot&(1<<8) != 0
}

// IsPoolOffset reports whether slot should be interpreted as an offset into
// the type pool rather than an inlined simple type: true whenever any bit
// outside the tag/pointer range is set (spec §6.3).
func IsPoolOffset(slot uint32) bool {
	const simpleMask = 0x1F | (1 << 8)
	return slot&^uint32(simpleMask) != 0
}

// PutTypeSlot writes a 4-byte type slot into b.
func PutTypeSlot(b []byte, slot uint32) { buf.PutU32LE(b, slot) }

// TypeSlot reads a 4-byte type slot from b.
func TypeSlot(b []byte) uint32 { return buf.U32LE(b) }

// Fixed sizes of the non-basic type-pool blobs (spec §6.1 item 4). The first
// byte of each carries the TypeKind in its low 5 bits per §6.3 variant (b).
// Their internal shape is not prescribed by §6.2 (only the top-level entry
// blobs are); the layout below mirrors the spirit of gtypelib.h's
// InterfaceTypeBlob/ArrayTypeBlob/ParamTypeBlob/ErrorTypeBlob while keeping
// every pool blob a fixed head plus a tail the serializer and validator both
// know how to walk.
const (
	// InterfaceTypeBlob: {u8 kind, u8 reserved, u16 reserved, u32 dirIndex}.
	InterfaceTypeBlobSize = 8

	// ArrayTypeBlobHeadSize: {u8 kind, u8 flags, u16 reserved, u32 lengthOrSize},
	// followed by one nested element type slot (4 bytes).
	ArrayTypeBlobHeadSize = 8

	// ParamTypeBlobHeadSize: {u8 kind, u8 nParams, u16 reserved, u32 reserved},
	// followed by nParams nested element type slots (4 bytes each): one for
	// GList/GSList, two (key, value) for GHashTable.
	ParamTypeBlobHeadSize = 8

	// ErrorTypeBlobHeadSize: {u8 kind, u8 reserved, u16 nDomains, u32 reserved},
	// followed by nDomains u16 directory indices, padded to 4 bytes.
	ErrorTypeBlobHeadSize = 8
)

// ArrayFlags are the bit-flags packed into an ArrayTypeBlob's second byte.
const (
	ArrayFlagZeroTerminated = 1 << 0
	ArrayFlagHasLength      = 1 << 1
	ArrayFlagHasSize        = 1 << 2
)
