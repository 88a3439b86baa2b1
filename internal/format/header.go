package format

import (
	"fmt"

	"github.com/gircomp/gircomp/internal/buf"
)

// Header is the in-memory form of the 112-byte image header (spec §6.1
// item 1). Field order matches the wire layout exactly.
type Header struct {
	Major, Minor              uint8
	NEntries, NLocalEntries   uint16
	DirectoryOffset           uint32
	NAttributes               uint32
	AttributesOffset          uint32
	DependenciesOffset        uint32
	Size                      uint32
	NamespaceStringOffset     uint32
	NSVersionStringOffset     uint32
	SharedLibraryStringOffset uint32
	BlobSizes                 [NumHeaderBlobSizeFields]uint16
}

// Encode writes h into a fresh HeaderSize-byte buffer.
func (h *Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:16], Magic)
	b[16] = h.Major
	b[17] = h.Minor
	// b[18:20] reserved, left zero.
	buf.PutU16LE(b[20:22], h.NEntries)
	buf.PutU16LE(b[22:24], h.NLocalEntries)
	buf.PutU32LE(b[24:28], h.DirectoryOffset)
	buf.PutU32LE(b[28:32], h.NAttributes)
	buf.PutU32LE(b[32:36], h.AttributesOffset)
	buf.PutU32LE(b[36:40], h.DependenciesOffset)
	buf.PutU32LE(b[40:44], h.Size)
	buf.PutU32LE(b[44:48], h.NamespaceStringOffset)
	buf.PutU32LE(b[48:52], h.NSVersionStringOffset)
	buf.PutU32LE(b[52:56], h.SharedLibraryStringOffset)
	off := 56
	for _, v := range h.BlobSizes {
		buf.PutU16LE(b[off:off+2], v)
		off += 2
	}
	// Remaining bytes up to HeaderSize are reserved padding, left zero.
	return b
}

// DecodeHeader parses a Header from the front of b.
func DecodeHeader(b []byte) (*Header, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("format: buffer too short for header: %d bytes", len(b))
	}
	if string(b[0:16]) != Magic {
		return nil, fmt.Errorf("format: bad magic")
	}
	h := &Header{
		Major:                     b[16],
		Minor:                     b[17],
		NEntries:                  buf.U16LE(b[20:22]),
		NLocalEntries:             buf.U16LE(b[22:24]),
		DirectoryOffset:           buf.U32LE(b[24:28]),
		NAttributes:               buf.U32LE(b[28:32]),
		AttributesOffset:          buf.U32LE(b[32:36]),
		DependenciesOffset:        buf.U32LE(b[36:40]),
		Size:                      buf.U32LE(b[40:44]),
		NamespaceStringOffset:     buf.U32LE(b[44:48]),
		NSVersionStringOffset:     buf.U32LE(b[48:52]),
		SharedLibraryStringOffset: buf.U32LE(b[52:56]),
	}
	off := 56
	for i := range h.BlobSizes {
		h.BlobSizes[i] = buf.U16LE(b[off : off+2])
		off += 2
	}
	return h, nil
}

// DirEntry is the in-memory form of a 12-byte directory entry (spec §6.1
// item 2).
type DirEntry struct {
	BlobType        BlobType
	Local           bool
	NameStringOffset uint32
	BodyOffset       uint32
}

// Encode writes e into a fresh DirEntrySize-byte buffer.
func (e *DirEntry) Encode() []byte {
	b := make([]byte, DirEntrySize)
	buf.PutU16LE(b[0:2], uint16(e.BlobType))
	var flags uint16
	if e.Local {
		flags |= 1
	}
	buf.PutU16LE(b[2:4], flags)
	buf.PutU32LE(b[4:8], e.NameStringOffset)
	buf.PutU32LE(b[8:12], e.BodyOffset)
	return b
}

// DecodeDirEntry parses a DirEntry from the front of b.
func DecodeDirEntry(b []byte) (*DirEntry, error) {
	if len(b) < DirEntrySize {
		return nil, fmt.Errorf("format: buffer too short for directory entry: %d bytes", len(b))
	}
	flags := buf.U16LE(b[2:4])
	return &DirEntry{
		BlobType:         BlobType(buf.U16LE(b[0:2])),
		Local:            flags&1 != 0,
		NameStringOffset: buf.U32LE(b[4:8]),
		BodyOffset:       buf.U32LE(b[8:12]),
	}, nil
}

// DirEntryAt returns the i'th directory entry (0-based) within b, given the
// directory's base offset.
func DirEntryAt(b []byte, directoryOffset uint32, i int) (*DirEntry, error) {
	start := int(directoryOffset) + i*DirEntrySize
	end := start + DirEntrySize
	if start < 0 || end > len(b) {
		return nil, fmt.Errorf("format: directory entry %d out of bounds", i)
	}
	return DecodeDirEntry(b[start:end])
}
