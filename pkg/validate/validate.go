package validate

import (
	"github.com/gircomp/gircomp/internal/format"
	"github.com/gircomp/gircomp/pkg/ir"
)

const errKindBinary = ir.ErrKindBinaryInvariant

// validator carries the buffer and decoded header/directory across the
// recursive descent, plus the context-path stack every error is qualified
// with (spec §4.4's closing paragraph).
type validator struct {
	buf      []byte
	h        *format.Header
	dir      []*format.DirEntry
	path     pathStack
	visited  map[uint32]bool // allocated per call; no check reads or fills it
}

// Validate checks buf for structural and semantic well-formedness as a
// typelib image (spec §4.4), returning the first violation found. A nil
// return means buf satisfies every invariant the serializer (pkg/compile)
// relied upon.
func Validate(buf []byte) error {
	v := &validator{buf: buf, visited: map[uint32]bool{}}
	if err := v.checkHeader(); err != nil {
		return err
	}
	if err := v.checkDirectory(); err != nil {
		return err
	}
	if err := v.checkAttributes(); err != nil {
		return err
	}
	return nil
}

// checkHeader implements spec §4.4 items 1-2.
func (v *validator) checkHeader() error {
	h, err := format.DecodeHeader(v.buf)
	if err != nil {
		return v.path.errorf(errKindBinary, "%v", err)
	}
	v.h = h

	if h.Major != format.MajorVersion || h.Minor != format.MinorVersion {
		return v.path.errorf(errKindBinary, "unsupported version %d.%d", h.Major, h.Minor)
	}
	if h.NEntries < h.NLocalEntries {
		return v.path.errorf(errKindBinary, "n_entries (%d) < n_local_entries (%d)", h.NEntries, h.NLocalEntries)
	}
	if int(h.Size) != len(v.buf) {
		return v.path.errorf(errKindBinary, "header size %d does not match buffer length %d", h.Size, len(v.buf))
	}
	want := format.HeaderBlobSizes()
	for i, got := range h.BlobSizes {
		if got != want[i] {
			return v.path.errorf(errKindBinary, "fixed blob size field %d is %d, expected %d", i, got, want[i])
		}
	}
	if h.DirectoryOffset%4 != 0 {
		return v.path.errorf(errKindBinary, "directory offset %d is not 4-byte aligned", h.DirectoryOffset)
	}
	if h.AttributesOffset%4 != 0 {
		return v.path.errorf(errKindBinary, "attributes offset %d is not 4-byte aligned", h.AttributesOffset)
	}
	if h.NAttributes > 0 && h.AttributesOffset == 0 {
		return v.path.errorf(errKindBinary, "n_attributes > 0 but attributes_offset is zero")
	}
	if _, err := v.identifierString(h.NamespaceStringOffset, false); err != nil {
		return err
	}
	return nil
}

// checkDirectory implements spec §4.4 item 3 and dispatches into per-kind
// blob checks (item 4).
func (v *validator) checkDirectory() error {
	pop := v.path.push("directory")
	defer pop()

	v.dir = make([]*format.DirEntry, v.h.NEntries)
	for i := 0; i < int(v.h.NEntries); i++ {
		de, err := format.DirEntryAt(v.buf, v.h.DirectoryOffset, i)
		if err != nil {
			return v.path.errorf(errKindBinary, "entry %d: %v", i, err)
		}
		v.dir[i] = de

		isLocal := i < int(v.h.NLocalEntries)
		if de.Local != isLocal {
			return v.path.errorf(errKindBinary, "entry %d: local flag %v, expected %v", i, de.Local, isLocal)
		}
		if isLocal {
			if de.BodyOffset%4 != 0 {
				return v.path.errorf(errKindBinary, "entry %d: body offset %d not 4-byte aligned", i, de.BodyOffset)
			}
			if !de.BlobType.IsRecognized() {
				return v.path.errorf(errKindBinary, "entry %d: unrecognized blob type %d", i, de.BlobType)
			}
			sz, _ := format.FixedSizeOf(de.BlobType)
			if int(de.BodyOffset)+sz > len(v.buf) {
				return v.path.errorf(errKindBinary, "entry %d: body at %d+%d exceeds buffer", i, de.BodyOffset, sz)
			}
			gotKind := format.BlobType(uint16(v.buf[de.BodyOffset]) | uint16(v.buf[de.BodyOffset+1])<<8)
			if gotKind != de.BlobType {
				return v.path.errorf(errKindBinary, "entry %d: blob body's own type %d does not match directory's %d", i, gotKind, de.BlobType)
			}
		} else {
			if de.BlobType != format.BlobInvalid {
				return v.path.errorf(errKindBinary, "entry %d: non-local entry has nonzero blob type %d", i, de.BlobType)
			}
			if _, err := v.identifierString(de.BodyOffset, false); err != nil {
				return err
			}
		}
		if _, err := v.identifierString(de.NameStringOffset, false); err != nil {
			return err
		}
	}

	for i := 0; i < int(v.h.NLocalEntries); i++ {
		de := v.dir[i]
		name, _ := format.CString(v.buf, de.NameStringOffset)
		pop := v.path.push("%s %q", de.BlobType, name)
		if err := v.checkLocalEntry(de); err != nil {
			pop()
			return err
		}
		pop()
	}
	return nil
}

// dirIndex validates a 1-based directory index (0 meaning "none" is allowed
// by callers that pass allowZero).
func (v *validator) dirIndex(idx uint32, allowZero bool) error {
	if idx == 0 {
		if allowZero {
			return nil
		}
		return v.path.errorf(errKindBinary, "directory index is zero")
	}
	if idx > uint32(v.h.NEntries) {
		return v.path.errorf(errKindBinary, "directory index %d out of range [1, %d]", idx, v.h.NEntries)
	}
	return nil
}

// dirEntryKind returns the blob kind of a 1-based directory index, or
// BlobInvalid for a non-local (xref) entry, whose kind cannot be checked
// without following into another namespace.
func (v *validator) dirEntryKind(idx uint32) format.BlobType {
	if idx == 0 || idx > uint32(len(v.dir)) {
		return format.BlobInvalid
	}
	de := v.dir[idx-1]
	if !de.Local {
		return format.BlobInvalid
	}
	return de.BlobType
}

func (v *validator) checkAttributes() error {
	end := int(v.h.AttributesOffset) + int(v.h.NAttributes)*format.AnnotationBlobSize
	if end > len(v.buf) {
		return v.path.errorf(errKindBinary, "attributes table (offset %d, count %d) exceeds buffer", v.h.AttributesOffset, v.h.NAttributes)
	}
	for i := 0; i < int(v.h.NAttributes); i++ {
		start := int(v.h.AttributesOffset) + i*format.AnnotationBlobSize
		ab, err := format.DecodeAnnotationBlob(v.buf[start : start+format.AnnotationBlobSize])
		if err != nil {
			return v.path.errorf(errKindBinary, "attribute %d: %v", i, err)
		}
		if int(ab.NodeOffset) > len(v.buf) {
			return v.path.errorf(errKindBinary, "attribute %d: node offset %d out of bounds", i, ab.NodeOffset)
		}
		if _, err := v.identifierString(ab.Key, true); err != nil {
			return err
		}
		if _, err := v.identifierString(ab.Value, true); err != nil {
			return err
		}
	}
	return nil
}
