package validate

import (
	"github.com/gircomp/gircomp/internal/format"
)

// identifierString reads the NUL-terminated string at off and, unless
// allowAny, checks that its first 200 bytes all satisfy
// format.IsIdentifierByte (spec §4.4 item 4). off == 0 is treated as "no
// string" and returns "" with no error, matching the serializer's
// convention that the empty string never gets a pool entry.
func (v *validator) identifierString(off uint32, allowAny bool) (string, error) {
	if off == 0 {
		return "", nil
	}
	s, err := format.CString(v.buf, off)
	if err != nil {
		return "", v.path.errorf(errKindBinary, "invalid string offset: %v", err)
	}
	if allowAny {
		return s, nil
	}
	limit := len(s)
	if limit > 200 {
		limit = 200
	}
	for i := 0; i < limit; i++ {
		if !format.IsIdentifierByte(s[i]) {
			return "", v.path.errorf(errKindBinary, "identifier %q contains illegal byte %q at position %d", s, s[i], i)
		}
	}
	return s, nil
}
