package format

import "fmt"

// CString returns the NUL-terminated string starting at off within b,
// without the terminator. Used by the validator (spec §4.4 item 4) and by
// diagnostic dumps.
func CString(b []byte, off uint32) (string, error) {
	i := int(off)
	if i < 0 || i > len(b) {
		return "", fmt.Errorf("format: string offset %d out of bounds", off)
	}
	j := i
	for j < len(b) && b[j] != 0 {
		j++
	}
	if j == len(b) {
		return "", fmt.Errorf("format: string at offset %d is not NUL-terminated", off)
	}
	return string(b[i:j]), nil
}

// IsIdentifierByte reports whether c is legal in the first 200 bytes of an
// identifier string per spec §4.4 item 4: `[A-Za-z0-9_-]`.
func IsIdentifierByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		return true
	default:
		return false
	}
}
