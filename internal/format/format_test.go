package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{
		Major: MajorVersion, Minor: MinorVersion,
		NEntries: 3, NLocalEntries: 2,
		DirectoryOffset: HeaderSize,
		NAttributes:     1,
		AttributesOffset: 400,
		DependenciesOffset: 200,
		Size:            512,
		NamespaceStringOffset: 120,
		NSVersionStringOffset: 130,
		SharedLibraryStringOffset: 140,
		BlobSizes: HeaderBlobSizes(),
	}
	got, err := DecodeHeader(h.Encode())
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	_, err := DecodeHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	h := &Header{BlobSizes: HeaderBlobSizes()}
	buf := h.Encode()
	buf[0] = 'Z'
	_, err := DecodeHeader(buf)
	require.Error(t, err)
}

func TestDirEntryRoundTrip(t *testing.T) {
	de := &DirEntry{BlobType: BlobStruct, Local: true, NameStringOffset: 42, BodyOffset: 124}
	got, err := DecodeDirEntry(de.Encode())
	require.NoError(t, err)
	assert.Equal(t, de, got)
}

func TestFixedSizeOfMatchesSpecBudget(t *testing.T) {
	cases := map[BlobType]int{
		BlobFunction:    20,
		BlobCallback:    12,
		BlobStruct:      32,
		BlobBoxed:       32,
		BlobObject:      44,
		BlobInterface:   40,
		BlobUnion:       40,
		BlobEnum:        24,
		BlobFlags:       24,
		BlobConstant:    24,
		BlobErrorDomain: 16,
	}
	for kind, want := range cases {
		got, ok := FixedSizeOf(kind)
		assert.True(t, ok, kind.String())
		assert.Equal(t, want, got, kind.String())
	}
}

func TestIsRecognizedRejectsInvalid(t *testing.T) {
	assert.False(t, BlobInvalid.IsRecognized())
	assert.True(t, BlobFunction.IsRecognized())
	assert.True(t, BlobUnion.IsRecognized())
}

func TestCStringReadsNulTerminated(t *testing.T) {
	buf := append([]byte("hello"), 0, 'x')
	s, err := CString(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestCStringRejectsUnterminated(t *testing.T) {
	buf := []byte("hello")
	_, err := CString(buf, 0)
	require.Error(t, err)
}

func TestIsIdentifierByte(t *testing.T) {
	assert.True(t, IsIdentifierByte('A'))
	assert.True(t, IsIdentifierByte('9'))
	assert.True(t, IsIdentifierByte('_'))
	assert.True(t, IsIdentifierByte('-'))
	assert.False(t, IsIdentifierByte(' '))
	assert.False(t, IsIdentifierByte(0))
}
