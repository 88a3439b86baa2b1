package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gircomp/gircomp/pkg/tag"
)

func TestSimpleTypeCanonical(t *testing.T) {
	i32 := NewSimpleType(tag.Int32, false)
	assert.Equal(t, "int32", i32.Canonical(nil))

	utf8 := NewSimpleType(tag.UTF8, false)
	assert.True(t, utf8.Pointer, "utf8 is always pointer by convention")
	assert.Equal(t, "utf8*", utf8.Canonical(nil))
}

func TestArrayTypeDefaults(t *testing.T) {
	arr := NewArrayType(NewSimpleType(tag.UInt8, false))
	assert.True(t, arr.ZeroTerminated)
	assert.Equal(t, -1, arr.LengthParamIndex)
	assert.Equal(t, "uint8[zero-terminated=1]", arr.Canonical(nil))
}

func TestHashTableDefaultsToVoidPointer(t *testing.T) {
	h := NewHashTableType(nil, nil)
	require.NotNil(t, h.KeyType)
	require.NotNil(t, h.ValueType)
	assert.Equal(t, "GHashTable<void*,void*>", h.Canonical(nil))
}

func TestListAndErrorCanonical(t *testing.T) {
	l := NewListType(false, NewSimpleType(tag.Int32, false))
	assert.Equal(t, "GList<int32>", l.Canonical(nil))

	sl := NewListType(true, NewSimpleType(tag.Int32, false))
	assert.Equal(t, "GSList<int32>", sl.Canonical(nil))

	e := NewErrorType([]string{"X.MyError", "X.OtherError"})
	assert.Equal(t, "GError<X.MyError,X.OtherError>", e.Canonical(nil))
}

func TestVoidFieldIsForbidden(t *testing.T) {
	v := NewSimpleType(tag.Void, false)
	assert.True(t, v.IsVoid())
	ptr := NewSimpleType(tag.Void, true)
	assert.False(t, ptr.IsVoid(), "a void pointer is a legal 'any' type, not the forbidden bare void")
}
