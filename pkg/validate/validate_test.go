package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gircomp/gircomp/pkg/compile"
	"github.com/gircomp/gircomp/pkg/ir"
	"github.com/gircomp/gircomp/pkg/tag"
)

func compiledStruct(t *testing.T) []byte {
	t.Helper()
	m := ir.NewModule("X", "1.0")
	s := &ir.Struct{
		NodeBase: ir.NodeBase{Name: "R"},
		Fields: []*ir.Field{
			{Name: "a", Offset: -1, Type: ir.NewSimpleType(tag.Int32, false)},
			{Name: "b", Offset: -1, Type: ir.NewSimpleType(tag.Int8, false)},
		},
	}
	require.NoError(t, m.AddEntry(s))
	res, err := compile.Compile(m, compile.DefaultOptions())
	require.NoError(t, err)
	return res.Image
}

func TestValidateAcceptsCompilerOutput(t *testing.T) {
	require.NoError(t, Validate(compiledStruct(t)))
}

func TestValidateRejectsTruncatedBuffer(t *testing.T) {
	buf := compiledStruct(t)
	err := Validate(buf[:10])
	require.Error(t, err)
}

func TestValidateRejectsBadMagic(t *testing.T) {
	buf := append([]byte(nil), compiledStruct(t)...)
	buf[0] ^= 0xFF
	err := Validate(buf)
	require.Error(t, err)
}

func TestValidateRejectsSizeMismatch(t *testing.T) {
	buf := append([]byte(nil), compiledStruct(t)...)
	buf = append(buf, 0, 0, 0, 0) // header.Size no longer equals len(buf)
	err := Validate(buf)
	require.Error(t, err)
}

func TestValidateErrorHasContextPath(t *testing.T) {
	m := ir.NewModule("X", "1.0")
	fn := &ir.Function{
		NodeBase: ir.NodeBase{Name: "foo"},
		Symbol:   "x_foo",
		Signature: &ir.Signature{
			Return: &ir.Param{Retval: true, Type: ir.NewSimpleType(tag.Boolean, false)},
		},
	}
	require.NoError(t, m.AddEntry(fn))
	res, err := compile.Compile(m, compile.DefaultOptions())
	require.NoError(t, err)

	buf := append([]byte(nil), res.Image...)
	// Corrupt the directory's blob-type field for the one local entry.
	dirOff := 112
	buf[dirOff] = 0xFF
	err = Validate(buf)
	require.Error(t, err)
	girErr, ok := err.(*ir.Error)
	require.True(t, ok)
	assert.Equal(t, ir.ErrKindBinaryInvariant, girErr.Kind)
	assert.Equal(t, "directory", girErr.Path)
}

func TestValidateAcceptsXRefStubDirectoryIndex(t *testing.T) {
	m := ir.NewModule("X", "1.0")
	obj := &ir.Object{NodeBase: ir.NodeBase{Name: "C"}, ParentName: "Y.Base"}
	require.NoError(t, m.AddEntry(obj))
	res, err := compile.Compile(m, compile.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, Validate(res.Image))
}
