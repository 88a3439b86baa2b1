package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gircomp/gircomp/internal/format"
	"github.com/gircomp/gircomp/pkg/ir"
	"github.com/gircomp/gircomp/pkg/tag"
	"github.com/gircomp/gircomp/pkg/validate"
)

func TestEmptyNamespaceImage(t *testing.T) {
	// spec.md §8 seed scenario 1.
	m := ir.NewModule("X", "1.0")
	res, err := Compile(m, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, validate.Validate(res.Image))

	h, err := format.DecodeHeader(res.Image)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), h.NEntries)
	assert.Equal(t, uint32(len(res.Image)), h.Size)
}

func TestSingleFunctionDirectoryOffset(t *testing.T) {
	// spec.md §8 seed scenario 2: function blob at offset 124 (112 header +
	// 12 directory entry), return slot encodes boolean inline.
	m := ir.NewModule("X", "1.0")
	fn := &ir.Function{
		NodeBase: ir.NodeBase{Name: "foo"},
		Symbol:   "x_foo",
		Signature: &ir.Signature{
			Return: &ir.Param{Retval: true, Type: ir.NewSimpleType(tag.Boolean, false)},
			Params: []*ir.Param{
				{Name: "i", Direction: ir.DirIn, Type: ir.NewSimpleType(tag.Int32, false)},
			},
		},
	}
	require.NoError(t, m.AddEntry(fn))

	res, err := Compile(m, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, validate.Validate(res.Image))

	h, err := format.DecodeHeader(res.Image)
	require.NoError(t, err)
	require.Equal(t, uint16(1), h.NEntries)

	de, err := format.DirEntryAt(res.Image, h.DirectoryOffset, 0)
	require.NoError(t, err)
	assert.Equal(t, format.BlobFunction, de.BlobType)
	assert.Equal(t, uint32(format.HeaderSize+format.DirEntrySize), de.BodyOffset)
}

func TestCrossNamespaceInheritanceMaterializesXRefStub(t *testing.T) {
	// spec.md §8 seed scenario 4: X.C has parent="Y.Base" with no <include>.
	m := ir.NewModule("X", "1.0")
	obj := &ir.Object{
		NodeBase:   ir.NodeBase{Name: "C"},
		ParentName: "Y.Base",
	}
	require.NoError(t, m.AddEntry(obj))

	res, err := Compile(m, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, validate.Validate(res.Image))

	h, err := format.DecodeHeader(res.Image)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), h.NLocalEntries)
	assert.Equal(t, uint16(2), h.NEntries, "implicit xref stub for Y.Base appended after local entries")

	de, err := format.DirEntryAt(res.Image, h.DirectoryOffset, 1)
	require.NoError(t, err)
	assert.False(t, de.Local)
	name, err := format.CString(res.Image, de.NameStringOffset)
	require.NoError(t, err)
	assert.Equal(t, "Base", name)
	ns, err := format.CString(res.Image, de.BodyOffset)
	require.NoError(t, err)
	assert.Equal(t, "Y", ns)
}

func TestUnionWithDiscriminatorRoundTrips(t *testing.T) {
	// spec.md §8 seed scenario 6.
	m := ir.NewModule("X", "1.0")
	u := &ir.Union{
		NodeBase:            ir.NodeBase{Name: "U"},
		Discriminated:       true,
		DiscriminatorOffset: 0,
		DiscriminatorType:   ir.NewSimpleType(tag.Int32, false),
		DiscriminatorValues: []*ir.Value{
			{Name: "ONE", Value: 1},
			{Name: "TWO", Value: 2},
		},
		Fields: []*ir.Field{
			{Name: "a", Offset: -1, Type: ir.NewSimpleType(tag.Int32, false)},
			{Name: "b", Offset: -1, Type: ir.NewSimpleType(tag.Int64, false)},
		},
	}
	require.NoError(t, m.AddEntry(u))

	res, err := Compile(m, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, validate.Validate(res.Image))
}

func TestObjectWithOddInterfaceCountAligns(t *testing.T) {
	// A single implemented interface is the common case that leaves the
	// 2-byte index array unaligned to 4 bytes; the member arrays that
	// follow (spec §4.3 "padded to a 4-byte boundary") must still line up
	// with what pkg/validate expects.
	m := ir.NewModule("X", "1.0")
	iface := &ir.Interface{NodeBase: ir.NodeBase{Name: "Iface"}}
	require.NoError(t, m.AddEntry(iface))
	obj := &ir.Object{
		NodeBase:   ir.NodeBase{Name: "C"},
		Interfaces: []string{"Iface"},
		Fields: []*ir.Field{
			{Name: "a", Offset: -1, Type: ir.NewSimpleType(tag.Int32, false)},
		},
	}
	require.NoError(t, m.AddEntry(obj))

	res, err := Compile(m, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, validate.Validate(res.Image))
}

func TestInterfaceWithOddPrerequisiteCountAligns(t *testing.T) {
	m := ir.NewModule("X", "1.0")
	base := &ir.Interface{NodeBase: ir.NodeBase{Name: "Base"}}
	require.NoError(t, m.AddEntry(base))
	iface := &ir.Interface{
		NodeBase:      ir.NodeBase{Name: "Derived"},
		Prerequisites: []string{"Base"},
		Properties: []*ir.Property{
			{Name: "p", Type: ir.NewSimpleType(tag.Int32, false), Readable: true},
		},
	}
	require.NoError(t, m.AddEntry(iface))

	res, err := Compile(m, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, validate.Validate(res.Image))
}

func TestStringPoolIsIdempotent(t *testing.T) {
	m := ir.NewModule("X", "1.0")
	// Compiling the same module twice yields byte-identical images: string
	// and type pool interning is deterministic.
	require.NoError(t, m.AddEntry(&ir.Constant{
		NodeBase: ir.NodeBase{Name: "A"}, Type: ir.NewSimpleType(tag.Int32, false), Literal: "1",
	}))
	require.NoError(t, m.AddEntry(&ir.Constant{
		NodeBase: ir.NodeBase{Name: "B"}, Type: ir.NewSimpleType(tag.Int32, false), Literal: "2",
	}))

	res1, err := Compile(m, DefaultOptions())
	require.NoError(t, err)
	res2, err := Compile(m, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, res1.Image, res2.Image, "compiling the same module twice is deterministic")
}

func TestDuplicateEntryNameIsSemanticResolutionError(t *testing.T) {
	m := ir.NewModule("X", "1.0")
	require.NoError(t, m.AddEntry(&ir.Constant{NodeBase: ir.NodeBase{Name: "A"}, Type: ir.NewSimpleType(tag.Int32, false), Literal: "1"}))
	err := m.AddEntry(&ir.Constant{NodeBase: ir.NodeBase{Name: "A"}, Type: ir.NewSimpleType(tag.Int32, false), Literal: "2"})
	require.Error(t, err)
	girErr, ok := err.(*ir.Error)
	require.True(t, ok)
	assert.Equal(t, ir.ErrKindSemanticResolution, girErr.Kind)
}
