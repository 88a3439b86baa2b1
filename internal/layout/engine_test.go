package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gircomp/gircomp/pkg/ir"
	"github.com/gircomp/gircomp/pkg/tag"
)

func TestStructWithTwoFields(t *testing.T) {
	// spec.md §8 seed scenario 3: record R { a: int32; b: int8; }
	m := ir.NewModule("X", "1.0")
	s := &ir.Struct{
		NodeBase: ir.NodeBase{Name: "R"},
		Fields: []*ir.Field{
			{Name: "a", Offset: -1, Type: ir.NewSimpleType(tag.Int32, false)},
			{Name: "b", Offset: -1, Type: ir.NewSimpleType(tag.Int8, false)},
		},
	}
	require.NoError(t, m.AddEntry(s))

	require.NoError(t, New().ComputeModule(m))

	assert.Equal(t, 0, s.Fields[0].Offset)
	assert.Equal(t, 4, s.Fields[1].Offset)
	assert.Equal(t, 8, s.Size)
	assert.Equal(t, 4, s.Alignment)
}

func TestEnumWidthInferenceBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		values  []int64
		want    tag.Tag
		size    int
	}{
		{"single 127", []int64{127}, tag.Int8, 1},
		{"single 128", []int64{128}, tag.Int16, 2},
		{"0,1,300", []int64{0, 1, 300}, tag.Int16, 2},
		{"single 32768", []int64{32768}, tag.Int32, 4},
		{"single 2^31", []int64{1 << 31}, tag.UInt32, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := ir.NewModule("X", "1.0")
			en := &ir.Enum{NodeBase: ir.NodeBase{Name: "E"}}
			for _, v := range c.values {
				en.Values = append(en.Values, &ir.Value{Name: "V", Value: v})
			}
			require.NoError(t, m.AddEntry(en))
			require.NoError(t, New().ComputeModule(m))
			assert.Equal(t, c.want, tag.Tag(en.StorageTag))
			assert.Equal(t, c.size, en.Size)
		})
	}
}

func TestInterfaceRefToStructAcrossModules(t *testing.T) {
	base := ir.NewModule("Y", "1.0")
	inner := &ir.Struct{
		NodeBase: ir.NodeBase{Name: "Inner"},
		Fields:   []*ir.Field{{Name: "v", Offset: -1, Type: ir.NewSimpleType(tag.Int64, false)}},
	}
	require.NoError(t, base.AddEntry(inner))

	derived := ir.NewModule("X", "1.0")
	derived.Includes = append(derived.Includes, base)
	outer := &ir.Struct{
		NodeBase: ir.NodeBase{Name: "Outer"},
		Fields: []*ir.Field{
			{Name: "tag", Offset: -1, Type: ir.NewSimpleType(tag.Int8, false)},
			{Name: "payload", Offset: -1, Type: ir.NewInterfaceRefType("Y.Inner", false)},
		},
	}
	require.NoError(t, derived.AddEntry(outer))

	require.NoError(t, New().ComputeModule(derived))

	assert.Equal(t, 8, inner.Size)
	assert.Equal(t, 0, outer.Fields[0].Offset)
	assert.Equal(t, 8, outer.Fields[1].Offset, "payload rounds up to Inner's 8-byte alignment")
	assert.Equal(t, 16, outer.Size)
}

func TestVoidFieldIsLayoutError(t *testing.T) {
	m := ir.NewModule("X", "1.0")
	s := &ir.Struct{
		NodeBase: ir.NodeBase{Name: "Bad"},
		Fields:   []*ir.Field{{Name: "v", Offset: -1, Type: ir.NewSimpleType(tag.Void, false)}},
	}
	require.NoError(t, m.AddEntry(s))

	err := New().ComputeModule(m)
	require.Error(t, err)
	girErr, ok := err.(*ir.Error)
	require.True(t, ok)
	assert.Equal(t, ir.ErrKindLayoutError, girErr.Kind)
}

func TestMemoizationShortCircuitsRecompute(t *testing.T) {
	m := ir.NewModule("X", "1.0")
	s := &ir.Struct{
		NodeBase: ir.NodeBase{Name: "R"},
		Fields:   []*ir.Field{{Name: "a", Offset: -1, Type: ir.NewSimpleType(tag.Int32, false)}},
	}
	require.NoError(t, m.AddEntry(s))

	eng := New()
	require.NoError(t, eng.ComputeModule(m))
	s.Size = 999 // simulate stale recompute guard: a real recompute would overwrite this
	require.NoError(t, eng.ComputeModule(m))
	assert.Equal(t, 999, s.Size, "non-zero Alignment means computeStruct returns immediately")
}

func TestInlineCallbackFieldContributesNoOffset(t *testing.T) {
	m := ir.NewModule("X", "1.0")
	s := &ir.Struct{
		NodeBase: ir.NodeBase{Name: "R"},
		Fields: []*ir.Field{
			{Name: "cb", Offset: -1, CallbackSignature: &ir.Signature{}},
			{Name: "after", Offset: -1, Type: ir.NewSimpleType(tag.Int8, false)},
		},
	}
	require.NoError(t, m.AddEntry(s))
	require.NoError(t, New().ComputeModule(m))
	assert.Equal(t, -1, s.Fields[0].Offset, "callback-typed field gets no offset of its own")
	assert.Equal(t, 8, s.Fields[1].Offset, "but it still occupies one pointer width")
}
