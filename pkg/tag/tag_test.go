package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicCompoundSplit(t *testing.T) {
	assert.True(t, Int32.IsBasic())
	assert.False(t, Int32.IsCompound())
	assert.True(t, Array.IsCompound())
	assert.False(t, Array.IsBasic())
	assert.Equal(t, Array, FirstCompound)
}

func TestAlwaysPointer(t *testing.T) {
	assert.True(t, UTF8.AlwaysPointer())
	assert.True(t, Filename.AlwaysPointer())
	assert.False(t, Int32.AlwaysPointer())
	assert.False(t, Boolean.AlwaysPointer())
}

func TestStringNamesAreStable(t *testing.T) {
	cases := map[Tag]string{
		Void:    "void",
		Boolean: "boolean",
		Int32:   "int32",
		UTF8:    "utf8",
	}
	for tg, want := range cases {
		assert.Equal(t, want, tg.String())
	}
}

func TestBasicLayoutOfKnownTags(t *testing.T) {
	cases := []struct {
		tg            Tag
		size, align int
	}{
		{Int8, 1, 1},
		{Int16, 2, 2},
		{Int32, 4, 4},
		{Int64, 8, 8},
		{Boolean, 4, 4},
	}
	for _, c := range cases {
		layout, ok := BasicLayout(c.tg)
		assert.True(t, ok, c.tg.String())
		assert.Equal(t, c.size, layout.Size, c.tg.String())
		assert.Equal(t, c.align, layout.Alignment, c.tg.String())
	}
}

func TestBasicLayoutRejectsCompound(t *testing.T) {
	_, ok := BasicLayout(Array)
	assert.False(t, ok)
}

func TestLookupSynonyms(t *testing.T) {
	tg, ok := Lookup("gint32")
	assert.True(t, ok)
	assert.Equal(t, Int32, tg)

	tg, ok = Lookup("utf8")
	assert.True(t, ok)
	assert.Equal(t, UTF8, tg)

	_, ok = Lookup("not-a-real-tag")
	assert.False(t, ok)
}
