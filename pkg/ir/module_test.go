package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEntryRejectsDuplicateNames(t *testing.T) {
	m := NewModule("X", "1.0")
	require.NoError(t, m.AddEntry(&Struct{NodeBase: NodeBase{Name: "R"}}))

	err := m.AddEntry(&Enum{NodeBase: NodeBase{Name: "R"}})
	require.Error(t, err)
	girErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrKindSemanticResolution, girErr.Kind)
}

func TestResolveEntryAcrossIncludes(t *testing.T) {
	base := NewModule("Y", "1.0")
	require.NoError(t, base.AddEntry(&Object{NodeBase: NodeBase{Name: "Base"}}))

	derived := NewModule("X", "1.0")
	derived.Includes = append(derived.Includes, base)

	e, owner, ok := ResolveEntry(derived, "Y.Base")
	require.True(t, ok)
	assert.Equal(t, "Base", e.EntryName())
	assert.Equal(t, "Y", owner.Name)

	_, _, ok = ResolveEntry(derived, "Y.Missing")
	assert.False(t, ok)
}

func TestResolveEntryUnqualifiedSearchesOwnModuleFirst(t *testing.T) {
	m := NewModule("X", "1.0")
	require.NoError(t, m.AddEntry(&Struct{NodeBase: NodeBase{Name: "R"}}))

	e, owner, ok := ResolveEntry(m, "R")
	require.True(t, ok)
	assert.Equal(t, "R", e.EntryName())
	assert.Same(t, m, owner)
}

func TestIsDisguisedAcrossIncludes(t *testing.T) {
	base := NewModule("Y", "1.0")
	base.Disguised["Y.Opaque"] = true

	derived := NewModule("X", "1.0")
	derived.Includes = append(derived.Includes, base)

	assert.True(t, IsDisguised(derived, "Y.Opaque"))
	assert.False(t, IsDisguised(derived, "Y.NotOpaque"))
}

func TestSharedLibraryStringJoinsCommaList(t *testing.T) {
	m := NewModule("X", "1.0")
	m.SharedLibraries = []string{"libx-1.so", "libx-extra.so"}
	assert.Equal(t, "libx-1.so,libx-extra.so", m.SharedLibraryString())
}
