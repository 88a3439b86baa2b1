package ir

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareMembersByteWiseName(t *testing.T) {
	fields := []*Field{
		{Name: "zeta"},
		{Name: "alpha"},
		{Name: "Beta"}, // capital sorts before lowercase, byte-wise
	}
	sort.Slice(fields, func(i, j int) bool { return Less(fields[i], fields[j]) })

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Beta", "alpha", "zeta"}, names)
}

func TestCompareMembersKindTieBreak(t *testing.T) {
	a := &Field{Name: "x"}
	b := &Property{Name: "x"}
	assert.True(t, Less(a, b), "Field.Kind() < Property.Kind() breaks the name tie")
	assert.False(t, Less(b, a))
	assert.Equal(t, 0, CompareMembers(a, a))
}
