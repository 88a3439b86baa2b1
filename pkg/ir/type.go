package ir

import (
	"fmt"
	"strings"

	"github.com/gircomp/gircomp/pkg/tag"
)

// TypeVariant discriminates the recursive Type descriptor (spec §3.2).
type TypeVariant int

const (
	TypeSimple TypeVariant = iota
	TypeInterfaceRef
	TypeArray
	TypeGList
	TypeGSList
	TypeHashTable
	TypeError
)

// Type is the recursive type descriptor (spec §3.2). Which fields are
// meaningful depends on Variant; constructors below (NewSimpleType,
// NewInterfaceRefType, ...) are the supported way to build one so that
// invalid combinations (e.g. a non-basic, non-pointer simple type, forbidden
// by spec §3.2) are harder to construct by accident.
type Type struct {
	Variant TypeVariant

	// TypeSimple
	Tag     tag.Tag
	Pointer bool

	// TypeInterfaceRef: name as written (possibly namespace-qualified);
	// resolved to a directory index at emit time.
	InterfaceName string

	// TypeArray
	Element          *Type
	ZeroTerminated   bool
	HasLength        bool
	LengthParamIndex int
	HasFixedSize     bool
	FixedSize        int

	// TypeGList / TypeGSList: Element above holds the element type.

	// TypeHashTable
	KeyType, ValueType *Type

	// TypeError: ordered list of error-domain names (entry-names, resolved
	// to directory indices at emit time).
	ErrorDomains []string
}

// NewSimpleType builds a basic (non-container) type. Pointer must be true
// for any tag that is not natively primitive-sized, and is always true for
// tag.UTF8/tag.Filename (spec §3.1 "always pointer by convention").
func NewSimpleType(t tag.Tag, pointer bool) *Type {
	if t == tag.UTF8 || t == tag.Filename {
		pointer = true
	}
	return &Type{Variant: TypeSimple, Tag: t, Pointer: pointer}
}

// NewInterfaceRefType builds a reference to a named entry, resolved later.
func NewInterfaceRefType(name string, pointer bool) *Type {
	return &Type{Variant: TypeInterfaceRef, Tag: tag.Interface, InterfaceName: name, Pointer: pointer}
}

// NewArrayType builds an array-of-element type with the array's declared
// length convention. Per spec §8 "boundary behaviors": when none of
// zero-terminated/length/fixed-size is given, the default is
// length=-1 (sentinel) and zero-terminated=true.
func NewArrayType(elem *Type) *Type {
	return &Type{Variant: TypeArray, Tag: tag.Array, Element: elem, ZeroTerminated: true, LengthParamIndex: -1}
}

// NewListType builds a GList<T> or GSList<T> descriptor.
func NewListType(slist bool, elem *Type) *Type {
	v := TypeGList
	t := tag.GList
	if slist {
		v, t = TypeGSList, tag.GSList
	}
	return &Type{Variant: v, Tag: t, Element: elem}
}

// NewHashTableType builds a GHashTable<K,V> descriptor. Per spec §8, a hash
// with no explicit parameter types defaults both to void-pointer.
func NewHashTableType(key, value *Type) *Type {
	if key == nil {
		key = NewSimpleType(tag.Void, true)
	}
	if value == nil {
		value = NewSimpleType(tag.Void, true)
	}
	return &Type{Variant: TypeHashTable, Tag: tag.GHash, KeyType: key, ValueType: value}
}

// NewErrorType builds a GError<D1,D2,...> descriptor over the given
// error-domain entry names.
func NewErrorType(domains []string) *Type {
	return &Type{Variant: TypeError, Tag: tag.Error, ErrorDomains: domains}
}

// IsVoid reports whether t is the basic void type (illegal as a field type
// per spec §4.2 "void is forbidden").
func (t *Type) IsVoid() bool {
	return t.Variant == TypeSimple && t.Tag == tag.Void && !t.Pointer
}

// Canonical renders t into the deduplication key described by spec §6.4: a
// recursive, unambiguous textual form. Equal strings imply a single pool
// entry (enforced by pkg/compile's type pool).
func (t *Type) Canonical(resolve func(name string) string) string {
	switch t.Variant {
	case TypeSimple:
		if t.Pointer {
			return t.Tag.String() + "*"
		}
		return t.Tag.String()
	case TypeInterfaceRef:
		name := t.InterfaceName
		if resolve != nil {
			name = resolve(name)
		}
		if t.Pointer {
			return name + "*"
		}
		return name
	case TypeArray:
		elem := t.Element.Canonical(resolve)
		var parts []string
		if t.ZeroTerminated {
			parts = append(parts, "zero-terminated=1")
		}
		if t.HasLength {
			parts = append(parts, fmt.Sprintf("length=%d", t.LengthParamIndex))
		}
		if t.HasFixedSize {
			parts = append(parts, fmt.Sprintf("fixed-size=%d", t.FixedSize))
		}
		return fmt.Sprintf("%s[%s]", elem, strings.Join(parts, ","))
	case TypeGList:
		return fmt.Sprintf("GList<%s>", t.Element.Canonical(resolve))
	case TypeGSList:
		return fmt.Sprintf("GSList<%s>", t.Element.Canonical(resolve))
	case TypeHashTable:
		return fmt.Sprintf("GHashTable<%s,%s>", t.KeyType.Canonical(resolve), t.ValueType.Canonical(resolve))
	case TypeError:
		resolved := make([]string, len(t.ErrorDomains))
		for i, d := range t.ErrorDomains {
			if resolve != nil {
				resolved[i] = resolve(d)
			} else {
				resolved[i] = d
			}
		}
		return fmt.Sprintf("GError<%s>", strings.Join(resolved, ","))
	default:
		return "?"
	}
}

// IsInlineSimple reports whether t can be inlined into a 32-bit type slot
// without a pool entry: a basic tag with no container payload (spec §6.3
// variant a, §4.3 "Simple types with basic tags ... are inlined").
func (t *Type) IsInlineSimple() bool {
	return t.Variant == TypeSimple
}
