// Package tag defines the closed enumeration of primitive type tags used
// throughout the GIR compiler, along with their native calling-convention
// widths and alignments. The set is fixed at compile time for this
// implementation; unknown tag strings encountered while parsing are an
// input-syntax error, not an extension point.
package tag

// Tag identifies a primitive or container type family. The ordering matches
// the on-disk encoding: basic tags occupy the low, contiguous range and
// compound (container) tags follow.
type Tag uint8

const (
	Void Tag = iota
	Boolean
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Int    // native int
	UInt   // native uint
	Long   // native long
	ULong  // native unsigned long
	SSize  // native ssize_t
	Size   // native size_t
	Float
	Double
	Time
	GType
	UTF8
	Filename

	// Compound (container) tags.
	Array
	Interface
	GList
	GSList
	GHash
	Error
)

// FirstCompound is the first tag value in the compound range.
const FirstCompound = Array

// IsBasic reports whether t is in the basic (non-container) range.
func (t Tag) IsBasic() bool { return t < FirstCompound }

// IsCompound reports whether t is a container tag.
func (t Tag) IsCompound() bool { return !t.IsBasic() }

// AlwaysPointer reports whether values of this basic tag are always accessed
// through a pointer by convention, even though the tag itself is basic.
func (t Tag) AlwaysPointer() bool {
	return t == UTF8 || t == Filename
}

// names mirrors the stable textual names used for canonicalization (§6.4)
// and diagnostics. Order must track the Tag enumeration above.
var names = [...]string{
	Void:      "void",
	Boolean:   "boolean",
	Int8:      "int8",
	UInt8:     "uint8",
	Int16:     "int16",
	UInt16:    "uint16",
	Int32:     "int32",
	UInt32:    "uint32",
	Int64:     "int64",
	UInt64:    "uint64",
	Int:       "int",
	UInt:      "uint",
	Long:      "long",
	ULong:     "ulong",
	SSize:     "ssize",
	Size:      "size",
	Float:     "float",
	Double:    "double",
	Time:      "time_t",
	GType:     "GType",
	UTF8:      "utf8",
	Filename:  "filename",
	Array:     "array",
	Interface: "interface",
	GList:     "glist",
	GSList:    "gslist",
	GHash:     "ghash",
	Error:     "error",
}

// String returns the stable textual name used in diagnostics and in the
// canonical type form (§6.4).
func (t Tag) String() string {
	if int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return "unknown"
}

// byName is the inverse of names, used by the parser to resolve a GIR
// `name="..."` attribute on a `<type>` element to a Tag.
var byName = func() map[string]Tag {
	m := make(map[string]Tag, len(names))
	for t, n := range names {
		if n != "" {
			m[n] = Tag(t)
		}
	}
	// Synonyms seen in real GIR corpora.
	m["none"] = Void
	m["gboolean"] = Boolean
	m["gint8"] = Int8
	m["guint8"] = UInt8
	m["gint16"] = Int16
	m["guint16"] = UInt16
	m["gint32"] = Int32
	m["guint32"] = UInt32
	m["gint64"] = Int64
	m["guint64"] = UInt64
	m["gint"] = Int
	m["guint"] = UInt
	m["glong"] = Long
	m["gulong"] = ULong
	m["gssize"] = SSize
	m["gsize"] = Size
	m["gfloat"] = Float
	m["gdouble"] = Double
	m["gunichar"] = UInt32
	return m
}()

// Lookup resolves a primitive type name (as it appears in a GIR `<type
// name="...">`) to its Tag. ok is false for names that are not primitives
// (interface references, container synonyms handled upstream by the parser).
func Lookup(name string) (t Tag, ok bool) {
	t, ok = byName[name]
	return t, ok
}

// Layout describes the native size and alignment of a tag's storage, as used
// by the offset/layout engine (spec §4.2) and the enum width-inference table.
type Layout struct {
	Size      int
	Alignment int
}

// widths holds the {size, alignment} of each basic tag on a typical LP64
// target, mirroring the ffi_type table the original `giroffsets.c` consults
// (ffi_type_sint8 .. ffi_type_pointer). Pointer-width tags (UTF8, Filename,
// GType on 64-bit) use PointerLayout instead; callers must check
// AlwaysPointer/field pointer-ness before indexing here.
var widths = [...]Layout{
	Void:     {0, 1},
	Boolean:  {4, 4},
	Int8:     {1, 1},
	UInt8:    {1, 1},
	Int16:    {2, 2},
	UInt16:   {2, 2},
	Int32:    {4, 4},
	UInt32:   {4, 4},
	Int64:    {8, 8},
	UInt64:   {8, 8},
	Int:      {4, 4},
	UInt:     {4, 4},
	Long:     {8, 8},
	ULong:    {8, 8},
	SSize:    {8, 8},
	Size:     {8, 8},
	Float:    {4, 4},
	Double:   {8, 8},
	Time:     {8, 8},
	GType:    {8, 8},
	UTF8:     {8, 8},
	Filename: {8, 8},
}

// PointerLayout is the size/alignment of any pointer-typed value on the
// target calling convention (LP64).
var PointerLayout = Layout{Size: 8, Alignment: 8}

// BasicLayout returns the native layout of a basic, non-pointer tag. Callers
// must not pass Void or a compound tag.
func BasicLayout(t Tag) (Layout, bool) {
	if !t.IsBasic() || int(t) >= len(widths) {
		return Layout{}, false
	}
	return widths[t], true
}
