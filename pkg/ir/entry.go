package ir

// FunctionRole distinguishes a method's special role (spec §4 supplemented
// feature 3). Exactly one of Setter/Getter/Constructor/WrapsVFunc may hold,
// and holding any of them implies IsMethod (spec §4.3 "serial numbering of
// functions").
type FunctionRole int

const (
	RoleNone FunctionRole = iota
	RoleSetter
	RoleGetter
	RoleConstructor
	RoleWrapsVFunc
)

// Function is a top-level function, method, constructor, or function-typed
// member (spec §3.4, §4.1). Varargs functions are removed by the parser's
// post-filter (spec §4.1) before this node would ever reach the layout
// engine or serializer.
type Function struct {
	NodeBase
	Symbol       string
	Signature    *Signature
	IsMethod     bool
	Role         FunctionRole
	WrappedIndex int // index of the wrapped field/property/vfunc; meaningful iff Role != RoleNone
}

func (f *Function) Kind() NodeKind { return KindFunction }

// Callback is a top-level callback type (spec §3.3; inline callback-typed
// fields are represented by Field.CallbackSignature instead).
type Callback struct {
	NodeBase
	Signature *Signature
}

func (c *Callback) Kind() NodeKind { return KindCallback }

// Struct is a record/boxed aggregate (spec §3.5 Struct, Boxed).
type Struct struct {
	NodeBase
	GTypeName, GTypeInit string // "" if not registered
	Disguised            bool
	IsBoxed              bool   // always registered, per spec §3.5 Boxed
	ClassStructFor        string // entry-name this is the class struct of, "" if none
	Fields               []*Field
	Methods              []*Function

	// Computed by internal/layout; zero until then.
	Alignment, Size int
}

func (s *Struct) Kind() NodeKind {
	if s.IsBoxed {
		return KindBoxed
	}
	return KindStruct
}

// Union is a tagged-union aggregate (spec §3.5 Union).
type Union struct {
	NodeBase
	GTypeName, GTypeInit string
	Discriminated        bool
	DiscriminatorOffset  int
	DiscriminatorType    *Type
	DiscriminatorValues  []*Value // ordered discriminator constants, one per branch
	Fields               []*Field
	Methods              []*Function

	Alignment, Size int
}

func (u *Union) Kind() NodeKind { return KindUnion }

// Enum is an enumeration or bitfield aggregate (spec §3.5 Enum/Flags).
// StorageTagSet is false until either the GIR declares an explicit storage
// type or the layout engine infers one from the value range (spec §4.2
// "Enum width inference").
type Enum struct {
	NodeBase
	GTypeName, GTypeInit string
	IsFlags              bool
	Values               []*Value
	StorageTag           int  // tag.Tag value once known
	StorageTagSet        bool

	Alignment, Size int
}

func (e *Enum) Kind() NodeKind {
	if e.IsFlags {
		return KindFlags
	}
	return KindEnum
}

// Object is a GObject class (spec §3.5 Object).
type Object struct {
	NodeBase
	GTypeName, GTypeInit string
	ParentName           string // may be cross-namespace ("Ns.Name"); "" for GObject roots
	ClassStructName      string // "" if none declared
	Abstract             bool
	Interfaces           []string
	Fields               []*Field
	Properties           []*Property
	Methods              []*Function
	Signals              []*Signal
	VFuncs               []*VFunc
	Constants            []*Constant
}

func (o *Object) Kind() NodeKind { return KindObject }

// Interface is a GObject interface (spec §3.5 Interface).
type Interface struct {
	NodeBase
	GTypeName, GTypeInit string
	ClassStructName      string
	Prerequisites        []string
	Properties           []*Property
	Methods              []*Function
	Signals              []*Signal
	VFuncs               []*VFunc
	Constants            []*Constant
}

func (i *Interface) Kind() NodeKind { return KindInterface }

// ErrorDomain is a GError domain (spec §3.5 Error-domain).
type ErrorDomain struct {
	NodeBase
	GetQuark  string
	CodesName string // entry-name of the codes enum
}

func (e *ErrorDomain) Kind() NodeKind { return KindErrorDomain }

// Constant is a top-level or member constant (spec §3.5 Constant).
type Constant struct {
	NodeBase
	Type    *Type // basic only
	Literal string
}

func (c *Constant) Kind() NodeKind { return KindConstant }

// XRef describes an implicit cross-reference stub: a name that an
// interface-ref or inherited name points at but that no local entry defines
// (spec §4.3 "Implicit cross-references"). pkg/compile does not build XRef
// nodes; its planner records such stubs as directory plans (xref.go).
type XRef struct {
	NodeBase
	Namespace string
}

func (x *XRef) Kind() NodeKind { return KindXRef }
