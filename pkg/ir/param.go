package ir

// Direction is a parameter's in/out/inout marker (spec §3.4).
type Direction int

const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

// Transfer is a parameter's ownership-transfer marker, encoded on the wire
// as two bits: owns-value and owns-container (spec §3.4).
type Transfer int

const (
	TransferNone Transfer = iota
	TransferContainer
	TransferFull
)

// Scope is a callback parameter's lifetime scope (spec §3.4).
type Scope int

const (
	ScopeInvalid Scope = iota
	ScopeCall
	ScopeAsync
	ScopeNotified
)

// Param is a callable parameter or its implicit return-value slot (spec
// §3.4). The return value is represented as a Param with Retval=true,
// In=false, Out=false (spec §4.1 "<return-value> creates a parameter node
// with in=false, out=false, retval=true").
type Param struct {
	Name            string
	Direction       Direction
	CallerAllocates bool // "dipper": caller allocates the out buffer
	Optional        bool
	AllowNone       bool
	Transfer        Transfer
	Retval          bool
	Scope           Scope
	ClosureIndex    int // -1 if none
	DestroyIndex    int // -1 if none
	Type            *Type
}

func (p *Param) Kind() NodeKind    { return KindParam }
func (p *Param) EntryName() string { return p.Name }

// Signature is a callable's (return type, parameter list) tuple (spec §3.4,
// glossary "Signature").
type Signature struct {
	Return  *Param
	Params  []*Param
	Throws  bool // spec §4 supplemented feature 2: implicit trailing GError**
	Varargs bool
}

// ImplicitArgCount returns the number of ArgBlob records the signature
// contributes beyond its declared Params: one, when Throws is set, for the
// implicit GError** out-parameter (spec §4 supplemented feature 2).
func (s *Signature) ImplicitArgCount() int {
	if s.Throws {
		return 1
	}
	return 0
}
