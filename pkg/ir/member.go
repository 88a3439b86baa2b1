package ir

// Field is a struct/union/class field (spec §3.6 Field). Offset is -1 until
// the layout engine runs (spec §4.2).
type Field struct {
	Name     string
	Readable bool // default true
	Writable bool // default false
	BitWidth int  // 0 = whole field
	Offset   int  // -1 until layout
	Type     *Type

	// CallbackSignature is set when this field is an inline callback-typed
	// member (spec §4.1 "<callback> ... inside an aggregate it is a member
	// typed field"); such fields occupy one pointer width in the aggregate
	// but get no field offset of their own: in a struct, Offset stays -1
	// (spec §4.2).
	CallbackSignature *Signature
}

func NewField(name string) *Field { return &Field{Name: name, Readable: true, Offset: -1} }

func (f *Field) Kind() NodeKind    { return KindField }
func (f *Field) EntryName() string { return f.Name }

// Property is an object/interface property (spec §3.6 Property).
type Property struct {
	Name                                    string
	Type                                    *Type
	Readable, Writable, Construct, ConstructOnly bool
	Deprecated                              bool
}

func (p *Property) Kind() NodeKind    { return KindProperty }
func (p *Property) EntryName() string { return p.Name }

// RunPhase is a signal's emission phase, exactly one of which is set (spec
// §3.6 Signal, §4.4 item 4 "signal run-phase bits have exactly one set").
type RunPhase int

const (
	RunFirst RunPhase = iota
	RunLast
	RunCleanup
)

// Signal is an object/interface signal (spec §3.6 Signal).
type Signal struct {
	Name                                        string
	RunPhase                                    RunPhase
	Detailed, NoRecurse, Action, NoHooks         bool
	TrueStopsEmit                                bool
	ClassClosureIndex                            int // -1 if none; HasClassClosure = index >= 0
	Signature                                    *Signature
}

func (s *Signal) Kind() NodeKind    { return KindSignal }
func (s *Signal) EntryName() string { return s.Name }

// HasClassClosure reports whether a class-closure index was set.
func (s *Signal) HasClassClosure() bool { return s.ClassClosureIndex >= 0 }

// VFunc is a class virtual function slot (spec §3.6 Vfunc).
type VFunc struct {
	Name                                          string
	MustChainUp, MustBeImplemented, MustNotBeImplemented bool
	IsClassClosure                                bool
	ClassOffset                                   int // byte offset into the class struct
	Signature                                     *Signature
	InvokerName                                   string // optional invoker method name, "" if none
}

func (v *VFunc) Kind() NodeKind    { return KindVFunc }
func (v *VFunc) EntryName() string { return v.Name }

// Value is an enum/flags member (spec §3.6 Value).
type Value struct {
	Name       string
	Value      int64 // stored widened; serialized as the low 32 bits of ValueBlob.Value
	Deprecated bool
}

func (v *Value) Kind() NodeKind    { return KindValue }
func (v *Value) EntryName() string { return v.Name }
