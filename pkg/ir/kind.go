package ir

// NodeKind identifies the concrete shape of an Entry or a member node.
// Ordering is otherwise insignificant except where §4's supplemented
// "g_ir_node_cmp-style" tie-break uses it to break ties between equal names
// (see CompareMembers).
type NodeKind int

const (
	KindInvalid NodeKind = iota
	KindFunction
	KindCallback
	KindStruct
	KindBoxed
	KindEnum
	KindFlags
	KindObject
	KindInterface
	KindConstant
	KindErrorDomain
	KindUnion
	KindXRef
	KindParam
	KindField
	KindProperty
	KindSignal
	KindValue
	KindVFunc
)

// Entry is a namespace-level node: everything spec §3.3 lists as reaching
// the binary, plus the implicit cross-reference stub.
type Entry interface {
	Kind() NodeKind
	EntryName() string
}

// NodeBase carries the fields every Entry and most members share: its name,
// the deprecated flag (spec §4 supplemented feature 1), and any annotation
// attributes the parser did not consume into a well-known field (spec §4
// supplemented feature 5).
type NodeBase struct {
	Name       string
	Deprecated bool
	Attrs      map[string]string
}

// EntryName implements Entry for every embedder of NodeBase.
func (b *NodeBase) EntryName() string { return b.Name }
