// Package schema defines the nodes of a tealdoc schema document: member
// descriptors, the Record and Enum type generators, and the Document that
// collects them.
//
// All variant sets here are closed. Consumers switch on the concrete types
// and the compiler's unused-case checks do the rest.
package schema

import (
	"github.com/teranos/tealdoc/types"
)

// MemberKind identifies the variant of a Member.
type MemberKind string

const (
	KindMethod     MemberKind = "method"
	KindFunction   MemberKind = "function"
	KindMetaMethod MemberKind = "meta_method"
	KindField      MemberKind = "field"
)

// Member describes one exposed member of a record.
type Member interface {
	MemberKind() MemberKind
	MemberName() string
	Documentation() string
	sealed()
}

// Callable is a Method or a Function: the entries of Record.Methods and Record.MutMethods.
type Callable interface {
	Member
	CallSignature() types.FunctionSignature
	IsMutating() bool
	// HasReceiver reports whether the script calls it as obj:name(...).
	HasReceiver() bool
}

// Method is an instance method; the receiver is implicit and not part of Signature.
type Method struct {
	Name      string
	Signature types.FunctionSignature
	Mutating  bool
	Doc       string
}

func (Method) MemberKind() MemberKind                   { return KindMethod }
func (m Method) MemberName() string                     { return m.Name }
func (m Method) Documentation() string                  { return m.Doc }
func (m Method) CallSignature() types.FunctionSignature { return m.Signature }
func (m Method) IsMutating() bool                       { return m.Mutating }
func (Method) HasReceiver() bool                        { return true }
func (Method) sealed()                                  {}

// Function is a static function, callable without an instance.
type Function struct {
	Name      string
	Signature types.FunctionSignature
	Mutating  bool
	Doc       string
}

func (Function) MemberKind() MemberKind                   { return KindFunction }
func (f Function) MemberName() string                     { return f.Name }
func (f Function) Documentation() string                  { return f.Doc }
func (f Function) CallSignature() types.FunctionSignature { return f.Signature }
func (f Function) IsMutating() bool                       { return f.Mutating }
func (Function) HasReceiver() bool                        { return false }
func (Function) sealed()                                  {}

// MetaOp names a Lua metamethod.
type MetaOp string

const (
	MetaAdd      MetaOp = "__add"
	MetaSub      MetaOp = "__sub"
	MetaMul      MetaOp = "__mul"
	MetaDiv      MetaOp = "__div"
	MetaMod      MetaOp = "__mod"
	MetaPow      MetaOp = "__pow"
	MetaUnm      MetaOp = "__unm"
	MetaIDiv     MetaOp = "__idiv"
	MetaBAnd     MetaOp = "__band"
	MetaBOr      MetaOp = "__bor"
	MetaBXor     MetaOp = "__bxor"
	MetaShl      MetaOp = "__shl"
	MetaShr      MetaOp = "__shr"
	MetaBNot     MetaOp = "__bnot"
	MetaConcat   MetaOp = "__concat"
	MetaLen      MetaOp = "__len"
	MetaEq       MetaOp = "__eq"
	MetaLt       MetaOp = "__lt"
	MetaLe       MetaOp = "__le"
	MetaIndex    MetaOp = "__index"
	MetaNewIndex MetaOp = "__newindex"
	MetaCall     MetaOp = "__call"
	MetaToString MetaOp = "__tostring"
	MetaPairs    MetaOp = "__pairs"
	MetaClose    MetaOp = "__close"
)

var knownMetaOps = map[MetaOp]bool{
	MetaAdd: true, MetaSub: true, MetaMul: true, MetaDiv: true, MetaMod: true,
	MetaPow: true, MetaUnm: true, MetaIDiv: true, MetaBAnd: true, MetaBOr: true,
	MetaBXor: true, MetaShl: true, MetaShr: true, MetaBNot: true, MetaConcat: true,
	MetaLen: true, MetaEq: true, MetaLt: true, MetaLe: true, MetaIndex: true,
	MetaNewIndex: true, MetaCall: true, MetaToString: true, MetaPairs: true, MetaClose: true,
}

// Known reports whether op is a metamethod the Lua runtime dispatches.
func (op MetaOp) Known() bool {
	return knownMetaOps[op]
}

// MetaMethod is an operator hook. Static hooks take no receiver.
type MetaMethod struct {
	Op        MetaOp
	Signature types.FunctionSignature
	Mutating  bool
	Static    bool
	Doc       string
}

func (MetaMethod) MemberKind() MemberKind  { return KindMetaMethod }
func (m MetaMethod) MemberName() string    { return string(m.Op) }
func (m MetaMethod) Documentation() string { return m.Doc }
func (MetaMethod) sealed()                 {}

// FieldAccess says how a field is reached.
type FieldAccess string

const (
	InstanceGet FieldAccess = "instance_get"
	InstanceSet FieldAccess = "instance_set"
	StaticGet   FieldAccess = "static_get"
	StaticSet   FieldAccess = "static_set"
)

// IsStatic reports whether the field lives on the type rather than an instance.
func (a FieldAccess) IsStatic() bool {
	return a == StaticGet || a == StaticSet
}

// Valid reports whether a is one of the four access kinds.
func (a FieldAccess) Valid() bool {
	switch a {
	case InstanceGet, InstanceSet, StaticGet, StaticSet:
		return true
	}
	return false
}

// Field is a getter or setter.
type Field struct {
	Name   string
	Type   types.Type
	Access FieldAccess
	Doc    string
}

func (Field) MemberKind() MemberKind  { return KindField }
func (f Field) MemberName() string    { return f.Name }
func (f Field) Documentation() string { return f.Doc }
func (Field) sealed()                 {}
