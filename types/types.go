// Package types models the type references that appear in a tealdoc schema.
//
// A Type is a closed union: Single (a named type with optional generic
// arguments), Array, Map and Function. Every Type has a canonical textual
// rendering (see Render and Format) and can be parsed back (see Parse).
package types

import (
	"strings"
)

// Kind identifies the variant of a Type.
type Kind string

const (
	KindSingle   Kind = "single"
	KindArray    Kind = "array"
	KindMap      Kind = "map"
	KindFunction Kind = "function"
)

// Type is a reference to a scripting-side type.
//
// The set of implementations is closed; switch on the concrete type
// (Single, Array, Map, Function) and handle every case.
type Type interface {
	Kind() Kind
	sealed()
}

// QualifiedName locates a type: namespace segments followed by the display name.
type QualifiedName []string

// Name builds a QualifiedName from segments.
func Name(segments ...string) QualifiedName {
	return QualifiedName(append([]string(nil), segments...))
}

// Display returns the last segment, the name users see.
func (n QualifiedName) Display() string {
	if len(n) == 0 {
		return ""
	}
	return n[len(n)-1]
}

// Namespace returns the segments preceding the display name.
func (n QualifiedName) Namespace() []string {
	if len(n) <= 1 {
		return nil
	}
	return n[:len(n)-1]
}

// WithDisplay returns a copy with the display segment replaced.
func (n QualifiedName) WithDisplay(display string) QualifiedName {
	out := n.Clone()
	if len(out) == 0 {
		return QualifiedName{display}
	}
	out[len(out)-1] = display
	return out
}

// Key returns the full path, suitable as a map key.
// Two names share a key only if every segment matches.
func (n QualifiedName) Key() string {
	return strings.Join(n, ".")
}

// String renders the name as written in declarations (a.b.Name).
func (n QualifiedName) String() string {
	return n.Key()
}

// Valid reports whether the name has at least one segment and every segment
// is an identifier. Segments never contain '.', so Key is unambiguous.
func (n QualifiedName) Valid() bool {
	if len(n) == 0 {
		return false
	}
	for _, s := range n {
		if !isIdent(s) {
			return false
		}
	}
	return true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

// Equal compares names segment by segment.
func (n QualifiedName) Equal(other QualifiedName) bool {
	if len(n) != len(other) {
		return false
	}
	for i := range n {
		if n[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (n QualifiedName) Clone() QualifiedName {
	if n == nil {
		return nil
	}
	return append(QualifiedName(nil), n...)
}

// Single is a named type, optionally with generic arguments.
type Single struct {
	Name     QualifiedName
	Generics []Type
}

func (Single) Kind() Kind { return KindSingle }
func (Single) sealed()    {}

// Array is an ordered sequence of Element, rendered {Element}.
type Array struct {
	Element Type
}

func (Array) Kind() Kind { return KindArray }
func (Array) sealed()    {}

// Map is a table keyed by Key, rendered {Key : Value}.
type Map struct {
	Key   Type
	Value Type
}

func (Map) Kind() Kind { return KindMap }
func (Map) sealed()    {}

// Function is a function-typed value.
type Function struct {
	Signature FunctionSignature
}

func (Function) Kind() Kind { return KindFunction }
func (Function) sealed()    {}

// FunctionSignature lists parameter and return types in order.
type FunctionSignature struct {
	Params  []Type
	Returns []Type
}

// Sig is shorthand for building a FunctionSignature.
func Sig(params []Type, returns ...Type) FunctionSignature {
	return FunctionSignature{Params: params, Returns: returns}
}

// Named returns a Single with the given segments and no generics.
func Named(segments ...string) Single {
	return Single{Name: Name(segments...)}
}

// Generic returns a Single with generic arguments.
func Generic(name QualifiedName, args ...Type) Single {
	return Single{Name: name, Generics: args}
}

// Common scripting-side primitives.
var (
	Any     = Named("any")
	Boolean = Named("boolean")
	Integer = Named("integer")
	Number  = Named("number")
	String  = Named("string")
	Nil     = Named("nil")
)

// Equal reports whether a and b are structurally equal.
// Generic arguments, parameters and returns are compared in order.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case Single:
		y, ok := b.(Single)
		return ok && x.Name.Equal(y.Name) && equalList(x.Generics, y.Generics)
	case Array:
		y, ok := b.(Array)
		return ok && Equal(x.Element, y.Element)
	case Map:
		y, ok := b.(Map)
		return ok && Equal(x.Key, y.Key) && Equal(x.Value, y.Value)
	case Function:
		y, ok := b.(Function)
		return ok && x.Signature.Equal(y.Signature)
	default:
		return false
	}
}

// Equal reports whether both signatures have equal params and returns.
func (s FunctionSignature) Equal(other FunctionSignature) bool {
	return equalList(s.Params, other.Params) && equalList(s.Returns, other.Returns)
}

func equalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// NameOf returns the qualified name of a Single, or nil for other kinds.
func NameOf(t Type) QualifiedName {
	if s, ok := t.(Single); ok {
		return s.Name
	}
	return nil
}
