package types

import (
	"fmt"
	"reflect"
	"sync"
)

// Namer is implemented by host types that know their scripting-side name.
// It is the name-resolution capability: it must be total and pure.
type Namer interface {
	TypeName() Type
}

var namerType = reflect.TypeOf((*Namer)(nil)).Elem()

// KindMapping maps Go basic kinds to scripting-side primitives.
var KindMapping = map[reflect.Kind]Single{
	reflect.Bool:    Boolean,
	reflect.Int:     Integer,
	reflect.Int8:    Integer,
	reflect.Int16:   Integer,
	reflect.Int32:   Integer,
	reflect.Int64:   Integer,
	reflect.Uint:    Integer,
	reflect.Uint8:   Integer,
	reflect.Uint16:  Integer,
	reflect.Uint32:  Integer,
	reflect.Uint64:  Integer,
	reflect.Uintptr: Integer,
	reflect.Float32: Number,
	reflect.Float64: Number,
	reflect.String:  String,
}

// typeCache memoizes OfType by reflect.Type.
var typeCache sync.Map // key: reflect.Type, val: Type

// Of returns the scripting-side type of v.
//
// Values implementing Namer name themselves; everything else is mapped by
// reflection (see OfType). A nil interface maps to "nil".
func Of(v any) Type {
	if v == nil {
		return Nil
	}
	if n, ok := v.(Namer); ok {
		return n.TypeName()
	}
	return OfType(reflect.TypeOf(v))
}

// OfType maps a Go type to its scripting-side type.
//
// Resolution order:
//  1. t or *t implements Namer: use TypeName() on a zero value
//  2. basic kinds via KindMapping
//  3. pointers unwrap to their element
//  4. slices and arrays become Array, maps become Map, funcs become Function
//  5. other named types become Single{Name: [t.Name()]}
//  6. anything else (interfaces, anonymous structs, channels) is "any"
func OfType(t reflect.Type) Type {
	if t == nil {
		return Nil
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(Type)
	}
	// Only whole resolutions are cached. Nested results depend on where a
	// cycle was entered.
	resolved := ofType(t, map[reflect.Type]bool{})
	typeCache.Store(t, resolved)
	return resolved
}

func ofType(t reflect.Type, visiting map[reflect.Type]bool) Type {
	if visiting[t] {
		// Self-referential composite such as `type Tree map[string]Tree`.
		if t.Name() != "" {
			return Named(t.Name())
		}
		return Any
	}
	visiting[t] = true
	resolved := resolve(t, visiting)
	delete(visiting, t)
	return resolved
}

// SignatureOf returns the signature of a Go func value.
// Panics if fn is not a func; that is a programming error.
func SignatureOf(fn any) FunctionSignature {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		panic(fmt.Sprintf("types: SignatureOf called with non-func %T", fn))
	}
	return signatureOfType(t, map[reflect.Type]bool{})
}

func resolve(t reflect.Type, visiting map[reflect.Type]bool) Type {
	if n, ok := namerFor(t); ok {
		return n.TypeName()
	}

	// Named non-basic types like time.Duration still map by kind.
	if prim, ok := KindMapping[t.Kind()]; ok {
		return prim
	}

	switch t.Kind() {
	case reflect.Pointer:
		return ofType(t.Elem(), visiting)
	case reflect.Slice, reflect.Array:
		return Array{Element: ofType(t.Elem(), visiting)}
	case reflect.Map:
		return Map{Key: ofType(t.Key(), visiting), Value: ofType(t.Elem(), visiting)}
	case reflect.Func:
		return Function{Signature: signatureOfType(t, visiting)}
	case reflect.Interface:
		return Any
	}

	if t.Name() != "" {
		return Named(t.Name())
	}
	return Any
}

func namerFor(t reflect.Type) (Namer, bool) {
	switch {
	case t.Implements(namerType):
		if t.Kind() == reflect.Pointer {
			return reflect.New(t.Elem()).Interface().(Namer), true
		}
		if t.Kind() == reflect.Interface {
			return nil, false
		}
		return reflect.New(t).Elem().Interface().(Namer), true
	case reflect.PointerTo(t).Implements(namerType):
		return reflect.New(t).Interface().(Namer), true
	}
	return nil, false
}

// errorType is the host failure channel; it never reaches scripts as a value.
var errorType = reflect.TypeOf((*error)(nil)).Elem()

func signatureOfType(t reflect.Type, visiting map[reflect.Type]bool) FunctionSignature {
	sig := FunctionSignature{}
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		if t.IsVariadic() && i == t.NumIn()-1 {
			in = in.Elem()
		}
		sig.Params = append(sig.Params, ofType(in, visiting))
	}
	for i := 0; i < t.NumOut(); i++ {
		out := t.Out(i)
		// A trailing error is the host's failure channel, not a script value.
		if i == t.NumOut()-1 && out == errorType {
			continue
		}
		sig.Returns = append(sig.Returns, ofType(out, visiting))
	}
	return sig
}
