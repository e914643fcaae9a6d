package types

import (
	"strings"
)

// RenderMode selects how function returns are written.
type RenderMode int

const (
	// TupleReturn wraps returns in parentheses regardless of count: function(a):(b , c).
	TupleReturn RenderMode = iota
	// LegacyReturn writes exactly one return bare: function(a):b.
	LegacyReturn
)

// LegacyPlaceholder is written in LegacyReturn mode when a signature does not
// have exactly one return. Callers asking for legacy output of a zero- or
// multi-return signature get this instead of an error.
const LegacyPlaceholder = "any"

// String returns the mode name used by flags and config.
func (m RenderMode) String() string {
	if m == LegacyReturn {
		return "legacy"
	}
	return "tuple"
}

// listSeparator joins parameters and returns.
const listSeparator = " , "

// Render writes a signature as a function type.
//
//	Render(Sig([]Type{String}, String), TupleReturn)  == "function(string):(string)"
//	Render(Sig([]Type{String}, String), LegacyReturn) == "function(string):string"
func Render(sig FunctionSignature, mode RenderMode) string {
	var sb strings.Builder
	writeSignature(&sb, sig, mode)
	return sb.String()
}

// Format renders a single type. Nested function types use mode.
func Format(t Type, mode RenderMode) string {
	var sb strings.Builder
	writeType(&sb, t, mode)
	return sb.String()
}

func writeSignature(sb *strings.Builder, sig FunctionSignature, mode RenderMode) {
	sb.WriteString("function(")
	writeList(sb, sig.Params, mode)
	sb.WriteString("):")

	if mode == LegacyReturn {
		if len(sig.Returns) == 1 {
			writeType(sb, sig.Returns[0], mode)
		} else {
			sb.WriteString(LegacyPlaceholder)
		}
		return
	}

	sb.WriteByte('(')
	writeList(sb, sig.Returns, mode)
	sb.WriteByte(')')
}

func writeList(sb *strings.Builder, list []Type, mode RenderMode) {
	for i, t := range list {
		if i > 0 {
			sb.WriteString(listSeparator)
		}
		writeType(sb, t, mode)
	}
}

func writeType(sb *strings.Builder, t Type, mode RenderMode) {
	switch x := t.(type) {
	case Single:
		sb.WriteString(x.Name.String())
		if len(x.Generics) > 0 {
			sb.WriteByte('<')
			for i, g := range x.Generics {
				if i > 0 {
					sb.WriteString(", ")
				}
				writeType(sb, g, mode)
			}
			sb.WriteByte('>')
		}
	case Array:
		sb.WriteByte('{')
		writeType(sb, x.Element, mode)
		sb.WriteByte('}')
	case Map:
		sb.WriteByte('{')
		writeType(sb, x.Key, mode)
		sb.WriteString(" : ")
		writeType(sb, x.Value, mode)
		sb.WriteByte('}')
	case Function:
		writeSignature(sb, x.Signature, mode)
	case nil:
		sb.WriteString(Any.Name.String())
	}
}
