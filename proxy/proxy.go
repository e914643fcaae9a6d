// Package proxy derives the "class" view of a type: the static surface a
// script reaches through the type itself rather than through an instance.
//
// For a record Foo the proxy is a record ClassFoo carrying Foo's static
// functions, static metamethods and static fields, and nothing else.
package proxy

import (
	"fmt"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/schema"
	"github.com/teranos/tealdoc/types"
	"github.com/teranos/tealdoc/walker"
)

// ClassPrefix is prepended to the display name of proxied types.
const ClassPrefix = "Class"

// ClassName returns the proxy name for t: the display segment gains the
// Class prefix and the namespace and generics are kept. Other kinds of type
// are returned unchanged.
func ClassName(t types.Type) types.Type {
	single, ok := t.(types.Single)
	if !ok {
		return t
	}
	return types.Single{
		Name:     single.Name.WithDisplay(ClassPrefix + single.Name.Display()),
		Generics: single.Generics,
	}
}

// StaticView returns a copy of gen renamed to name that keeps only the
// members callable without an instance. gen is not modified.
func StaticView(gen schema.TypeGenerator, name types.QualifiedName) schema.TypeGenerator {
	switch g := gen.(type) {
	case *schema.Record:
		return &schema.Record{
			TypeName:       name.Clone(),
			TypeDoc:        fmt.Sprintf("Collection of static methods for `%s`.", g.TypeName),
			IsUserData:     g.IsUserData,
			StaticFields:   append([]schema.Field(nil), g.StaticFields...),
			Methods:        staticCallables(g.Methods),
			MutMethods:     staticCallables(g.MutMethods),
			MetaMethods:    staticMetas(g.MetaMethods),
			MutMetaMethods: staticMetas(g.MutMetaMethods),
		}
	case *schema.Enum:
		return schema.NewEnum(name, g.Variants...)
	default:
		panic(errors.AssertionFailedf("unknown type generator %T", gen))
	}
}

func staticCallables(in []schema.Callable) []schema.Callable {
	var out []schema.Callable
	for _, c := range in {
		switch c.(type) {
		case schema.Function:
			out = append(out, c)
		case schema.Method:
			// needs an instance
		}
	}
	return out
}

func staticMetas(in []schema.MetaMethod) []schema.MetaMethod {
	var out []schema.MetaMethod
	for _, m := range in {
		if m.Static {
			out = append(out, m)
		}
	}
	return out
}

// Proxy documents the class view of a descriptor.
type Proxy struct {
	of walker.Descriptor
}

// Of wraps d so that walking the result documents ClassD.
func Of(d walker.Descriptor) Proxy {
	return Proxy{of: d}
}

func (p Proxy) TypeName() types.Type {
	return ClassName(p.of.TypeName())
}

func (p Proxy) TypeBody() schema.TypeGenerator {
	return StaticView(p.of.TypeBody(), types.NameOf(p.TypeName()))
}

// IsUserData reports true: the class view is always handed to scripts by reference.
func (Proxy) IsUserData() bool {
	return true
}
