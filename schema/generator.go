package schema

import (
	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/types"
)

// GeneratorKind identifies the variant of a TypeGenerator.
type GeneratorKind string

const (
	KindRecord GeneratorKind = "record"
	KindEnum   GeneratorKind = "enum"
)

// TypeGenerator is a fully described node of the schema: a *Record or an *Enum.
type TypeGenerator interface {
	GeneratorKind() GeneratorKind
	Name() types.QualifiedName
	// Validate reports contract violations such as empty names or duplicate variants.
	Validate() error
	sealed()
}

// Record describes a type with fields, methods and metamethods.
type Record struct {
	TypeName   types.QualifiedName
	TypeDoc    string
	IsUserData bool

	Fields       []Field
	StaticFields []Field

	Methods        []Callable
	MutMethods     []Callable
	MetaMethods    []MetaMethod
	MutMetaMethods []MetaMethod
}

func (*Record) GeneratorKind() GeneratorKind { return KindRecord }
func (r *Record) Name() types.QualifiedName  { return r.TypeName }
func (*Record) sealed()                      {}

// Validate checks that every member sits in the list matching its access and mutability.
func (r *Record) Validate() error {
	if !r.TypeName.Valid() {
		return errors.NewInvalidRequestError("record name %q is not a valid qualified name", r.TypeName.Key())
	}
	for _, f := range r.Fields {
		if err := validateField(r, f, false); err != nil {
			return err
		}
	}
	for _, f := range r.StaticFields {
		if err := validateField(r, f, true); err != nil {
			return err
		}
	}
	for _, m := range r.Methods {
		if err := validateCallable(r, m, false); err != nil {
			return err
		}
	}
	for _, m := range r.MutMethods {
		if err := validateCallable(r, m, true); err != nil {
			return err
		}
	}
	for _, m := range r.MetaMethods {
		if err := validateMeta(r, m, false); err != nil {
			return err
		}
	}
	for _, m := range r.MutMetaMethods {
		if err := validateMeta(r, m, true); err != nil {
			return err
		}
	}
	return nil
}

func validateField(r *Record, f Field, static bool) error {
	if f.Name == "" {
		return errors.NewInvalidRequestError("record %s has a field without a name", r.TypeName)
	}
	if f.Type == nil {
		return errors.NewInvalidRequestError("field %s.%s has no type", r.TypeName, f.Name)
	}
	if !f.Access.Valid() || f.Access.IsStatic() != static {
		return errors.NewInvalidRequestError("field %s.%s has access %q in the wrong list", r.TypeName, f.Name, f.Access)
	}
	return nil
}

func validateCallable(r *Record, c Callable, mutating bool) error {
	if c == nil {
		return errors.NewInvalidRequestError("record %s has a nil method entry", r.TypeName)
	}
	if c.MemberName() == "" {
		return errors.NewInvalidRequestError("record %s has a %s without a name", r.TypeName, c.MemberKind())
	}
	if c.IsMutating() != mutating {
		return errors.NewInvalidRequestError("%s %s.%s is in the wrong mutability list", c.MemberKind(), r.TypeName, c.MemberName())
	}
	return nil
}

func validateMeta(r *Record, m MetaMethod, mutating bool) error {
	if m.Op == "" {
		return errors.NewInvalidRequestError("record %s has a metamethod without an operator", r.TypeName)
	}
	if m.Mutating != mutating {
		return errors.NewInvalidRequestError("metamethod %s.%s is in the wrong mutability list", r.TypeName, m.Op)
	}
	return nil
}

// Clone returns a deep enough copy that editing its slices leaves r untouched.
func (r *Record) Clone() *Record {
	return &Record{
		TypeName:       r.TypeName.Clone(),
		TypeDoc:        r.TypeDoc,
		IsUserData:     r.IsUserData,
		Fields:         append([]Field(nil), r.Fields...),
		StaticFields:   append([]Field(nil), r.StaticFields...),
		Methods:        append([]Callable(nil), r.Methods...),
		MutMethods:     append([]Callable(nil), r.MutMethods...),
		MetaMethods:    append([]MetaMethod(nil), r.MetaMethods...),
		MutMetaMethods: append([]MetaMethod(nil), r.MutMetaMethods...),
	}
}

// Members returns every member in declaration-list order:
// fields, static fields, methods, mutating methods, metamethods, mutating metamethods.
func (r *Record) Members() []Member {
	out := make([]Member, 0, len(r.Fields)+len(r.StaticFields)+len(r.Methods)+len(r.MutMethods)+len(r.MetaMethods)+len(r.MutMetaMethods))
	for _, f := range r.Fields {
		out = append(out, f)
	}
	for _, f := range r.StaticFields {
		out = append(out, f)
	}
	for _, m := range r.Methods {
		out = append(out, m)
	}
	for _, m := range r.MutMethods {
		out = append(out, m)
	}
	for _, m := range r.MetaMethods {
		out = append(out, m)
	}
	for _, m := range r.MutMetaMethods {
		out = append(out, m)
	}
	return out
}

// Enum is a closed set of string variants. Order is kept as given.
type Enum struct {
	EnumName types.QualifiedName
	Variants []string
}

// NewEnum builds an Enum from a name and its variants.
func NewEnum(name types.QualifiedName, variants ...string) *Enum {
	return &Enum{EnumName: name.Clone(), Variants: append([]string(nil), variants...)}
}

func (*Enum) GeneratorKind() GeneratorKind { return KindEnum }
func (e *Enum) Name() types.QualifiedName  { return e.EnumName }
func (*Enum) sealed()                      {}

// Validate rejects invalid names and duplicate variants.
func (e *Enum) Validate() error {
	if !e.EnumName.Valid() {
		return errors.NewInvalidRequestError("enum name %q is not a valid qualified name", e.EnumName.Key())
	}
	seen := make(map[string]bool, len(e.Variants))
	for _, v := range e.Variants {
		if seen[v] {
			return errors.NewInvalidRequestError("enum %s lists variant %q more than once", e.EnumName, v)
		}
		seen[v] = true
	}
	return nil
}

// Clone returns an independent copy.
func (e *Enum) Clone() *Enum {
	return NewEnum(e.EnumName, e.Variants...)
}
