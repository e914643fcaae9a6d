package schema

import (
	"strings"

	"github.com/teranos/tealdoc/types"
)

// RecordBuilder collects the members of a Record as the host type declares them.
//
// Text passed to Document is held until the next member is added and then
// attached to it. Text still pending at Build time is discarded; use
// DocumentType for the record itself.
type RecordBuilder struct {
	rec     Record
	pending []string
}

// NewRecord starts a record for the given name.
func NewRecord(name types.QualifiedName) *RecordBuilder {
	return &RecordBuilder{rec: Record{TypeName: name.Clone()}}
}

// UserData marks the record as a host value exposed by reference.
func (b *RecordBuilder) UserData() *RecordBuilder {
	b.rec.IsUserData = true
	return b
}

// DocumentType appends a line to the record's own documentation.
func (b *RecordBuilder) DocumentType(doc string) *RecordBuilder {
	if b.rec.TypeDoc == "" {
		b.rec.TypeDoc = doc
	} else {
		b.rec.TypeDoc += "\n" + doc
	}
	return b
}

// Document queues a line of documentation for the next member.
func (b *RecordBuilder) Document(doc string) *RecordBuilder {
	b.pending = append(b.pending, doc)
	return b
}

func (b *RecordBuilder) takeDoc() string {
	doc := strings.Join(b.pending, "\n")
	b.pending = nil
	return doc
}

func (b *RecordBuilder) Method(name string, sig types.FunctionSignature) *RecordBuilder {
	b.rec.Methods = append(b.rec.Methods, Method{Name: name, Signature: sig, Doc: b.takeDoc()})
	return b
}

func (b *RecordBuilder) MutMethod(name string, sig types.FunctionSignature) *RecordBuilder {
	b.rec.MutMethods = append(b.rec.MutMethods, Method{Name: name, Signature: sig, Mutating: true, Doc: b.takeDoc()})
	return b
}

func (b *RecordBuilder) Function(name string, sig types.FunctionSignature) *RecordBuilder {
	b.rec.Methods = append(b.rec.Methods, Function{Name: name, Signature: sig, Doc: b.takeDoc()})
	return b
}

func (b *RecordBuilder) MutFunction(name string, sig types.FunctionSignature) *RecordBuilder {
	b.rec.MutMethods = append(b.rec.MutMethods, Function{Name: name, Signature: sig, Mutating: true, Doc: b.takeDoc()})
	return b
}

func (b *RecordBuilder) MetaMethod(op MetaOp, sig types.FunctionSignature) *RecordBuilder {
	b.rec.MetaMethods = append(b.rec.MetaMethods, MetaMethod{Op: op, Signature: sig, Doc: b.takeDoc()})
	return b
}

func (b *RecordBuilder) MutMetaMethod(op MetaOp, sig types.FunctionSignature) *RecordBuilder {
	b.rec.MutMetaMethods = append(b.rec.MutMetaMethods, MetaMethod{Op: op, Signature: sig, Mutating: true, Doc: b.takeDoc()})
	return b
}

// MetaFunction adds a metamethod that takes no receiver.
func (b *RecordBuilder) MetaFunction(op MetaOp, sig types.FunctionSignature) *RecordBuilder {
	b.rec.MetaMethods = append(b.rec.MetaMethods, MetaMethod{Op: op, Signature: sig, Static: true, Doc: b.takeDoc()})
	return b
}

func (b *RecordBuilder) MutMetaFunction(op MetaOp, sig types.FunctionSignature) *RecordBuilder {
	b.rec.MutMetaMethods = append(b.rec.MutMetaMethods, MetaMethod{Op: op, Signature: sig, Mutating: true, Static: true, Doc: b.takeDoc()})
	return b
}

func (b *RecordBuilder) FieldGet(name string, t types.Type) *RecordBuilder {
	return b.field(name, t, InstanceGet)
}

func (b *RecordBuilder) FieldSet(name string, t types.Type) *RecordBuilder {
	return b.field(name, t, InstanceSet)
}

func (b *RecordBuilder) StaticFieldGet(name string, t types.Type) *RecordBuilder {
	return b.field(name, t, StaticGet)
}

func (b *RecordBuilder) StaticFieldSet(name string, t types.Type) *RecordBuilder {
	return b.field(name, t, StaticSet)
}

func (b *RecordBuilder) field(name string, t types.Type, access FieldAccess) *RecordBuilder {
	f := Field{Name: name, Type: t, Access: access, Doc: b.takeDoc()}
	if access.IsStatic() {
		b.rec.StaticFields = append(b.rec.StaticFields, f)
	} else {
		b.rec.Fields = append(b.rec.Fields, f)
	}
	return b
}

// Build returns the collected record. The builder may keep being used; later
// additions do not affect records already built.
func (b *RecordBuilder) Build() *Record {
	b.pending = nil
	return b.rec.Clone()
}
