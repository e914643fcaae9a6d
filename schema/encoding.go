package schema

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/types"
)

// The wire structs give every union a "kind" discriminator so documents
// decode back into the same closed variants.

type wireType struct {
	Kind     types.Kind `json:"kind" yaml:"kind"`
	Name     []string   `json:"name,omitempty" yaml:"name,omitempty,flow"`
	Generics []wireType `json:"generics,omitempty" yaml:"generics,omitempty"`
	Element  *wireType  `json:"element,omitempty" yaml:"element,omitempty"`
	Key      *wireType  `json:"key,omitempty" yaml:"key,omitempty"`
	Value    *wireType  `json:"value,omitempty" yaml:"value,omitempty"`
	Params   []wireType `json:"params,omitempty" yaml:"params,omitempty"`
	Returns  []wireType `json:"returns,omitempty" yaml:"returns,omitempty"`
}

type wireSignature struct {
	Params   []wireType `json:"params" yaml:"params"`
	Returns  []wireType `json:"returns" yaml:"returns"`
	Rendered string     `json:"rendered,omitempty" yaml:"rendered,omitempty"`
}

type wireMember struct {
	Kind      MemberKind     `json:"kind" yaml:"kind"`
	Name      string         `json:"name" yaml:"name"`
	Signature *wireSignature `json:"signature,omitempty" yaml:"signature,omitempty"`
	Type      *wireType      `json:"type,omitempty" yaml:"type,omitempty"`
	Access    FieldAccess    `json:"access,omitempty" yaml:"access,omitempty"`
	Mutating  bool           `json:"mutating,omitempty" yaml:"mutating,omitempty"`
	Static    bool           `json:"static,omitempty" yaml:"static,omitempty"`
	Doc       string         `json:"doc,omitempty" yaml:"doc,omitempty"`
}

type wireNode struct {
	Kind           GeneratorKind `json:"kind" yaml:"kind"`
	Name           []string      `json:"name" yaml:"name,flow"`
	Doc            string        `json:"doc,omitempty" yaml:"doc,omitempty"`
	IsUserData     bool          `json:"is_user_data,omitempty" yaml:"is_user_data,omitempty"`
	Fields         []wireMember  `json:"fields,omitempty" yaml:"fields,omitempty"`
	StaticFields   []wireMember  `json:"static_fields,omitempty" yaml:"static_fields,omitempty"`
	Methods        []wireMember  `json:"methods,omitempty" yaml:"methods,omitempty"`
	MutMethods     []wireMember  `json:"mut_methods,omitempty" yaml:"mut_methods,omitempty"`
	MetaMethods    []wireMember  `json:"meta_methods,omitempty" yaml:"meta_methods,omitempty"`
	MutMetaMethods []wireMember  `json:"mut_meta_methods,omitempty" yaml:"mut_meta_methods,omitempty"`
	Variants       []string      `json:"variants,omitempty" yaml:"variants,omitempty"`
}

type wireGlobal struct {
	Name       string   `json:"name" yaml:"name"`
	Type       wireType `json:"type" yaml:"type"`
	IsUserData bool     `json:"is_user_data,omitempty" yaml:"is_user_data,omitempty"`
	Doc        string   `json:"doc,omitempty" yaml:"doc,omitempty"`
}

type wirePage struct {
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

type wireDocument struct {
	Version string       `json:"tealdoc_version" yaml:"tealdoc_version"`
	Nodes   []wireNode   `json:"nodes" yaml:"nodes"`
	Globals []wireGlobal `json:"globals" yaml:"globals"`
	Pages   []wirePage   `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// JSON encodes the document, indented when pretty is set.
func (d Document) JSON(pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}

// YAML encodes the document.
func (d Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// Encode writes the document in the given format.
func (d Document) Encode(format Format, pretty bool) ([]byte, error) {
	switch format {
	case FormatJSON:
		return d.JSON(pretty)
	case FormatYAML:
		return d.YAML()
	default:
		return nil, errors.NewInvalidRequestError("unknown document format %q", format)
	}
}

// ParseDocument decodes a document previously written by Encode.
func ParseDocument(data []byte, format Format) (Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return Document{}, errors.NewInvalidRequestError("unknown document format %q", format)
	}
	if err != nil {
		if errors.IsInvalidRequestError(err) {
			return Document{}, err
		}
		return Document{}, errors.Mark(errors.Wrapf(err, "failed to decode %s document", format), errors.ErrInvalidRequest)
	}
	return doc, nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	w, err := toWire(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	doc, err := fromWire(w)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func (d Document) MarshalYAML() (interface{}, error) {
	return toWire(d)
}

func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	var w wireDocument
	if err := value.Decode(&w); err != nil {
		return err
	}
	doc, err := fromWire(w)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func toWire(d Document) (wireDocument, error) {
	w := wireDocument{
		Version: d.Version,
		Nodes:   make([]wireNode, 0, len(d.Nodes)),
		Globals: make([]wireGlobal, 0, len(d.Globals)),
	}
	for _, n := range d.Nodes {
		wn, err := nodeToWire(n)
		if err != nil {
			return wireDocument{}, err
		}
		w.Nodes = append(w.Nodes, wn)
	}
	for _, g := range d.Globals {
		w.Globals = append(w.Globals, wireGlobal{
			Name:       g.Name,
			Type:       typeToWire(g.Type),
			IsUserData: g.IsUserData,
			Doc:        g.Doc,
		})
	}
	for _, p := range d.Pages {
		w.Pages = append(w.Pages, wirePage(p))
	}
	return w, nil
}

func nodeToWire(n TypeGenerator) (wireNode, error) {
	switch g := n.(type) {
	case *Record:
		w := wireNode{
			Kind:       KindRecord,
			Name:       g.TypeName,
			Doc:        g.TypeDoc,
			IsUserData: g.IsUserData,
		}
		for _, f := range g.Fields {
			w.Fields = append(w.Fields, memberToWire(f))
		}
		for _, f := range g.StaticFields {
			w.StaticFields = append(w.StaticFields, memberToWire(f))
		}
		for _, m := range g.Methods {
			w.Methods = append(w.Methods, memberToWire(m))
		}
		for _, m := range g.MutMethods {
			w.MutMethods = append(w.MutMethods, memberToWire(m))
		}
		for _, m := range g.MetaMethods {
			w.MetaMethods = append(w.MetaMethods, memberToWire(m))
		}
		for _, m := range g.MutMetaMethods {
			w.MutMetaMethods = append(w.MutMetaMethods, memberToWire(m))
		}
		return w, nil
	case *Enum:
		return wireNode{Kind: KindEnum, Name: g.EnumName, Variants: g.Variants}, nil
	default:
		return wireNode{}, errors.AssertionFailedf("unknown type generator %T", n)
	}
}

func memberToWire(m Member) wireMember {
	w := wireMember{Kind: m.MemberKind(), Name: m.MemberName(), Doc: m.Documentation()}
	switch x := m.(type) {
	case Method:
		w.Signature = signatureToWire(x.Signature)
		w.Mutating = x.Mutating
	case Function:
		w.Signature = signatureToWire(x.Signature)
		w.Mutating = x.Mutating
	case MetaMethod:
		w.Signature = signatureToWire(x.Signature)
		w.Mutating = x.Mutating
		w.Static = x.Static
	case Field:
		t := typeToWire(x.Type)
		w.Type = &t
		w.Access = x.Access
	}
	return w
}

func signatureToWire(sig types.FunctionSignature) *wireSignature {
	return &wireSignature{
		Params:   typesToWire(sig.Params),
		Returns:  typesToWire(sig.Returns),
		Rendered: types.Render(sig, types.TupleReturn),
	}
}

func typesToWire(ts []types.Type) []wireType {
	out := make([]wireType, 0, len(ts))
	for _, t := range ts {
		out = append(out, typeToWire(t))
	}
	return out
}

func typeToWire(t types.Type) wireType {
	switch x := t.(type) {
	case types.Single:
		w := wireType{Kind: types.KindSingle, Name: x.Name}
		if len(x.Generics) > 0 {
			w.Generics = typesToWire(x.Generics)
		}
		return w
	case types.Array:
		el := typeToWire(x.Element)
		return wireType{Kind: types.KindArray, Element: &el}
	case types.Map:
		k, v := typeToWire(x.Key), typeToWire(x.Value)
		return wireType{Kind: types.KindMap, Key: &k, Value: &v}
	case types.Function:
		return wireType{
			Kind:    types.KindFunction,
			Params:  typesToWire(x.Signature.Params),
			Returns: typesToWire(x.Signature.Returns),
		}
	default:
		// nil renders as any everywhere else
		return wireType{Kind: types.KindSingle, Name: types.Any.Name}
	}
}

func fromWire(w wireDocument) (Document, error) {
	doc := Document{Version: w.Version}
	for i, wn := range w.Nodes {
		n, err := nodeFromWire(wn)
		if err != nil {
			return Document{}, errors.Wrapf(err, "node %d", i)
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	for _, wg := range w.Globals {
		t, err := typeFromWire(wg.Type)
		if err != nil {
			return Document{}, errors.Wrapf(err, "global %q", wg.Name)
		}
		doc.Globals = append(doc.Globals, GlobalInstance{
			Name:       wg.Name,
			Type:       t,
			IsUserData: wg.IsUserData,
			Doc:        wg.Doc,
		})
	}
	for _, p := range w.Pages {
		doc.Pages = append(doc.Pages, Page(p))
	}
	return doc, nil
}

func nodeFromWire(w wireNode) (TypeGenerator, error) {
	switch w.Kind {
	case KindEnum:
		return &Enum{EnumName: w.Name, Variants: w.Variants}, nil
	case KindRecord:
		r := &Record{TypeName: w.Name, TypeDoc: w.Doc, IsUserData: w.IsUserData}
		var err error
		if r.Fields, err = fieldsFromWire(w.Fields); err != nil {
			return nil, err
		}
		if r.StaticFields, err = fieldsFromWire(w.StaticFields); err != nil {
			return nil, err
		}
		if r.Methods, err = callablesFromWire(w.Methods); err != nil {
			return nil, err
		}
		if r.MutMethods, err = callablesFromWire(w.MutMethods); err != nil {
			return nil, err
		}
		if r.MetaMethods, err = metasFromWire(w.MetaMethods); err != nil {
			return nil, err
		}
		if r.MutMetaMethods, err = metasFromWire(w.MutMetaMethods); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, errors.NewInvalidRequestError("unknown node kind %q", w.Kind)
	}
}

func fieldsFromWire(ws []wireMember) ([]Field, error) {
	var out []Field
	for _, w := range ws {
		if w.Kind != KindField || w.Type == nil {
			return nil, errors.NewInvalidRequestError("member %q is not a field", w.Name)
		}
		t, err := typeFromWire(*w.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", w.Name)
		}
		out = append(out, Field{Name: w.Name, Type: t, Access: w.Access, Doc: w.Doc})
	}
	return out, nil
}

func callablesFromWire(ws []wireMember) ([]Callable, error) {
	var out []Callable
	for _, w := range ws {
		sig, err := signatureFromWire(w)
		if err != nil {
			return nil, err
		}
		switch w.Kind {
		case KindMethod:
			out = append(out, Method{Name: w.Name, Signature: sig, Mutating: w.Mutating, Doc: w.Doc})
		case KindFunction:
			out = append(out, Function{Name: w.Name, Signature: sig, Mutating: w.Mutating, Doc: w.Doc})
		default:
			return nil, errors.NewInvalidRequestError("member %q of kind %q is not a method or function", w.Name, w.Kind)
		}
	}
	return out, nil
}

func metasFromWire(ws []wireMember) ([]MetaMethod, error) {
	var out []MetaMethod
	for _, w := range ws {
		if w.Kind != KindMetaMethod {
			return nil, errors.NewInvalidRequestError("member %q of kind %q is not a metamethod", w.Name, w.Kind)
		}
		sig, err := signatureFromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, MetaMethod{Op: MetaOp(w.Name), Signature: sig, Mutating: w.Mutating, Static: w.Static, Doc: w.Doc})
	}
	return out, nil
}

func signatureFromWire(w wireMember) (types.FunctionSignature, error) {
	if w.Signature == nil {
		return types.FunctionSignature{}, errors.NewInvalidRequestError("%s %q has no signature", w.Kind, w.Name)
	}
	params, err := typesFromWire(w.Signature.Params)
	if err != nil {
		return types.FunctionSignature{}, errors.Wrapf(err, "%s %q", w.Kind, w.Name)
	}
	returns, err := typesFromWire(w.Signature.Returns)
	if err != nil {
		return types.FunctionSignature{}, errors.Wrapf(err, "%s %q", w.Kind, w.Name)
	}
	return types.FunctionSignature{Params: params, Returns: returns}, nil
}

func typesFromWire(ws []wireType) ([]types.Type, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	out := make([]types.Type, 0, len(ws))
	for _, w := range ws {
		t, err := typeFromWire(w)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func typeFromWire(w wireType) (types.Type, error) {
	switch w.Kind {
	case types.KindSingle:
		if len(w.Name) == 0 {
			return nil, errors.NewInvalidRequestError("single type without a name")
		}
		generics, err := typesFromWire(w.Generics)
		if err != nil {
			return nil, err
		}
		return types.Single{Name: types.Name(w.Name...), Generics: generics}, nil
	case types.KindArray:
		if w.Element == nil {
			return nil, errors.NewInvalidRequestError("array type without an element")
		}
		el, err := typeFromWire(*w.Element)
		if err != nil {
			return nil, err
		}
		return types.Array{Element: el}, nil
	case types.KindMap:
		if w.Key == nil || w.Value == nil {
			return nil, errors.NewInvalidRequestError("map type needs a key and a value")
		}
		k, err := typeFromWire(*w.Key)
		if err != nil {
			return nil, err
		}
		v, err := typeFromWire(*w.Value)
		if err != nil {
			return nil, err
		}
		return types.Map{Key: k, Value: v}, nil
	case types.KindFunction:
		params, err := typesFromWire(w.Params)
		if err != nil {
			return nil, err
		}
		returns, err := typesFromWire(w.Returns)
		if err != nil {
			return nil, err
		}
		return types.Function{Signature: types.FunctionSignature{Params: params, Returns: returns}}, nil
	default:
		return nil, errors.NewInvalidRequestError("unknown type kind %q", w.Kind)
	}
}
