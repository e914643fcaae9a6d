package manifest

import (
	"os"
	"path/filepath"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/proxy"
	"github.com/teranos/tealdoc/schema"
	"github.com/teranos/tealdoc/types"
	"github.com/teranos/tealdoc/walker"
)

// descriptor is a pre-built walker.Descriptor for one manifest entry.
type descriptor struct {
	name types.Single
	body schema.TypeGenerator
}

func (d descriptor) TypeName() types.Type           { return d.name }
func (d descriptor) TypeBody() schema.TypeGenerator { return d.body }

// Descriptors returns one descriptor per record and enum, in file order:
// records first, each followed by its proxy when requested, then enums.
// Every entry is validated so walking the result never panics.
func (m *Manifest) Descriptors() ([]walker.Descriptor, error) {
	var out []walker.Descriptor
	for i, r := range m.Records {
		rec, err := r.build()
		if err != nil {
			return nil, errors.Wrapf(err, "records[%d] %s", i, r.Name)
		}
		d := descriptor{name: types.Single{Name: rec.TypeName}, body: rec}
		out = append(out, d)
		if r.Proxy {
			out = append(out, proxy.Of(d))
		}
	}
	for i, e := range m.Enums {
		if e.Name == "" {
			return nil, errors.NewInvalidRequestError("enums[%d] has no name", i)
		}
		enum := schema.NewEnum(qualified(e.Namespace, e.Name), e.Variants...)
		if err := enum.Validate(); err != nil {
			return nil, errors.Wrapf(err, "enums[%d] %s", i, e.Name)
		}
		out = append(out, descriptor{name: types.Single{Name: enum.EnumName}, body: enum})
	}
	return out, nil
}

func (r RecordSpec) build() (*schema.Record, error) {
	if r.Name == "" {
		return nil, errors.NewInvalidRequestError("record has no name")
	}
	b := schema.NewRecord(qualified(r.Namespace, r.Name))
	if r.UserData {
		b.UserData()
	}
	if r.Doc != "" {
		b.DocumentType(r.Doc)
	}

	for _, f := range r.Fields {
		if err := addField(b, f, false); err != nil {
			return nil, err
		}
	}
	for _, f := range r.StaticFields {
		if err := addField(b, f, true); err != nil {
			return nil, err
		}
	}

	for _, spec := range r.Methods {
		sig, err := parseSignature(spec.Name, spec.Signature)
		if err != nil {
			return nil, err
		}
		document(b, spec.Doc)
		if spec.Mutating {
			b.MutMethod(spec.Name, sig)
		} else {
			b.Method(spec.Name, sig)
		}
	}
	for _, spec := range r.Functions {
		sig, err := parseSignature(spec.Name, spec.Signature)
		if err != nil {
			return nil, err
		}
		document(b, spec.Doc)
		if spec.Mutating {
			b.MutFunction(spec.Name, sig)
		} else {
			b.Function(spec.Name, sig)
		}
	}
	for _, spec := range r.Meta {
		op := schema.MetaOp(spec.Op)
		if !op.Known() {
			return nil, errors.NewInvalidRequestError("unknown metamethod %q", spec.Op)
		}
		sig, err := parseSignature(spec.Op, spec.Signature)
		if err != nil {
			return nil, err
		}
		document(b, spec.Doc)
		switch {
		case spec.Static && spec.Mutating:
			b.MutMetaFunction(op, sig)
		case spec.Static:
			b.MetaFunction(op, sig)
		case spec.Mutating:
			b.MutMetaMethod(op, sig)
		default:
			b.MetaMethod(op, sig)
		}
	}

	rec := b.Build()
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func document(b *schema.RecordBuilder, doc string) {
	if doc != "" {
		b.Document(doc)
	}
}

func addField(b *schema.RecordBuilder, f FieldSpec, static bool) error {
	if f.Name == "" {
		return errors.NewInvalidRequestError("field has no name")
	}
	t, err := types.Parse(f.Type)
	if err != nil {
		return errors.Wrapf(err, "field %s", f.Name)
	}

	get, set := b.FieldGet, b.FieldSet
	if static {
		get, set = b.StaticFieldGet, b.StaticFieldSet
	}
	switch f.Access {
	case "", "get":
		document(b, f.Doc)
		get(f.Name, t)
	case "set":
		document(b, f.Doc)
		set(f.Name, t)
	case "get_set":
		document(b, f.Doc)
		get(f.Name, t)
		document(b, f.Doc)
		set(f.Name, t)
	default:
		return errors.NewInvalidRequestError("field %s has access %q (want get, set or get_set)", f.Name, f.Access)
	}
	return nil
}

func parseSignature(member, expr string) (types.FunctionSignature, error) {
	sig, err := types.ParseSignature(expr)
	if err != nil {
		return types.FunctionSignature{}, errors.Wrapf(err, "member %s", member)
	}
	return sig, nil
}

// Exporter returns the manifest's global bindings.
func (m *Manifest) Exporter() (walker.Exporter, error) {
	instances := make(walker.Instances, 0, len(m.Globals))
	for i, g := range m.Globals {
		t, err := types.Parse(g.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "globals[%d] %s", i, g.Name)
		}
		instances = append(instances, walker.Instance{Name: g.Name, Type: t, UserData: g.UserData, Doc: g.Doc})
	}
	return instances, nil
}

// ResolvePages returns each page's content, reading File entries relative to the manifest.
func (m *Manifest) ResolvePages() ([]schema.Page, error) {
	var pages []schema.Page
	for i, p := range m.Pages {
		if p.Name == "" {
			return nil, errors.NewInvalidRequestError("pages[%d] has no name", i)
		}
		content := p.Content
		if content == "" && p.File != "" {
			path := p.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(m.dir(), path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, errors.Wrapf(err, "page %s", p.Name)
			}
			content = string(data)
		}
		pages = append(pages, schema.Page{Name: p.Name, Content: content})
	}
	return pages, nil
}

// Build runs one documentation pass over m. The manifest's own version, when
// set, takes precedence over a WithVersion option.
func Build(m *Manifest, opts ...walker.Option) (schema.Document, error) {
	descriptors, err := m.Descriptors()
	if err != nil {
		return schema.Document{}, err
	}
	exporter, err := m.Exporter()
	if err != nil {
		return schema.Document{}, err
	}
	pages, err := m.ResolvePages()
	if err != nil {
		return schema.Document{}, err
	}

	if m.Version != "" {
		opts = append(opts[:len(opts):len(opts)], walker.WithVersion(m.Version))
	}
	w := walker.New(opts...).ProcessAll(descriptors...)
	if err := w.Err(); err != nil {
		return schema.Document{}, err
	}
	if _, err := w.DocumentGlobalInstance(exporter); err != nil {
		return schema.Document{}, err
	}
	for _, p := range pages {
		w.AddPage(p.Name, p.Content)
	}
	return w.ToDocument()
}
