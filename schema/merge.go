package schema

import (
	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/types"
)

// MergeOptions controls MergeWith.
type MergeOptions struct {
	// Version is the merged document's version.
	Version string
	// AllowNamespaceCollisions accepts nodes that share a display name
	// under different namespaces.
	AllowNamespaceCollisions bool
}

// Merge combines documents produced by independent passes into one.
//
// Nodes, bindings and pages keep the first occurrence of each key, in input
// order. Two nodes sharing a display name under different namespaces, or one
// binding name bound to two different types, is a conflict. Every input
// version must share the major version of version.
func Merge(version string, docs ...Document) (Document, error) {
	return MergeWith(MergeOptions{Version: version}, docs...)
}

// MergeWith is Merge with display name collisions optionally allowed.
func MergeWith(opts MergeOptions, docs ...Document) (Document, error) {
	version := opts.Version
	target, err := ParseVersion(version)
	if err != nil {
		return Document{}, err
	}

	out := Document{Version: version}
	seen := make(map[string]bool)
	displays := make(map[string]types.QualifiedName)
	globals := make(map[string]int)
	pages := make(map[string]bool)

	for i, doc := range docs {
		if doc.Version != "" {
			v, err := ParseVersion(doc.Version)
			if err != nil {
				return Document{}, errors.Wrapf(err, "document %d", i)
			}
			if v.Major() != target.Major() {
				return Document{}, errors.WithHintf(
					errors.NewInvalidRequestError("document %d has version %s, incompatible with %s", i, doc.Version, version),
					"only documents with major version %d can be merged", target.Major(),
				)
			}
		}

		for _, n := range doc.Nodes {
			name := n.Name()
			if !name.Valid() {
				return Document{}, errors.NewInvalidRequestError("document %d has a type with invalid name %q", i, []string(name))
			}
			if seen[name.Key()] {
				continue
			}
			if prev, ok := displays[name.Display()]; ok && !opts.AllowNamespaceCollisions {
				return Document{}, errors.NewConflictError("types %s and %s share the display name %q", prev, name, name.Display())
			}
			seen[name.Key()] = true
			if _, ok := displays[name.Display()]; !ok {
				displays[name.Display()] = name
			}
			out.Nodes = append(out.Nodes, n)
		}

		for _, g := range doc.Globals {
			if idx, ok := globals[g.Name]; ok {
				if !types.Equal(out.Globals[idx].Type, g.Type) {
					return Document{}, errors.NewConflictError("global %q is bound to %s and %s",
						g.Name,
						types.Format(out.Globals[idx].Type, types.TupleReturn),
						types.Format(g.Type, types.TupleReturn))
				}
				continue
			}
			globals[g.Name] = len(out.Globals)
			out.Globals = append(out.Globals, g)
		}

		for _, p := range doc.Pages {
			if pages[p.Name] {
				continue
			}
			pages[p.Name] = true
			out.Pages = append(out.Pages, p)
		}
	}
	return out, nil
}
