package schema

import (
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/types"
)

// CurrentVersion is the document format version written by default.
const CurrentVersion = "1.0.0"

// GlobalInstance is a named value the scripting runtime exposes as a global.
type GlobalInstance struct {
	Name       string
	Type       types.Type
	IsUserData bool
	Doc        string
}

// Page is a free-form documentation page shipped alongside the types.
type Page struct {
	Name    string
	Content string
}

// Document is the output of one documentation pass.
type Document struct {
	Version string
	Nodes   []TypeGenerator
	Globals []GlobalInstance
	Pages   []Page
}

// Lookup returns the node whose full name equals name.
func (d Document) Lookup(name types.QualifiedName) (TypeGenerator, bool) {
	for _, n := range d.Nodes {
		if n.Name().Equal(name) {
			return n, true
		}
	}
	return nil, false
}

// Global returns the binding with the given name.
func (d Document) Global(name string) (GlobalInstance, bool) {
	for _, g := range d.Globals {
		if g.Name == name {
			return g, true
		}
	}
	return GlobalInstance{}, false
}

// Page returns the documentation page with the given name.
func (d Document) Page(name string) (Page, bool) {
	for _, p := range d.Pages {
		if p.Name == name {
			return p, true
		}
	}
	return Page{}, false
}

// Validate checks the version, every node, and uniqueness of node keys and binding names.
func (d Document) Validate() error {
	if _, err := ParseVersion(d.Version); err != nil {
		return err
	}
	keys := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n == nil {
			return errors.NewInvalidRequestError("document contains a nil node")
		}
		if err := n.Validate(); err != nil {
			return err
		}
		key := n.Name().Key()
		if keys[key] {
			return errors.NewConflictError("document lists type %s more than once", key)
		}
		keys[key] = true
	}
	names := make(map[string]bool, len(d.Globals))
	for _, g := range d.Globals {
		if g.Name == "" || g.Type == nil {
			return errors.NewInvalidRequestError("global binding %q needs a name and a type", g.Name)
		}
		if names[g.Name] {
			return errors.NewConflictError("document binds global %q more than once", g.Name)
		}
		names[g.Name] = true
	}
	return nil
}

// ParseVersion parses a document version, rejecting anything that is not semver.
func ParseVersion(v string) (*semver.Version, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return nil, errors.WithHint(
			errors.Mark(errors.Wrapf(err, "document version %q", v), errors.ErrInvalidRequest),
			"document versions are semantic versions such as 1.0.0",
		)
	}
	return parsed, nil
}

// Format is a document serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.NewInvalidRequestError("unknown document format %q (want json or yaml)", s)
	}
}

// FormatForPath picks a format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
