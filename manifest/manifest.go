// Package manifest describes scripting types declaratively, for hosts whose
// Go side is not compiled into tealdoc.
//
// A manifest is a YAML or TOML file listing records, enums, globals and
// pages. Member signatures and field types are written as type expressions
// in the same syntax the renderer produces, e.g. "function(string):(integer)".
package manifest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/tealdoc/errors"
)

// Manifest is the parsed form of a manifest file.
type Manifest struct {
	Version string       `yaml:"version" toml:"version"`
	Records []RecordSpec `yaml:"records" toml:"records"`
	Enums   []EnumSpec   `yaml:"enums" toml:"enums"`
	Globals []GlobalSpec `yaml:"globals" toml:"globals"`
	Pages   []PageSpec   `yaml:"pages" toml:"pages"`

	// Path is the file the manifest was loaded from, empty for in-memory manifests.
	Path string `yaml:"-" toml:"-"`
}

// RecordSpec declares a record.
type RecordSpec struct {
	Name      string `yaml:"name" toml:"name"`
	Namespace string `yaml:"namespace" toml:"namespace"` // dotted, e.g. "game.world"
	Doc       string `yaml:"doc" toml:"doc"`
	UserData  bool   `yaml:"user_data" toml:"user_data"`
	// Proxy also documents the Class<Name> static view.
	Proxy bool `yaml:"proxy" toml:"proxy"`

	Fields       []FieldSpec  `yaml:"fields" toml:"fields"`
	StaticFields []FieldSpec  `yaml:"static_fields" toml:"static_fields"`
	Methods      []MethodSpec `yaml:"methods" toml:"methods"`
	Functions    []MethodSpec `yaml:"functions" toml:"functions"`
	Meta         []MetaSpec   `yaml:"meta" toml:"meta"`
}

// FieldSpec declares a field. Access is get, set or get_set; empty means get.
type FieldSpec struct {
	Name   string `yaml:"name" toml:"name"`
	Type   string `yaml:"type" toml:"type"`
	Access string `yaml:"access" toml:"access"`
	Doc    string `yaml:"doc" toml:"doc"`
}

// MethodSpec declares a method or a static function.
type MethodSpec struct {
	Name      string `yaml:"name" toml:"name"`
	Signature string `yaml:"signature" toml:"signature"`
	Mutating  bool   `yaml:"mutating" toml:"mutating"`
	Doc       string `yaml:"doc" toml:"doc"`
}

// MetaSpec declares a metamethod such as __add.
type MetaSpec struct {
	Op        string `yaml:"op" toml:"op"`
	Signature string `yaml:"signature" toml:"signature"`
	Mutating  bool   `yaml:"mutating" toml:"mutating"`
	Static    bool   `yaml:"static" toml:"static"`
	Doc       string `yaml:"doc" toml:"doc"`
}

// EnumSpec declares an enum.
type EnumSpec struct {
	Name      string   `yaml:"name" toml:"name"`
	Namespace string   `yaml:"namespace" toml:"namespace"`
	Variants  []string `yaml:"variants" toml:"variants"`
}

// GlobalSpec declares a global binding.
type GlobalSpec struct {
	Name     string `yaml:"name" toml:"name"`
	Type     string `yaml:"type" toml:"type"`
	UserData bool   `yaml:"user_data" toml:"user_data"`
	Doc      string `yaml:"doc" toml:"doc"`
}

// PageSpec declares a documentation page. File is read relative to the manifest when Content is empty.
type PageSpec struct {
	Name    string `yaml:"name" toml:"name"`
	Content string `yaml:"content" toml:"content"`
	File    string `yaml:"file" toml:"file"`
}

// Format is a manifest file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the manifest format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.NewInvalidRequestError("cannot tell manifest format of %s (want .yaml, .yml or .toml)", path)
	}
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Mark(errors.Wrapf(err, "manifest %s", path), errors.ErrNotFound)
		}
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}
	m, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	m.Path = path
	return m, nil
}

// Decode parses manifest data. Unknown keys are rejected.
func Decode(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Mark(errors.Wrap(err, "invalid YAML manifest"), errors.ErrInvalidRequest)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "invalid TOML manifest"), errors.ErrInvalidRequest)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.NewInvalidRequestError("unknown manifest key %q", undecoded[0].String())
		}
	default:
		return nil, errors.NewInvalidRequestError("unknown manifest format %q", format)
	}
	return &m, nil
}

// dir is where relative page files are resolved.
func (m *Manifest) dir() string {
	if m.Path == "" {
		return "."
	}
	return filepath.Dir(m.Path)
}

func qualified(namespace, name string) []string {
	var segments []string
	if namespace != "" {
		segments = strings.Split(namespace, ".")
	}
	return append(segments, name)
}
