// Package walker accumulates type generators and global bindings into a
// schema.Document.
//
// A Walker is a single-use builder: feed it descriptors with Process,
// document globals with DocumentGlobalInstance, then call ToDocument once.
// It is not safe for concurrent use. Parallel passes use one walker each and
// combine the results with schema.Merge.
package walker

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/schema"
	"github.com/teranos/tealdoc/types"
)

// Named is implemented by host types that know their scripting-side name.
type Named = types.Namer

// Bodied is implemented by host types that can describe their members.
type Bodied interface {
	TypeBody() schema.TypeGenerator
}

// Descriptor is a host type the walker can document.
type Descriptor interface {
	Named
	Bodied
}

var (
	// ErrConsumed is returned for any use of a walker after ToDocument.
	ErrConsumed = errors.New("walker already produced its document")

	// ErrDisplayNameCollision marks two types that would be written under the same display name.
	ErrDisplayNameCollision = errors.Mark(errors.New("display name collision"), errors.ErrConflict)
)

// Option configures a Walker.
type Option func(*Walker)

// WithVersion sets the document version. It must be a semantic version.
func WithVersion(v string) Option {
	return func(w *Walker) { w.version = v }
}

// WithLogger sets the logger used for per-type debug output.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(w *Walker) {
		if log != nil {
			w.log = log
		}
	}
}

// WithPassID sets the pass ID used in log output, for callers that also log
// the pass elsewhere. An empty id keeps the generated one.
func WithPassID(id string) Option {
	return func(w *Walker) {
		if id != "" {
			w.passID = id
		}
	}
}

// WithNamespaceCollisions allows types from different namespaces to share a display name.
func WithNamespaceCollisions(allow bool) Option {
	return func(w *Walker) { w.allowCollisions = allow }
}

// Walker collects the schema for one documentation pass.
type Walker struct {
	version         string
	log             *zap.SugaredLogger
	allowCollisions bool
	passID          string

	seen     map[string]bool
	nodes    []schema.TypeGenerator
	displays map[string]types.QualifiedName

	globals   []schema.GlobalInstance
	globalIdx map[string]int

	pages    []schema.Page
	pageIdx  map[string]int
	err      error
	consumed bool
}

// New returns an empty walker.
func New(opts ...Option) *Walker {
	w := &Walker{
		version:   schema.CurrentVersion,
		log:       logger.ComponentLogger("walker"),
		passID:    uuid.NewString(),
		seen:      make(map[string]bool),
		displays:  make(map[string]types.QualifiedName),
		globalIdx: make(map[string]int),
		pageIdx:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(logger.FieldPassID, w.passID)
	return w
}

// PassID identifies this walker in log output.
func (w *Walker) PassID() string {
	return w.passID
}

// Process adds the generator for d unless a type with the same full name was
// already added. It returns w for chaining; failures are kept in Err.
//
// Process panics if d breaks the Descriptor contract: a nil descriptor or
// generator, a name that is not a plain named type, a generator whose name
// differs from the descriptor's, or a generator that fails validation.
func (w *Walker) Process(d Descriptor) *Walker {
	if w.consumed {
		w.err = ErrConsumed
		return w
	}
	if w.err != nil {
		return w
	}

	name := descriptorName(d)
	key := name.Key()
	if w.seen[key] {
		w.log.Debugw("type already documented", logger.FieldType, key)
		return w
	}

	gen := d.TypeBody()
	if gen == nil {
		panic(errors.AssertionFailedf("descriptor %s returned a nil type generator", key))
	}
	if !gen.Name().Equal(name) {
		panic(errors.AssertionFailedf("descriptor %s returned a generator named %s", key, gen.Name()))
	}
	if err := gen.Validate(); err != nil {
		panic(errors.AssertionFailedf("descriptor %s: %v", key, err))
	}

	display := name.Display()
	if prev, ok := w.displays[display]; ok {
		if !w.allowCollisions {
			w.err = errors.Wrapf(ErrDisplayNameCollision, "%s and %s both render as %q", prev, name, display)
			return w
		}
		w.log.Warnw("display name shared across namespaces",
			logger.FieldType, key,
			"previous", prev.Key())
	} else {
		w.displays[display] = name
	}

	w.seen[key] = true
	w.nodes = append(w.nodes, gen)
	w.log.Debugw("documented type",
		logger.FieldType, key,
		logger.FieldKind, gen.GeneratorKind())
	return w
}

// ProcessAll calls Process for each descriptor in order.
func (w *Walker) ProcessAll(ds ...Descriptor) *Walker {
	for _, d := range ds {
		w.Process(d)
	}
	return w
}

func descriptorName(d Descriptor) types.QualifiedName {
	if d == nil {
		panic(errors.AssertionFailedf("nil descriptor"))
	}
	single, ok := d.TypeName().(types.Single)
	if !ok {
		panic(errors.AssertionFailedf("descriptor %T names a %T, want a named type", d, d.TypeName()))
	}
	if !single.Name.Valid() {
		panic(errors.AssertionFailedf("descriptor %T has invalid name %q", d, single.Name.Key()))
	}
	return single.Name
}

// AddPage attaches a documentation page. A later page with the same name replaces the earlier one.
func (w *Walker) AddPage(name, content string) *Walker {
	if w.consumed {
		w.err = ErrConsumed
		return w
	}
	if idx, ok := w.pageIdx[name]; ok {
		w.pages[idx].Content = content
		return w
	}
	w.pageIdx[name] = len(w.pages)
	w.pages = append(w.pages, schema.Page{Name: name, Content: content})
	return w
}

// Contains reports whether a type with the given full name was added.
func (w *Walker) Contains(name types.QualifiedName) bool {
	return w.seen[name.Key()]
}

// Len returns the number of types added so far.
func (w *Walker) Len() int {
	return len(w.nodes)
}

// Err returns the first error recorded by Process or AddPage.
func (w *Walker) Err() error {
	return w.err
}

// ToDocument returns the collected document. The walker is consumed either way.
func (w *Walker) ToDocument() (schema.Document, error) {
	if w.consumed {
		return schema.Document{}, ErrConsumed
	}
	w.consumed = true

	if w.err != nil {
		return schema.Document{}, w.err
	}
	if _, err := schema.ParseVersion(w.version); err != nil {
		return schema.Document{}, err
	}

	doc := schema.Document{
		Version: w.version,
		Nodes:   w.nodes,
		Globals: w.globals,
		Pages:   w.pages,
	}
	w.nodes, w.globals, w.pages = nil, nil, nil

	w.log.Infow("document ready",
		logger.FieldVersion, doc.Version,
		logger.FieldNodes, len(doc.Nodes),
		logger.FieldGlobals, len(doc.Globals))
	return doc, nil
}
