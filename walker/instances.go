package walker

import (
	"fmt"
	"strings"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/schema"
	"github.com/teranos/tealdoc/types"
)

// InstanceCollector receives the global bindings an Exporter declares.
type InstanceCollector interface {
	// Document queues documentation for the next binding added.
	Document(doc string)
	// Add binds name to the scripting-side type of n.
	Add(name string, n Named)
	// AddType binds name to an explicit type.
	AddType(name string, t types.Type, userData bool)
}

// Exporter declares global bindings.
type Exporter interface {
	ExportInstances(c InstanceCollector) error
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(c InstanceCollector) error

func (f ExporterFunc) ExportInstances(c InstanceCollector) error {
	return f(c)
}

// UserData is implemented by host types exposed to scripts by reference.
type UserData interface {
	IsUserData() bool
}

// Instance is one literal binding.
type Instance struct {
	Name     string
	Type     types.Type
	UserData bool
	Doc      string
}

// Instances exports a fixed list of bindings.
type Instances []Instance

func (is Instances) ExportInstances(c InstanceCollector) error {
	for _, in := range is {
		if in.Doc != "" {
			c.Document(in.Doc)
		}
		c.AddType(in.Name, in.Type, in.UserData)
	}
	return nil
}

// BindingCollisionError reports a global name bound to two different types.
type BindingCollisionError struct {
	Name     string
	Existing types.Type
	Incoming types.Type
}

func (e *BindingCollisionError) Error() string {
	return fmt.Sprintf("global %q is already bound to %s, cannot rebind to %s",
		e.Name,
		types.Format(e.Existing, types.TupleReturn),
		types.Format(e.Incoming, types.TupleReturn))
}

func (e *BindingCollisionError) Unwrap() error {
	return errors.ErrConflict
}

type collector struct {
	pending []string
	staged  []schema.GlobalInstance
	err     error
}

func (c *collector) Document(doc string) {
	c.pending = append(c.pending, doc)
}

func (c *collector) Add(name string, n Named) {
	if n == nil {
		c.fail(errors.NewInvalidRequestError("global %q has no type", name))
		return
	}
	userData := false
	if u, ok := n.(UserData); ok {
		userData = u.IsUserData()
	}
	c.AddType(name, n.TypeName(), userData)
}

func (c *collector) AddType(name string, t types.Type, userData bool) {
	doc := strings.Join(c.pending, "\n")
	c.pending = nil
	switch {
	case name == "":
		c.fail(errors.NewInvalidRequestError("global binding without a name"))
		return
	case t == nil:
		c.fail(errors.NewInvalidRequestError("global %q has no type", name))
		return
	}
	c.staged = append(c.staged, schema.GlobalInstance{Name: name, Type: t, IsUserData: userData, Doc: doc})
}

func (c *collector) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// DocumentGlobalInstance records the bindings e declares. Either every
// binding is recorded or none is: an exporter error, an invalid binding, or a
// name already bound to a different type leaves the walker unchanged.
// Rebinding a name to an equal type is a no-op.
func (w *Walker) DocumentGlobalInstance(e Exporter) (*Walker, error) {
	if w.consumed {
		w.err = ErrConsumed
		return w, ErrConsumed
	}

	c := &collector{}
	if err := e.ExportInstances(c); err != nil {
		return w, errors.Wrap(err, "exporting global instances")
	}
	if c.err != nil {
		return w, c.err
	}

	batch := make(map[string]int, len(c.staged))
	var commit []schema.GlobalInstance
	for _, g := range c.staged {
		var existing *schema.GlobalInstance
		if idx, ok := w.globalIdx[g.Name]; ok {
			existing = &w.globals[idx]
		} else if idx, ok := batch[g.Name]; ok {
			existing = &commit[idx]
		}
		if existing != nil {
			if types.Equal(existing.Type, g.Type) {
				continue
			}
			return w, &BindingCollisionError{Name: g.Name, Existing: existing.Type, Incoming: g.Type}
		}
		batch[g.Name] = len(commit)
		commit = append(commit, g)
	}

	for _, g := range commit {
		w.globalIdx[g.Name] = len(w.globals)
		w.globals = append(w.globals, g)
		w.log.Debugw("documented global", logger.FieldBinding, g.Name)
	}
	return w, nil
}
