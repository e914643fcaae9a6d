package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/types"
)

type handle struct{}

func (handle) TypeName() types.Type { return types.Named("io", "Handle") }
func (handle) IsUserData() bool     { return true }

func TestGlobalBindingCollision(t *testing.T) {
	w := newTestWalker(t)

	_, err := w.DocumentGlobalInstance(Instances{{Name: "Example", Type: types.String}})
	require.NoError(t, err)

	_, err = w.DocumentGlobalInstance(Instances{{Name: "Example", Type: types.String}})
	require.NoError(t, err, "rebinding to the same type is a no-op")

	_, err = w.DocumentGlobalInstance(Instances{{Name: "Example", Type: types.Integer}})
	require.Error(t, err)

	var collision *BindingCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "Example", collision.Name)
	assert.True(t, types.Equal(types.String, collision.Existing))
	assert.True(t, types.Equal(types.Integer, collision.Incoming))
	assert.True(t, errors.IsConflictError(err))

	doc, err := w.ToDocument()
	require.NoError(t, err)
	require.Len(t, doc.Globals, 1)
	assert.Equal(t, "Example", doc.Globals[0].Name)
}

func TestGlobalBindingsAreAtomic(t *testing.T) {
	w := newTestWalker(t)
	_, err := w.DocumentGlobalInstance(Instances{{Name: "taken", Type: types.String}})
	require.NoError(t, err)

	_, err = w.DocumentGlobalInstance(Instances{
		{Name: "fresh", Type: types.Boolean},
		{Name: "taken", Type: types.Number},
	})
	require.Error(t, err)

	doc, err := w.ToDocument()
	require.NoError(t, err)
	require.Len(t, doc.Globals, 1, "the failed call must not commit its valid bindings")
	_, ok := doc.Global("fresh")
	assert.False(t, ok)
}

func TestGlobalBindingCollisionWithinOneCall(t *testing.T) {
	w := newTestWalker(t)
	_, err := w.DocumentGlobalInstance(Instances{
		{Name: "x", Type: types.String},
		{Name: "x", Type: types.String},
		{Name: "y", Type: types.Integer},
	})
	require.NoError(t, err)

	_, err = w.DocumentGlobalInstance(Instances{
		{Name: "z", Type: types.String},
		{Name: "z", Type: types.Integer},
	})
	assert.True(t, errors.IsConflictError(err))

	doc, err := w.ToDocument()
	require.NoError(t, err)
	assert.Len(t, doc.Globals, 2)
}

func TestCollectorDocumentsNextBinding(t *testing.T) {
	exporter := ExporterFunc(func(c InstanceCollector) error {
		c.Document("The standard output handle.")
		c.Document("Always open.")
		c.Add("stdout", handle{})
		c.AddType("version", types.String, false)
		return nil
	})

	w, err := newTestWalker(t).Process(color(0)).DocumentGlobalInstance(exporter)
	require.NoError(t, err)

	out, err := w.ToDocument()
	require.NoError(t, err)

	stdout, ok := out.Global("stdout")
	require.True(t, ok)
	assert.Equal(t, "The standard output handle.\nAlways open.", stdout.Doc)
	assert.True(t, stdout.IsUserData)
	assert.True(t, types.Equal(types.Named("io", "Handle"), stdout.Type))

	version, ok := out.Global("version")
	require.True(t, ok)
	assert.Empty(t, version.Doc)
	assert.False(t, version.IsUserData)
}

func TestDocumentGlobalInstanceErrors(t *testing.T) {
	tests := []struct {
		name     string
		exporter Exporter
	}{
		{"exporter fails", ExporterFunc(func(InstanceCollector) error { return errors.New("boom") })},
		{"empty name", Instances{{Name: "", Type: types.String}}},
		{"nil type", Instances{{Name: "x"}}},
		{"nil named", ExporterFunc(func(c InstanceCollector) error { c.Add("x", nil); return nil })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWalker(t)
			_, err := w.DocumentGlobalInstance(tt.exporter)
			require.Error(t, err)

			doc, err := w.ToDocument()
			require.NoError(t, err, "binding errors leave the walker usable")
			assert.Empty(t, doc.Globals)
		})
	}
}
