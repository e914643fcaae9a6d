package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/types"
)

func TestMergeKeepsFirstSeen(t *testing.T) {
	first := NewRecord(types.Name("game", "Player")).DocumentType("first").Build()
	second := NewRecord(types.Name("game", "Player")).DocumentType("second").Build()

	a := Document{
		Version: "1.0.0",
		Nodes:   []TypeGenerator{first},
		Globals: []GlobalInstance{{Name: "player", Type: types.Named("game", "Player")}},
		Pages:   []Page{{Name: "intro", Content: "a"}},
	}
	b := Document{
		Version: "1.3.0",
		Nodes:   []TypeGenerator{second, NewEnum(types.Name("game", "Team"), "Red")},
		Globals: []GlobalInstance{
			{Name: "player", Type: types.Named("game", "Player")},
			{Name: "team", Type: types.Named("game", "Team")},
		},
		Pages: []Page{{Name: "intro", Content: "b"}, {Name: "faq", Content: "c"}},
	}

	merged, err := Merge("1.2.0", a, b)
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", merged.Version)
	require.Len(t, merged.Nodes, 2)
	assert.Equal(t, "first", merged.Nodes[0].(*Record).TypeDoc)
	assert.Equal(t, "game.Team", merged.Nodes[1].Name().Key())
	assert.Len(t, merged.Globals, 2)
	require.Len(t, merged.Pages, 2)
	assert.Equal(t, "a", merged.Pages[0].Content)
}

func TestMergeConflicts(t *testing.T) {
	ui := Document{Version: "1.0.0", Nodes: []TypeGenerator{NewEnum(types.Name("ui", "Button"))}}
	input := Document{Version: "1.0.0", Nodes: []TypeGenerator{NewEnum(types.Name("input", "Button"))}}

	_, err := Merge("1.0.0", ui, input)
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))

	g1 := Document{Globals: []GlobalInstance{{Name: "x", Type: types.String}}}
	g2 := Document{Globals: []GlobalInstance{{Name: "x", Type: types.Integer}}}
	_, err = Merge("1.0.0", g1, g2)
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Contains(t, err.Error(), "string")
	assert.Contains(t, err.Error(), "integer")
}

func TestMergeWithAllowedNamespaceCollisions(t *testing.T) {
	both := Document{Version: "1.0.0", Nodes: []TypeGenerator{
		NewEnum(types.Name("ui", "Button")),
		NewEnum(types.Name("input", "Button")),
	}}

	_, err := Merge("1.0.0", both)
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))

	merged, err := MergeWith(MergeOptions{Version: "1.0.0", AllowNamespaceCollisions: true}, both)
	require.NoError(t, err)
	assert.Len(t, merged.Nodes, 2)
}

func TestMergeRejectsAmbiguousNames(t *testing.T) {
	nested := Document{Nodes: []TypeGenerator{NewEnum(types.Name("a", "b", "C"))}}
	dotted := Document{Nodes: []TypeGenerator{NewEnum(types.Name("a", "b.C"))}}

	_, err := Merge("1.0.0", nested, dotted)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), "document 1")
}

func TestMergeVersionCompatibility(t *testing.T) {
	_, err := Merge("1.0.0", Document{Version: "2.0.0"})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = Merge("not-a-version")
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = Merge("1.0.0", Document{Version: "garbage"})
	assert.True(t, errors.IsInvalidRequestError(err))

	merged, err := Merge("1.0.0")
	require.NoError(t, err)
	assert.Empty(t, merged.Nodes)
}
