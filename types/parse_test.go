package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tealdoc/errors"
)

func TestParseRoundTrip(t *testing.T) {
	types := []Type{
		Integer,
		Named("game", "Player"),
		Generic(Name("Result"), String, Array{Element: Integer}),
		Array{Element: Array{Element: Boolean}},
		Map{Key: String, Value: Generic(Name("Box"), Number)},
		Function{Signature: Sig(nil)},
		Function{Signature: Sig([]Type{String}, String)},
		Function{Signature: Sig(
			[]Type{Function{Signature: Sig([]Type{Integer, String}, String, Integer)}},
			Number,
		)},
		Array{Element: Function{Signature: Sig([]Type{Integer}, Boolean)}},
	}

	for _, typ := range types {
		rendered := Format(typ, TupleReturn)
		t.Run(rendered, func(t *testing.T) {
			parsed, err := Parse(rendered)
			require.NoError(t, err)
			assert.True(t, Equal(typ, parsed), "parsed %s", Format(parsed, TupleReturn))
		})
	}
}

func TestParseLegacyReturns(t *testing.T) {
	parsed, err := Parse("function(function(integer,integer):integer , string):string")
	require.NoError(t, err)

	want := Function{Signature: Sig(
		[]Type{Function{Signature: Sig([]Type{Integer, Integer}, Integer)}, String},
		String,
	)}
	assert.True(t, Equal(want, parsed))
}

func TestParseWhitespace(t *testing.T) {
	parsed, err := Parse("  { string :   Box< integer ,number > }  ")
	require.NoError(t, err)
	assert.True(t, Equal(Map{Key: String, Value: Generic(Name("Box"), Integer, Number)}, parsed))
}

func TestParseFunctionAsPlainName(t *testing.T) {
	parsed, err := Parse("function")
	require.NoError(t, err)
	assert.True(t, Equal(Named("function"), parsed))
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"{",
		"{string",
		"Box<",
		"Box<string",
		"function(string",
		"function(string)",
		"game.",
		"string string",
		"{string : }",
		"<string>",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidRequestError(err))
		})
	}
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature("function(string , integer):(boolean)")
	require.NoError(t, err)
	assert.True(t, sig.Equal(Sig([]Type{String, Integer}, Boolean)))

	_, err = ParseSignature("{string}")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("{") })
	assert.NotPanics(t, func() { MustParse("{integer}") })
}
