package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	pair := Function{Signature: Sig([]Type{Integer, String}, String, Integer)}

	tests := []struct {
		name   string
		sig    FunctionSignature
		tuple  string
		legacy string
	}{
		{
			name:   "no params single return",
			sig:    Sig(nil, String),
			tuple:  "function():(string)",
			legacy: "function():string",
		},
		{
			name:   "one param single return",
			sig:    Sig([]Type{String}, String),
			tuple:  "function(string):(string)",
			legacy: "function(string):string",
		},
		{
			name:   "nested function parameter",
			sig:    Sig([]Type{pair}, Number),
			tuple:  "function(function(integer , string):(string , integer)):(number)",
			legacy: "function(function(integer , string):any):number",
		},
		{
			name:   "no returns",
			sig:    Sig([]Type{Boolean}),
			tuple:  "function(boolean):()",
			legacy: "function(boolean):" + LegacyPlaceholder,
		},
		{
			name:   "multiple returns",
			sig:    Sig(nil, String, Integer),
			tuple:  "function():(string , integer)",
			legacy: "function():" + LegacyPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.tuple, Render(tt.sig, TupleReturn))
			assert.Equal(t, tt.legacy, Render(tt.sig, LegacyReturn))
		})
	}
}

func TestStringCompositeTypes(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"primitive", Integer, "integer"},
		{"namespaced", Named("game", "Player"), "game.Player"},
		{"generics", Generic(Name("Result"), String, Array{Element: Integer}), "Result<string, {integer}>"},
		{"array", Array{Element: String}, "{string}"},
		{"map", Map{Key: String, Value: Array{Element: Number}}, "{string : {number}}"},
		{"function value", Function{Signature: Sig([]Type{String})}, "function(string):()"},
		{"nested generics", Generic(Name("Box"), Generic(Name("Box"), Boolean)), "Box<Box<boolean>>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.typ, TupleReturn))
		})
	}
}

func TestRenderModeString(t *testing.T) {
	assert.Equal(t, "tuple", TupleReturn.String())
	assert.Equal(t, "legacy", LegacyReturn.String())
}
