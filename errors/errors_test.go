package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestSentinelConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		msg   string
	}{
		{"not found", NewNotFoundError("type %s", "Example"), IsNotFoundError, "type Example"},
		{"invalid", NewInvalidRequestError("bad expression %q", "{"), IsInvalidRequestError, `bad expression "{"`},
		{"conflict", NewConflictError("global %s", "Example"), IsConflictError, "global Example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, tt.check(tt.err))
			assert.Equal(t, tt.msg, tt.err.Error())

			wrapped := Wrap(tt.err, "outer")
			assert.True(t, tt.check(wrapped), "marker must survive wrapping")
		})
	}
}

func TestSentinelChecksRejectOthers(t *testing.T) {
	err := New("plain")
	assert.False(t, IsNotFoundError(err))
	assert.False(t, IsInvalidRequestError(err))
	assert.False(t, IsConflictError(err))
	assert.False(t, IsConflictError(nil))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestAssertionFailure(t *testing.T) {
	err := AssertionFailedf("empty qualified name for %T", struct{}{})
	assert.True(t, HasAssertionFailure(err))
	assert.False(t, HasAssertionFailure(New("ordinary")))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}

func ExampleWrap() {
	baseErr := New("unexpected token")
	err := Wrap(baseErr, "failed to parse field type")
	fmt.Println(err)
	// Output: failed to parse field type: unexpected token
}
