package logger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldOutput(t *testing.T) {
	tests := []struct {
		category  OutputCategory
		verbosity int
		want      bool
	}{
		{OutputDocument, VerbosityUser, true},
		{OutputSummary, VerbosityUser, true},
		{OutputRebuilds, VerbosityUser, false},
		{OutputRebuilds, VerbosityInfo, true},
		{OutputTiming, VerbosityInfo, false},
		{OutputTiming, VerbosityDebug, true},
		{OutputStore, VerbosityDebug, false},
		{OutputStore, VerbosityTrace, true},
		{OutputCategory(99), VerbosityDebug, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("category%d/v%d", tt.category, tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldOutput(tt.verbosity, tt.category))
		})
	}
}

func TestEnabledFollowsInitialize(t *testing.T) {
	t.Cleanup(func() { Verbosity = VerbosityUser })

	Verbosity = VerbosityUser
	assert.False(t, Enabled(OutputRebuilds))

	Verbosity = VerbosityInfo
	assert.True(t, Enabled(OutputRebuilds))
}
