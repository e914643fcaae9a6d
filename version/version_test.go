package version

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/tealdoc/schema"
)

func TestInfoString(t *testing.T) {
	dev := Info{Version: "dev", CommitHash: "abcdef1234", BuildTime: "now"}
	assert.Equal(t, "tealdoc dev (commit abcdef1234, built now)", dev.String())
	assert.Equal(t, "abcdef1", dev.Short())
	assert.False(t, dev.Tagged())

	release := Info{Version: "v1.2.0", CommitHash: "abc", BuildTime: "now"}
	assert.Equal(t, "tealdoc v1.2.0 (commit abc, built now)", release.String())
	assert.Equal(t, "abc", release.Short())
	assert.True(t, release.Tagged())

	assert.False(t, Info{Version: "1.2.0-4-gabc123"}.Tagged())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, schema.CurrentVersion, info.DocumentVersion)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
