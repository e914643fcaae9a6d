package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tealdoc/config"
	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/schema"
	"github.com/teranos/tealdoc/types"
)

const playerManifest = `
records:
  - name: Player
    namespace: game
    user_data: true
    fields:
      - name: name
        type: string
    methods:
      - name: greet
        signature: "function(string):(string)"
globals:
  - name: player
    type: game.Player
    user_data: true
`

var (
	rootOnce sync.Once
	testRoot *cobra.Command
)

// root mirrors the binary's command tree. Subcommands can only have one
// parent, so every test shares it.
func root() *cobra.Command {
	rootOnce.Do(func() {
		testRoot = &cobra.Command{Use: "tealdoc", SilenceUsage: true, SilenceErrors: true}
		testRoot.PersistentFlags().String("config", "", "")
		testRoot.AddCommand(GenerateCmd, CheckCmd, MergeCmd, RenderCmd, HistoryCmd, ConfigCmd, VersionCmd)
	})
	return testRoot
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := root()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// isolate points HOME at a temp dir and writes a config file there.
func isolate(t *testing.T) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("HOME", dir)

	cfg := config.Default()
	cfg.Output.Pretty = false
	cfg.Store.Path = filepath.Join(dir, "history.db")
	cfgPath = filepath.Join(dir, "tealdoc.toml")
	require.NoError(t, config.Save(cfgPath, cfg))
	return dir, cfgPath
}

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, "render", "function(string,integer):(boolean)", "--legacy=false")
	require.NoError(t, err)
	assert.Equal(t, "function(string , integer):(boolean)\n", out)

	out, err = execute(t, "render", "function():(string, integer)", "--legacy")
	require.NoError(t, err)
	assert.Equal(t, "function():any\n", out)

	_, err = execute(t, "render", "{string", "--legacy=false")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestGenerateCheckAndHistory(t *testing.T) {
	dir, cfgPath := isolate(t)
	manifestPath := writeManifest(t, dir, playerManifest)
	outPath := filepath.Join(dir, "out", "api.json")

	_, err := execute(t, "generate", "--config", cfgPath, "-m", manifestPath, "-o", outPath, "--format", "", "--store")
	require.NoError(t, err)

	doc, err := readDocument(outPath)
	require.NoError(t, err)
	_, ok := doc.Lookup(types.Name("game", "Player"))
	assert.True(t, ok)
	_, ok = doc.Global("player")
	assert.True(t, ok)

	_, err = execute(t, "check", "--config", cfgPath, "-m", manifestPath, "--against", outPath)
	require.NoError(t, err)

	writeManifest(t, dir, strings.Replace(playerManifest, "name: name", "name: nickname", 1))
	_, err = execute(t, "check", "--config", cfgPath, "-m", manifestPath, "--against", outPath)
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Contains(t, errors.FlattenHints(err), "tealdoc generate")

	out, err := execute(t, "history", "--config", cfgPath, "-m", manifestPath, "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, schema.CurrentVersion)
}

func TestGenerateToStdout(t *testing.T) {
	dir, cfgPath := isolate(t)
	manifestPath := writeManifest(t, dir, playerManifest)

	out, err := execute(t, "generate", "--config", cfgPath, "-m", manifestPath, "-o", "", "--format", "yaml", "--store=false")
	require.NoError(t, err)

	doc, err := schema.ParseDocument([]byte(out), schema.FormatYAML)
	require.NoError(t, err)
	assert.Len(t, doc.Nodes, 1)
}

func TestMergeCommand(t *testing.T) {
	dir, cfgPath := isolate(t)

	write := func(name string, doc schema.Document) string {
		data, err := doc.JSON(false)
		require.NoError(t, err)
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0644))
		return path
	}
	a := write("a.json", schema.Document{
		Version: "1.0.0",
		Nodes:   []schema.TypeGenerator{schema.NewEnum(types.Name("A"), "X")},
	})
	b := write("b.json", schema.Document{
		Version: "1.0.0",
		Nodes:   []schema.TypeGenerator{schema.NewEnum(types.Name("B"), "Y")},
	})

	outPath := filepath.Join(dir, "merged.json")
	_, err := execute(t, "merge", "--config", cfgPath, a, b, "-o", outPath, "--format", "", "--version", "1.1.0")
	require.NoError(t, err)

	merged, err := readDocument(outPath)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", merged.Version)
	assert.Len(t, merged.Nodes, 2)

	_, err = execute(t, "merge", "--config", cfgPath, a, "-o", outPath, "--format", "", "--version", "2.0.0")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestMergeFollowsNamespaceCollisionSetting(t *testing.T) {
	dir, cfgPath := isolate(t)

	data, err := schema.Document{
		Version: "1.0.0",
		Nodes: []schema.TypeGenerator{
			schema.NewEnum(types.Name("ui", "Button")),
			schema.NewEnum(types.Name("input", "Button")),
		},
	}.JSON(false)
	require.NoError(t, err)
	docPath := filepath.Join(dir, "buttons.json")
	require.NoError(t, os.WriteFile(docPath, data, 0644))
	outPath := filepath.Join(dir, "merged.json")

	_, err = execute(t, "merge", "--config", cfgPath, docPath, "-o", outPath, "--format", "", "--version", "")
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))

	cfg := config.Default()
	cfg.Document.AllowNamespaceCollisions = true
	allowPath := filepath.Join(dir, "allow.toml")
	require.NoError(t, config.Save(allowPath, cfg))

	_, err = execute(t, "merge", "--config", allowPath, docPath, "-o", outPath, "--format", "", "--version", "")
	require.NoError(t, err)
	merged, err := readDocument(outPath)
	require.NoError(t, err)
	assert.Len(t, merged.Nodes, 2)
}

func TestReadDocumentMissing(t *testing.T) {
	_, err := readDocument(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestOutputFormat(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		flag, path string
		want       schema.Format
	}{
		{"yaml", "out.json", schema.FormatYAML},
		{"", "out.yml", schema.FormatYAML},
		{"", "out.json", schema.FormatJSON},
		{"", "", schema.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s|%s", tt.flag, tt.path), func(t *testing.T) {
			got, err := outputFormat(tt.flag, tt.path, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := outputFormat("xml", "", cfg)
	assert.Error(t, err)
}

func TestConfigInitAndValidate(t *testing.T) {
	dir, _ := isolate(t)
	path := filepath.Join(dir, "nested", "tealdoc.toml")

	_, err := execute(t, "config", "init", path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, schema.CurrentVersion, cfg.Document.Version)

	_, err = execute(t, "config", "validate", "--config", path)
	require.NoError(t, err)

	out, err := execute(t, "config", "show", "--config", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Format": "json"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"document_version"`)
}
