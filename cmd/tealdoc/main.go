package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/tealdoc/cmd/tealdoc/commands"
	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tealdoc",
	Short: "tealdoc - type documentation for embedded scripting APIs",
	Long: `tealdoc - type documentation for embedded scripting APIs.

tealdoc walks the records, enums and global bindings a host exposes to its
scripts and writes a versioned JSON or YAML document describing them, ready
for definition-file and documentation generators.

Available commands:
  generate - Build a document from a manifest
  check    - Fail when a committed document is out of date
  merge    - Combine documents from several passes
  watch    - Rebuild a document whenever its manifest changes
  render   - Parse and re-render a type expression
  history  - List documents stored in the local history
  config   - Show, validate or initialise configuration
  version  - Show version information

Examples:
  tealdoc generate -m api.yaml -o api.json
  tealdoc check -m api.yaml --against api.json
  tealdoc render "function(string , integer):(boolean)" --legacy`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON to stderr")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: tealdoc.toml in this or a parent directory, then ~/.tealdoc/config.toml)")

	// Add commands
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.MergeCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.RenderCmd)
	rootCmd.AddCommand(commands.HistoryCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
