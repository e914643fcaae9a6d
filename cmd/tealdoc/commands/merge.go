package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/schema"
)

// MergeCmd combines documents from several passes
var MergeCmd = &cobra.Command{
	Use:   "merge <document>...",
	Short: "Combine documents from several passes",
	Long: `Merge documents produced by separate documentation passes.

The first occurrence of each type, global and page wins. One global bound
to two different types is a conflict, as are two types with the same display
name in different namespaces unless document.allow_namespace_collisions is
set. Every input must share the major version of the result.

Examples:
  tealdoc merge core.json physics.json -o api.json
  tealdoc merge core.json physics.yaml --version 1.4.0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

var (
	mergeOutput  string
	mergeFormat  string
	mergeVersion string
)

func init() {
	MergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output file (default: stdout)")
	MergeCmd.Flags().StringVar(&mergeFormat, "format", "", "Output format: json or yaml")
	MergeCmd.Flags().StringVar(&mergeVersion, "version", "", "Version of the merged document (default: document.version from config)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	docs := make([]schema.Document, 0, len(args))
	for _, path := range args {
		doc, err := readDocument(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	version := mergeVersion
	if version == "" {
		version = cfg.Document.Version
	}
	merged, err := schema.MergeWith(schema.MergeOptions{
		Version:                  version,
		AllowNamespaceCollisions: cfg.Document.AllowNamespaceCollisions,
	}, docs...)
	if err != nil {
		return err
	}
	logger.Infow("Merged documents",
		logger.FieldCount, len(docs),
		logger.FieldNodes, len(merged.Nodes),
		logger.FieldGlobals, len(merged.Globals))

	format, err := outputFormat(mergeFormat, mergeOutput, cfg)
	if err != nil {
		return err
	}
	if err := writeDocument(cmd.OutOrStdout(), merged, format, cfg.Output.Pretty, mergeOutput); err != nil {
		return err
	}
	if mergeOutput != "" {
		pterm.Success.Printfln("Merged %d documents into %s", len(docs), mergeOutput)
	}
	return nil
}
