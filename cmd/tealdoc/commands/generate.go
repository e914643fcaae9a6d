package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/manifest"
	"github.com/teranos/tealdoc/schema"
	"github.com/teranos/tealdoc/walker"
)

// GenerateCmd builds a document from a manifest
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build a document from a manifest",
	Long: `Build a type document from a YAML or TOML manifest.

The document goes to stdout unless -o is given. With --store (or
store.enabled in the configuration) the document is also recorded in the
local history when it differs from the last recorded one.

Examples:
  tealdoc generate -m api.yaml                    # JSON to stdout
  tealdoc generate -m api.yaml -o api.yaml        # YAML, picked from the extension
  tealdoc generate -m api.toml -o api.json --store`,
	RunE: runGenerate,
}

var (
	generateManifest string
	generateOutput   string
	generateFormat   string
	generatePretty   bool
	generateStore    bool
)

func init() {
	GenerateCmd.Flags().StringVarP(&generateManifest, "manifest", "m", "", "Manifest file (.yaml, .yml or .toml)")
	GenerateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default: output.path from config, else stdout)")
	GenerateCmd.Flags().StringVar(&generateFormat, "format", "", "Output format: json or yaml")
	GenerateCmd.Flags().BoolVar(&generatePretty, "pretty", false, "Indent JSON output (default: output.pretty from config)")
	GenerateCmd.Flags().BoolVar(&generateStore, "store", false, "Record the document in the local history")
	_ = GenerateCmd.MarkFlagRequired("manifest")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	passID := uuid.NewString()
	ctx := logger.WithComponent(logger.WithPassID(cmd.Context(), passID), "generate")
	log := logger.LoggerFromContext(ctx)

	start := time.Now()
	m, err := manifest.Load(generateManifest)
	if err != nil {
		return err
	}
	doc, err := manifest.Build(m, append(walkerOptions(cfg), walker.WithPassID(passID))...)
	if err != nil {
		return errors.Wrapf(err, "failed to build %s", generateManifest)
	}

	output := generateOutput
	if output == "" {
		output = cfg.Output.Path
	}
	format, err := outputFormat(generateFormat, output, cfg)
	if err != nil {
		return err
	}
	pretty := cfg.Output.Pretty
	if cmd.Flags().Changed("pretty") {
		pretty = generatePretty
	}
	if err := writeDocument(cmd.OutOrStdout(), doc, format, pretty, output); err != nil {
		return err
	}

	log.Infow("Generated document",
		logger.FieldSource, generateManifest,
		logger.FieldVersion, doc.Version,
		logger.FieldNodes, len(doc.Nodes),
		logger.FieldGlobals, len(doc.Globals),
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	if generateStore || cfg.Store.Enabled {
		s, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		rec, created, err := s.SaveIfChanged(ctx, sourceKey(generateManifest), doc)
		if err != nil {
			return err
		}
		log.Infow("History updated",
			logger.FieldRecordID, rec.ID,
			"created", created)
		if created && logger.Enabled(logger.OutputHistory) {
			pterm.Info.Printfln("Recorded %s in history", rec.ID)
		}
	}

	// The summary would corrupt a document written to stdout
	if output != "" && logger.Enabled(logger.OutputSummary) {
		if err := printSummary(doc, output); err != nil {
			return err
		}
	}
	if logger.Enabled(logger.OutputTiming) {
		pterm.Info.Printfln("Built in %s", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func printSummary(doc schema.Document, output string) error {
	var records, members, enums int
	for _, n := range doc.Nodes {
		switch g := n.(type) {
		case *schema.Record:
			records++
			members += len(g.Members())
		case *schema.Enum:
			enums++
		}
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Records", "Members", "Enums", "Globals", "Pages", "Version"},
		{strconv.Itoa(records), strconv.Itoa(members), strconv.Itoa(enums), strconv.Itoa(len(doc.Globals)), strconv.Itoa(len(doc.Pages)), doc.Version},
	}).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render summary")
	}
	pterm.Success.Printfln("Wrote %s", output)
	fmt.Println(table)
	return nil
}
