package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/store"
)

// HistoryCmd lists documents recorded in the local history
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List documents stored in the local history",
	Long: `List the documents recorded for a manifest by 'generate --store' or
'watch --store', newest first.

Examples:
  tealdoc history -m api.yaml
  tealdoc history -m api.yaml --limit 5
  tealdoc history show 3f2c9a1e-...`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var (
	historyManifest string
	historyLimit    int
	historyFormat   string
)

func init() {
	HistoryCmd.Flags().StringVarP(&historyManifest, "manifest", "m", "", "Manifest the documents were built from")
	HistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of documents to list (0 for all)")
	_ = HistoryCmd.MarkFlagRequired("manifest")

	historyShowCmd.Flags().StringVar(&historyFormat, "format", "", "Output format: json or yaml")
	HistoryCmd.AddCommand(historyShowCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := s.List(cmd.Context(), sourceKey(historyManifest), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		pterm.Info.Printfln("No stored documents for %s", historyManifest)
		return nil
	}

	data := pterm.TableData{{"ID", "Created", "Version", "Nodes", "Globals", "Digest"}}
	for _, rec := range records {
		data = append(data, []string{
			rec.ID,
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Version,
			strconv.Itoa(rec.NodeCount),
			strconv.Itoa(rec.GlobalCount),
			shortDigest(rec),
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render history")
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	format, err := outputFormat(historyFormat, "", cfg)
	if err != nil {
		return err
	}
	return writeDocument(cmd.OutOrStdout(), rec.Document, format, cfg.Output.Pretty, "")
}

func shortDigest(rec store.Record) string {
	if len(rec.Digest) > 12 {
		return rec.Digest[:12]
	}
	return rec.Digest
}
