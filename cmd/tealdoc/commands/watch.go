package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/manifest"
	"github.com/teranos/tealdoc/schema"
)

// WatchCmd rebuilds a document whenever its manifest changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild a document whenever its manifest changes",
	Long: `Build the document once, then rebuild it every time the manifest is saved.

Build errors are reported and the previous output is left in place. Stop
with Ctrl-C.

Examples:
  tealdoc watch -m api.yaml -o api.json
  tealdoc watch -m api.yaml -o api.json --store`,
	RunE: runWatch,
}

var (
	watchManifest string
	watchOutput   string
	watchFormat   string
	watchStore    bool
)

func init() {
	WatchCmd.Flags().StringVarP(&watchManifest, "manifest", "m", "", "Manifest file (.yaml, .yml or .toml)")
	WatchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output file (default: output.path from config)")
	WatchCmd.Flags().StringVar(&watchFormat, "format", "", "Output format: json or yaml")
	WatchCmd.Flags().BoolVar(&watchStore, "store", false, "Record every changed document in the local history")
	_ = WatchCmd.MarkFlagRequired("manifest")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	output := watchOutput
	if output == "" {
		output = cfg.Output.Path
	}
	format, err := outputFormat(watchFormat, output, cfg)
	if err != nil {
		return err
	}

	w, err := manifest.NewWatcher(watchManifest, walkerOptions(cfg)...)
	if err != nil {
		return err
	}
	w.SetDebounce(debounce(cfg))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w.OnRebuild(func(_ context.Context, doc schema.Document) error {
		if err := writeDocument(cmd.OutOrStdout(), doc, format, cfg.Output.Pretty, output); err != nil {
			return err
		}
		if output != "" && logger.Enabled(logger.OutputRebuilds) {
			pterm.Info.Printfln("Rebuilt %s (%d types, %d globals)", output, len(doc.Nodes), len(doc.Globals))
		}
		return nil
	})
	if watchStore || cfg.Store.Enabled {
		s, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		source := sourceKey(watchManifest)
		w.OnRebuild(func(rebuildCtx context.Context, doc schema.Document) error {
			_, _, err := s.SaveIfChanged(rebuildCtx, source, doc)
			return err
		})
	}
	w.OnError(func(err error) {
		pterm.Error.Printfln("%v", err)
	})

	// A broken manifest at startup is reported the same way as later edits
	_, _ = w.Rebuild()

	w.Start()
	logger.Infow("Watching manifest", logger.FieldFile, watchManifest)
	if output != "" {
		pterm.Info.Printfln("Watching %s, writing %s (Ctrl-C to stop)", watchManifest, output)
	}

	<-ctx.Done()
	return w.Stop()
}
