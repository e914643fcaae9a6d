package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/manifest"
	"github.com/teranos/tealdoc/store"
)

// CheckCmd fails when a committed document no longer matches its manifest
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Fail when a committed document is out of date",
	Long: `Rebuild the document for a manifest and compare it with an existing one.

The comparison ignores formatting: a YAML document matches a JSON build
when both describe the same types. Exits non-zero when they differ.

Examples:
  tealdoc check -m api.yaml --against docs/api.json`,
	RunE: runCheck,
}

var (
	checkManifest string
	checkAgainst  string
)

func init() {
	CheckCmd.Flags().StringVarP(&checkManifest, "manifest", "m", "", "Manifest file (.yaml, .yml or .toml)")
	CheckCmd.Flags().StringVar(&checkAgainst, "against", "", "Existing document (.json, .yaml or .yml)")
	_ = CheckCmd.MarkFlagRequired("manifest")
	_ = CheckCmd.MarkFlagRequired("against")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := manifest.Load(checkManifest)
	if err != nil {
		return err
	}
	built, err := manifest.Build(m, walkerOptions(cfg)...)
	if err != nil {
		return errors.Wrapf(err, "failed to build %s", checkManifest)
	}
	existing, err := readDocument(checkAgainst)
	if err != nil {
		return err
	}

	want, _, err := store.Digest(built)
	if err != nil {
		return err
	}
	got, _, err := store.Digest(existing)
	if err != nil {
		return err
	}
	logger.Debugw("Compared documents", "built", want, "existing", got)

	if want != got {
		return errors.WithHintf(
			errors.NewConflictError("%s is out of date with %s", checkAgainst, checkManifest),
			"run 'tealdoc generate -m %s -o %s' to refresh it", checkManifest, checkAgainst,
		)
	}
	pterm.Success.Printfln("%s is up to date", checkAgainst)
	return nil
}
