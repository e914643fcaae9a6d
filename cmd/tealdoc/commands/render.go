package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/tealdoc/types"
)

// RenderCmd parses a type expression and prints it in canonical form
var RenderCmd = &cobra.Command{
	Use:   "render <type expression>",
	Short: "Parse and re-render a type expression",
	Long: `Parse a type expression and print its canonical rendering.

Function returns are rendered as a parenthesised tuple by default. With
--legacy a function returns a single type: its only return, or "any" when
it returns zero or several values.

Examples:
  tealdoc render "function(string,integer):(boolean)"
  tealdoc render "function():(string, integer)" --legacy
  tealdoc render "{string : {game.Player}}"`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var renderLegacy bool

func init() {
	RenderCmd.Flags().BoolVar(&renderLegacy, "legacy", false, "Render function returns as a single type")
}

func runRender(cmd *cobra.Command, args []string) error {
	t, err := types.Parse(args[0])
	if err != nil {
		return err
	}
	mode := types.TupleReturn
	if renderLegacy {
		mode = types.LegacyReturn
	}
	fmt.Fprintln(cmd.OutOrStdout(), types.Format(t, mode))
	return nil
}
