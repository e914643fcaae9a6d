package logger

// Output controls which kinds of terminal output the CLI prints at each
// verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT is printed to the user regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Documents, errors with hints, final status and summaries
//	1 (-v)      - + Rebuild notices from watch, history updates
//	2 (-vv)     - + Timing, merged config sources
//	3 (-vvv)    - + SQL migration and store details

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputDocument OutputCategory = iota // Generated documents on stdout
	OutputErrors                         // Errors with hints
	OutputSummary                        // Summary tables and final status

	// Level 1 (-v) - Informational
	OutputRebuilds // One line per watch rebuild
	OutputHistory  // History records written

	// Level 2 (-vv) - Detailed
	OutputTiming // Pass timing
	OutputConfig // Config sources merged

	// Level 3 (-vvv) - Trace
	OutputStore // Store and migration details
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputDocument: VerbosityUser,
	OutputErrors:   VerbosityUser,
	OutputSummary:  VerbosityUser,

	OutputRebuilds: VerbosityInfo,
	OutputHistory:  VerbosityInfo,

	OutputTiming: VerbosityDebug,
	OutputConfig: VerbosityDebug,

	OutputStore: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// Enabled reports whether category is shown at the verbosity passed to Initialize.
func Enabled(category OutputCategory) bool {
	return ShouldOutput(Verbosity, category)
}
