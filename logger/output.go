package logger

// OutputCategory defines a category of CLI output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Lookup results, spectra
	OutputErrors                        // Errors with hints

	// Level 1 (-v)
	OutputLoads   // Table load summaries (records, atomic numbers)
	OutputReloads // Watcher-triggered reloads

	// Level 2 (-vv)
	OutputTiming  // Load and lookup timing
	OutputConfig  // Config values loaded/applied
	OutputMetrics // Prometheus counters after a command

	// Level 3 (-vvv)
	OutputSQL // Catalog statements

	// Level 4 (-vvvv)
	OutputDataDump // Full record contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:  VerbosityUser,
	OutputErrors:   VerbosityUser,
	OutputLoads:    VerbosityInfo,
	OutputReloads:  VerbosityInfo,
	OutputTiming:   VerbosityDebug,
	OutputConfig:   VerbosityDebug,
	OutputMetrics:  VerbosityDebug,
	OutputSQL:      VerbosityTrace,
	OutputDataDump: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:  "results",
	OutputErrors:   "errors",
	OutputLoads:    "loads",
	OutputReloads:  "reloads",
	OutputTiming:   "timing",
	OutputConfig:   "config",
	OutputMetrics:  "metrics",
	OutputSQL:      "sql",
	OutputDataDump: "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
