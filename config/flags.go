package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagGrid        = flag.Float64("grid", 0.25, "Grid snap size for coordinates")
	flagDecimals    = flag.Int("decimals", 3, "Decimal places for coordinates")
	flagMinEdge     = flag.Float64("min-edge", 0.125, "Minimum edge length before a brush is rejected")
	flagDefaultTex  = flag.String("default-texture", "", "Replacement for missing texture names")
	flagFixPaths    = flag.Bool("fix-paths", true, "Prefix unpathed texture names with a directory")
	flagSkipProblem = flag.Bool("skip-problem", true, "Skip brushes with degenerate geometry")
	flagVerbose     = flag.Bool("verbose", false, "Log per-brush detail")
	flagLogFile     = flag.String("log-file", "", "Also log to this file (rotated)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via the
// -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config. Only flags the
// user actually set override the file values.
func applyFlags(cfg *Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "grid":
			cfg.GridSnap = *flagGrid
		case "decimals":
			cfg.CoordinateDecimals = *flagDecimals
		case "min-edge":
			cfg.MinEdgeLength = *flagMinEdge
		case "default-texture":
			cfg.DefaultTexture = *flagDefaultTex
		case "fix-paths":
			cfg.FixTexturePaths = *flagFixPaths
		case "skip-problem":
			cfg.SkipProblemBrushes = *flagSkipProblem
		case "verbose":
			cfg.Verbose = *flagVerbose
		case "log-file":
			cfg.Logging.LogFile = *flagLogFile
		}
	})
}
