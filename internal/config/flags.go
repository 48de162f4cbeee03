package config

import "flag"

// Global flags. They go before the subcommand: cubetool -debug mesh model.bcf
var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Also write logs to this file")
	flagMaxDepth = flag.Int("max-depth", -1, "Traversal depth limit for mesh and raycast")
	flagCompress = flag.Bool("compress", false, "zstd-compress BCF output")
	flagWorkers  = flag.Int("workers", 0, "Concurrent conversions")
	flagSeed     = flag.Int64("seed", 0, "Terrain seed (0 keeps the configured seed)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Raycast.Trace = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagMaxDepth >= 0 {
		cfg.Mesh.MaxDepth = uint32(*flagMaxDepth)
		cfg.Raycast.MaxDepth = uint32(*flagMaxDepth)
	}
	if *flagCompress {
		cfg.Output.Compress = true
	}
	if *flagWorkers > 0 {
		cfg.Output.Workers = *flagWorkers
	}
	if *flagSeed != 0 {
		cfg.Terrain.Seed = *flagSeed
	}
}
