package main

import (
	"flag"
	"os"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

func parseFlags(args []string) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := flag.NewFlagSet("slicestress", flag.ContinueOnError)

	fs.StringVar(&cfg.ConfigPath, "c",
		getEnv("SLICESTRESS_CONFIG", ""),
		"Path to a YAML run configuration, empty for the default run (env: SLICESTRESS_CONFIG)")

	fs.StringVar(&cfg.LogLevel, "log-level",
		getEnv("SLICESTRESS_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: SLICESTRESS_LOG_LEVEL)")

	fs.StringVar(&cfg.LogFormat, "log-format",
		getEnv("SLICESTRESS_LOG_FORMAT", "text"),
		"Log format: json, text (env: SLICESTRESS_LOG_FORMAT)")

	fs.StringVar(&cfg.MetricsAddr, "metrics-addr",
		getEnv("SLICESTRESS_METRICS_ADDR", ""),
		"Address to serve /metrics and /healthz on, empty to disable (env: SLICESTRESS_METRICS_ADDR)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
