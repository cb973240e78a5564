package main

import (
	"flag"
	"os"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	WorkingDir  string
	DestDir     string
	LogLevel    string
	LogFormat   string
	StampIDs    bool
	ShowVersion bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("FSQ_CONFIG", ""),
		"Path to a JSON or YAML queue config file (env: FSQ_CONFIG)")

	flag.StringVar(&cfg.WorkingDir, "dir",
		getEnv("FSQ_DIR", "fsq-data"),
		"Queue working directory, used when no config file is given (env: FSQ_DIR)")

	flag.StringVar(&cfg.DestDir, "dest",
		getEnv("FSQ_DEST", ""),
		"Move finalized files into this directory instead of printing them (env: FSQ_DEST)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("FSQ_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: FSQ_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("FSQ_LOG_FORMAT", "text"),
		"Log format: text, json (env: FSQ_LOG_FORMAT)")

	flag.BoolVar(&cfg.StampIDs, "stamp-ids", false,
		"Wrap each input line in a JSON envelope with a generated message ID")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Parse()
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
