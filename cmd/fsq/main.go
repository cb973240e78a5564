// Package main implements the fsq demo binary: it tails standard input into
// a filesystem-backed queue and hands finalized files to a processor, either
// printing them or moving them into an archive directory.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/c360/fsq/config"
	"github.com/c360/fsq/processor/movefile"
	"github.com/c360/fsq/queue"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// setupLogger builds the demo's logger. Logs always go to stderr: stdout is
// reserved for the print processor, so piped output stays pure file
// contents. Text format unless JSON is asked for.
func setupLogger(level, format string) *slog.Logger {
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler).With("service", appName, "version", Version)
}

// Build information constants
const (
	Version = "0.1.0"
	appName = "fsq"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

// envelope is the JSON wrapper written around each input line when ID
// stamping is enabled.
type envelope struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func run() error {
	cliCfg := parseFlags()
	if cliCfg.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := loadConfig(cliCfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.WorkingDirectory, 0o755); err != nil {
		return fmt.Errorf("creating working directory: %w", err)
	}

	proc, err := buildProcessor(cliCfg, logger)
	if err != nil {
		return err
	}

	engine, err := queue.New(cfg, proc, queue.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("queue started",
		"dir", cfg.WorkingDirectory, "dest", cliCfg.DestDir, "stamp_ids", cliCfg.StampIDs)

	// Drain stdin into the queue until EOF or a signal.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	running := true
	for running {
		select {
		case line, ok := <-lines:
			if !ok {
				running = false
				break
			}
			msg := []byte(line)
			if cliCfg.StampIDs {
				msg, err = json.Marshal(envelope{ID: uuid.NewString(), Body: line})
				if err != nil {
					logger.Error("stamping message failed", "error", err)
					continue
				}
			}
			if err := engine.Push(msg); err != nil {
				logger.Error("push failed", "error", err)
			}
		case sig := <-signals:
			logger.Info("signal received, draining", "signal", sig.String())
			running = false
		}
	}

	// Flush whatever is buffered, then stop.
	engine.ForceProcessing(true)
	engine.Shutdown()
	logger.Info("queue stopped")
	return nil
}

func loadConfig(cliCfg *CLIConfig) (config.Config, error) {
	if cliCfg.ConfigPath != "" {
		return config.Load(cliCfg.ConfigPath)
	}
	cfg := config.DefaultConfig()
	cfg.WorkingDirectory = cliCfg.WorkingDir
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildProcessor picks the delivery side: move files into an archive
// directory when one is given, print them otherwise.
func buildProcessor(cliCfg *CLIConfig, logger *slog.Logger) (queue.Processor, error) {
	if cliCfg.DestDir != "" {
		if err := os.MkdirAll(cliCfg.DestDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating destination directory: %w", err)
		}
		return movefile.New(cliCfg.DestDir, movefile.WithLogger(logger)), nil
	}

	return queue.ProcessorFunc(func(file queue.FileInfo, _ int64) queue.ProcessingResult {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			logger.Error("reading finalized file failed", "name", file.Name, "error", err)
			return queue.FailureNeedRetry
		}
		fmt.Printf("=== %s (%d bytes)\n%s", file.Name, file.Size, data)
		return queue.Success
	}), nil
}
