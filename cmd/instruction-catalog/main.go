package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/instruction-catalog/internal/catalog"
	"github.com/a3tai/instruction-catalog/internal/config"
	"github.com/a3tai/instruction-catalog/internal/mcp"
	"github.com/a3tai/instruction-catalog/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the logger for the configured mode. Logs always go
// to stderr so that stdout stays free for the MCP protocol.
func setupLogging(cfg *config.Config, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	// Stdio clients rarely surface stderr, keep it quiet unless debugging
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	if cfg.IsServerMode() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// runExtract writes the catalog of the manual to the output file
func runExtract(ctx context.Context, cfg *config.Config, service *pdf.Service, logger logrus.FieldLogger) error {
	manual, err := cfg.Manual()
	if err != nil {
		return err
	}

	records, err := service.Extract(ctx, cfg.ManualPath, manual)
	if err != nil {
		return err
	}

	if err := writeJSON(cfg.OutputPath, records); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"records": len(records), "output": cfg.OutputPath}).Info("catalog written")
	return nil
}

// writeJSON writes v to path, creating the parent directory when needed
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), config.DefaultDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// runServer serves MCP until a signal arrives or the transport ends
func runServer(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, logger logrus.FieldLogger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		logger.WithField("signal", sig.String()).Info("initiating graceful shutdown")
		cancel()
		return <-serverErrCh
	case err := <-serverErrCh:
		return err
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := pdf.NewService(cfg.MaxFileSize, cfg.Strict, logger)

	if cfg.IsExtractMode() {
		return runExtract(ctx, cfg, service, logger)
	}

	server, err := mcp.NewServer(cfg, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return runServer(ctx, cancel, server, logger)
}

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger := setupLogging(cfg, os.Stderr)
	logger.WithField("config", cfg.String()).Debug("starting")

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).WithField("type", catalog.TypeOf(err)).Error("instruction catalog failed")
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Instruction Catalog\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
