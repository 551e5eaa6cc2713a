package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/a3tai/instruction-catalog/internal/config"
	"github.com/a3tai/instruction-catalog/internal/zxbasic"
)

type options struct {
	output      string
	baseURL     string
	indexPath   string
	concurrency int
	noCache     bool
	verbose     bool
}

func parseFlags(fs *pflag.FlagSet, args []string) (*options, error) {
	opts := &options{}
	fs.StringVarP(&opts.output, "output", "o", "output/zxbasic-keywords.json", "Keyword table output file")
	fs.StringVar(&opts.baseURL, "base-url", zxbasic.DefaultBaseURL, "Site hosting the ZX BASIC documentation")
	fs.StringVar(&opts.indexPath, "index", zxbasic.DefaultIndexPath, "Path of the identifier index page")
	fs.IntVar(&opts.concurrency, "concurrency", zxbasic.DefaultConcurrency, "Keyword pages fetched in parallel")
	fs.BoolVar(&opts.noCache, "no-cache", false, "Do not fall back to the previous output file")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.output == "" {
		return nil, fmt.Errorf("output path cannot be empty")
	}
	return opts, nil
}

func run(ctx context.Context, opts *options, logger *logrus.Logger) error {
	cache := zxbasic.NewCache(nil)
	if !opts.noCache {
		var err error
		if cache, err = zxbasic.LoadCache(opts.output); err != nil {
			logger.WithError(err).Warn("ignoring unreadable keyword cache")
			cache = zxbasic.NewCache(nil)
		}
	}

	scraper := zxbasic.NewScraper(zxbasic.Options{
		BaseURL:     opts.baseURL,
		IndexPath:   opts.indexPath,
		Concurrency: opts.concurrency,
		Cache:       cache,
		Logger:      logger,
	})

	keywords, err := scraper.Scrape(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), config.DefaultDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(keywords, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}
	if err := os.WriteFile(opts.output, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.output, err)
	}

	logger.WithFields(logrus.Fields{"keywords": len(keywords), "output": opts.output}).Info("keyword table written")
	return nil
}

func main() {
	opts, err := parseFlags(pflag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.WithError(err).Error("keyword table generation failed")
		os.Exit(1)
	}
}
