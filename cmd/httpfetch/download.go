package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/nczempin/httpfetch/config"
	"github.com/nczempin/httpfetch/download"
	"github.com/nczempin/httpfetch/persist"
	"github.com/nczempin/httpfetch/transport"
)

func runDownload(args []string) int {
	fs := flag.NewFlagSet("download", flag.ExitOnError)

	configPath := fs.String("config", "", "YAML config file")
	policy := fs.String("policy", "", "Completion policy: nowait, barrier or joinall (default barrier)")
	transportKind := fs.String("transport", "", "Socket transport: net, iouring or uring (default net)")
	output := fs.String("output", "", "Output directory or bucket URL (default downloads)")
	port := fs.Int("port", 0, "Destination port (default 80)")
	scratch := fs.Int("scratch-size", 0, "Size of the per-read buffer in bytes (default 1024)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error (default info)")
	report := fs.String("report", "", "Write a JSON report to this file, or - for stdout")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: httpfetch download [options] [url...]

Download every URL over its own connection, all at once, and store each
body as <host>.html. Settings are read from the config file, then from
HTTPFETCH_* environment variables, then from flags.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = loaded
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	cfg = cfg.Merge(config.Config{
		URLs:        fs.Args(),
		Policy:      *policy,
		Transport:   *transportKind,
		Output:      *output,
		Port:        *port,
		ScratchSize: *scratch,
		LogLevel:    *logLevel,
		Report:      *report,
	})
	if len(cfg.URLs) == 0 {
		cfg.URLs = defaultURLs
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return downloadAll(ctx, cfg)
}

func downloadAll(ctx context.Context, cfg config.Config) int {
	level, _ := cfg.Level()
	logger, err := newLogger(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	defer logger.Sync()

	policy, _ := cfg.CompletionPolicy()
	kind, _ := cfg.TransportKind()

	factory, err := transport.NewFactory(kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	store, err := openPersister(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	orch := download.New(factory, download.Options{
		Policy:      policy,
		Port:        cfg.Port,
		ScratchSize: cfg.ScratchSize,
		Persister:   store,
		Logger:      logger,
	})

	results := orch.Download(ctx, cfg.URLs)

	if policy == download.NoWait {
		// sessions may still be writing, so the bucket stays open
		logger.Warn("not waiting for downloads to complete", zap.Int("count", len(cfg.URLs)))
		return ExitSuccess
	}
	defer store.Close()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info("run summary",
		zap.Int("downloads", len(results)),
		zap.Int("with_errors", failed),
		zap.String("output", cfg.Output),
	)

	if cfg.Report != "" {
		if err := writeReport(cfg.Report, results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return ExitGeneralError
		}
	}

	return ExitSuccess
}

func openPersister(ctx context.Context, cfg config.Config) (*persist.BlobPersister, error) {
	if cfg.OutputIsBucketURL() {
		return persist.Open(ctx, cfg.Output)
	}
	return persist.OpenDir(cfg.Output)
}

func writeReport(path string, results []download.Result) error {
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := download.WriteReport(f, results); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return download.WriteReport(os.Stdout, results)
}
