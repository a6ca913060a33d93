package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidArgs   = 2
	ExitStorageError  = 3
	ExitRequestFailed = 4
)

// defaultURLs is downloaded when no URL is given on the command line, in the
// config file or in the environment.
var defaultURLs = []string{
	"http://example.com",
	"http://example.org",
	"http://example.net",
	"http://google.com",
	"http://youtube.com",
	"http://wikipedia.com",
	"http://httpforever.com/",
	"http://httpbin.org/",
	"http://old.reddit.com/",
	"http://www.slackware.com/",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "download":
		return runDownload(cmdArgs)
	case "get":
		return runGet(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: httpfetch <command> [options]

Commands:
  download  Fetch every URL concurrently and store each body as <host>.html
  get       Fetch one URL and print the parsed response

Run 'httpfetch <command> -h' for command-specific help.`)
}

// newLogger builds a production logger writing JSON lines to stderr
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
