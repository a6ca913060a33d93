package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nczempin/httpfetch/client"
	"github.com/nczempin/httpfetch/config"
	"github.com/nczempin/httpfetch/session"
	"github.com/nczempin/httpfetch/transport"
)

func runGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ExitOnError)

	transportKind := fs.String("transport", string(transport.KindNet), "Socket transport: net, iouring or uring")
	port := fs.Int("port", session.DefaultPort, "Destination port")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn or error")
	raw := fs.Bool("body", false, "Print only the body")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: httpfetch get [options] <url>

Fetch one URL and print the parsed headers and body to stdout.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one URL is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg := config.Config{Transport: *transportKind, LogLevel: *logLevel}
	kind, err := cfg.TransportKind()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}
	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	factory, err := transport.NewFactory(kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	logger, err := newLogger(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	defer logger.Sync()

	c := client.NewHttpClient(factory, *port, logger)
	resp, err := c.Get(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitRequestFailed
	}

	if *raw {
		fmt.Print(resp.Body)
		return ExitSuccess
	}

	fmt.Printf("%s %s %s\n", resp.StatusLine.HttpVersion, resp.StatusLine.StatusCode, resp.StatusLine.ReasonPhrase)
	fmt.Println(resp.String())
	return ExitSuccess
}
