// tagdump prints the tags of audio files through the unified model.
//
// Usage:
//
//	tagdump [flags] <file>...
//
// Output is plain text by default, or YAML or CBOR with --output. --sum
// adds a BLAKE3 checksum of the audio payload that ignores all tags, and
// --blocks lists the FLAC metadata block chain.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/simonhull/audiotag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		configPath string
		output     string
		strict     bool
		noProps    bool
		sum        bool
		blocks     bool
		logLevel   string
		version    bool
	)

	flagSet := pflag.NewFlagSet("tagdump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flagSet.StringVarP(&output, "output", "o", "text", "output format: text, yaml or cbor")
	flagSet.BoolVar(&strict, "strict", false, "fail on any malformed tag entry")
	flagSet.BoolVar(&noProps, "no-properties", false, "skip audio properties")
	flagSet.BoolVar(&sum, "sum", false, "print a BLAKE3 checksum of the audio payload")
	flagSet.BoolVar(&blocks, "blocks", false, "list FLAC metadata blocks")
	flagSet.StringVar(&logLevel, "log-level", "warn", "level of parse records written to stderr")
	flagSet.BoolVar(&version, "version", false, "print version information")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if version {
		info := audiotag.ReadBuildInfo()
		fmt.Fprintf(stdout, "tagdump %s (%s, %s)\n", info.Version, info.Revision, info.GoVersion)
		return nil
	}

	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			return err
		}
	}

	// Flags given explicitly win over the config file
	if flagSet.Changed("output") {
		cfg.Output = output
	}
	if flagSet.Changed("strict") {
		cfg.Strict = strict
	}
	if flagSet.Changed("no-properties") {
		cfg.Properties = !noProps
	}
	if flagSet.Changed("sum") {
		cfg.Sum = sum
	}
	if flagSet.Changed("blocks") {
		cfg.Blocks = blocks
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		return errors.New("no input files (usage: tagdump [flags] <file>...)")
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := []audiotag.Option{audiotag.WithLogger(logger)}
	if cfg.Strict {
		opts = append(opts, audiotag.WithStrictParsing())
	}
	if !cfg.Properties {
		opts = append(opts, audiotag.WithoutProperties())
	}

	files, err := audiotag.OpenManyWithOptions(ctx, paths, opts...)
	if err != nil {
		return err
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	reports := make([]Report, 0, len(files))
	for _, f := range files {
		r, err := newReport(f, cfg)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}
	return render(stdout, reports, cfg.Output)
}
