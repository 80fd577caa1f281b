package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/autobrr/go-dmi/internal/config"
	"github.com/autobrr/go-dmi/internal/dmi"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// Run executes dmiinfo with args (including the program name) and
// returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	flagSet := pflag.NewFlagSet("dmiinfo", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var (
		output     string
		configPath string
		lenient    bool
		chunks     bool
		maxBytes   int64
		logLevel   string
		version    bool
		help       bool
	)
	defaults := config.Default()
	flagSet.StringVarP(&output, "output", "o", defaults.Output, "output format: text, json, yaml, cbor, xml, csv, html")
	flagSet.StringVar(&configPath, "config", "", "read settings from a .yaml, .yml, .json or .jsonc file")
	flagSet.BoolVar(&lenient, "lenient", defaults.Lenient, "skip malformed text chunks instead of failing")
	flagSet.BoolVar(&chunks, "chunks", defaults.Chunks, "list PNG chunks instead of decoding metadata")
	flagSet.Int64Var(&maxBytes, "max-description-bytes", defaults.MaxDescriptionBytes, "largest decoded Description accepted")
	flagSet.StringVar(&logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	flagSet.BoolVar(&version, "version", false, "print version and exit")
	flagSet.BoolVarP(&help, "help", "h", false, "show help")

	if len(args) > 0 {
		args = args[1:]
	}
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, flagSet)
			return exitOK
		}
		fmt.Fprintf(stderr, "dmiinfo: %v\n", err)
		printHelp(stderr, flagSet)
		return exitUsage
	}
	if help {
		printHelp(stdout, flagSet)
		return exitOK
	}
	if version {
		Version(stdout)
		return exitOK
	}

	cfg := defaults
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "dmiinfo: %v\n", err)
			return exitUsage
		}
		cfg = loaded
	}
	if flagSet.Changed("output") {
		cfg.Output = output
	}
	if flagSet.Changed("lenient") {
		cfg.Lenient = lenient
	}
	if flagSet.Changed("chunks") {
		cfg.Chunks = chunks
	}
	if flagSet.Changed("max-description-bytes") {
		cfg.MaxDescriptionBytes = maxBytes
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "dmiinfo: %v\n", err)
		return exitUsage
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "dmiinfo: no input files")
		printHelp(stderr, flagSet)
		return exitUsage
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cfg.Chunks {
		return listChunks(stdout, stderr, logger, cfg.Format(), paths)
	}
	return analyze(stdout, stderr, logger, cfg, paths)
}

func analyze(stdout, stderr io.Writer, logger *slog.Logger, cfg *config.Config, paths []string) int {
	reports, failed := dmi.AnalyzeFiles(paths, cfg.Options(logger))
	for _, report := range reports {
		if report.Failed() {
			logger.Error("analysis failed", "path", report.Ref, "kind", dmi.KindOf(report.Err), "error", report.Err)
		}
	}
	if err := dmi.WriteReports(stdout, cfg.Format(), reports); err != nil {
		fmt.Fprintf(stderr, "dmiinfo: writing output: %v\n", err)
		return exitFailed
	}
	if failed > 0 {
		return exitFailed
	}
	return exitOK
}

func listChunks(stdout, stderr io.Writer, logger *slog.Logger, format dmi.Format, paths []string) int {
	listings := make([]dmi.ChunkListing, 0, len(paths))
	failed := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("reading file", "path", path, "error", err)
			listings = append(listings, dmi.ChunkListing{
				Ref:    path,
				Chunks: []dmi.ChunkInfo{},
				Error:  &dmi.ErrorDocument{Kind: dmi.KindIO, Message: err.Error()},
			})
			failed++
			continue
		}
		listing := dmi.NewChunkListing(path, data)
		if listing.Error != nil {
			logger.Error("listing chunks", "path", path, "kind", listing.Error.Kind, "error", listing.Error.Message)
			failed++
		}
		listings = append(listings, listing)
	}
	if err := dmi.WriteChunkListings(stdout, format, listings); err != nil {
		fmt.Fprintf(stderr, "dmiinfo: writing output: %v\n", err)
		return exitFailed
	}
	if failed > 0 {
		return exitFailed
	}
	return exitOK
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `dmiinfo reads the metadata embedded in BYOND DMI icon files.

Usage:
  dmiinfo [flags] FILE...

Examples:
  # Summarize an icon
  dmiinfo icons/mob.dmi

  # Machine readable output for several icons
  dmiinfo -o json icons/*.dmi

  # Show the PNG chunk table
  dmiinfo --chunks icons/mob.dmi

Exit status is 0 when every file was read, 1 when any file failed
and 2 for usage or configuration errors.

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
	flagSet.SetOutput(io.Discard)
}
