// Package main provides the CLI entry point for vpxconform.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vpxconform/pkg/adapters/filesink"
	"github.com/user/vpxconform/pkg/adapters/logger"
	"github.com/user/vpxconform/pkg/adapters/nullsink"
	"github.com/user/vpxconform/pkg/adapters/osfilesystem"
	"github.com/user/vpxconform/pkg/adapters/streamsink"
	"github.com/user/vpxconform/pkg/adapters/vpxdecoder"
	"github.com/user/vpxconform/pkg/batch"
	"github.com/user/vpxconform/pkg/config"
	"github.com/user/vpxconform/pkg/harness"
	"github.com/user/vpxconform/pkg/ports"
	"github.com/user/vpxconform/pkg/summarizer"
)

var version = "dev"

var errUsage = errors.New("usage: vpxconform <ivf_file> | --all")

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	code := 0

	app := &cli.App{
		Name:            "vpxconform",
		Usage:           l10n.T("Check IVF files against the libvpx decoder"),
		UsageText:       "vpxconform [options] <ivf_file> | --all",
		Description:     l10n.T("vpxconform reads IVF containers, decodes every frame with libvpx and reports PASS or FAIL."),
		Version:         version,
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelp:        true,
		HideHelpCommand: true,
		HideVersion:     true,
		Flags:           flags(),
		ExitErrHandler:  func(*cli.Context, error) {},
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return fmt.Errorf("%s\n%w", err, errUsage)
		},
		Action: func(c *cli.Context) error {
			var err error
			code, err = execute(c, stdout, stderr)
			return err
		},
	}

	if err := app.Run(args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return code
}

func flags() []cli.Flag {
	selection := l10n.T("Selection")
	decoding := l10n.T("Decoding")
	report := l10n.T("Report")
	logging := l10n.T("Logging")

	return []cli.Flag{
		&cli.BoolFlag{
			Name:     "all",
			Usage:    l10n.T("Check every asset in the configured list"),
			Category: selection,
		},
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file"),
			EnvVars:  []string{"VPXCONFORM_CONFIG"},
			Category: selection,
		},
		&cli.IntFlag{
			Name:     "threads",
			Aliases:  []string{"t"},
			Value:    4,
			Usage:    l10n.T("Decoder worker threads"),
			Category: decoding,
		},
		&cli.StringFlag{
			Name:     "mode",
			Aliases:  []string{"m"},
			Value:    string(harness.ModeDecode),
			Usage:    l10n.T("Check mode (decode, format, read)"),
			Category: decoding,
		},
		&cli.StringFlag{
			Name:     "trailing",
			Value:    string(harness.TrailingWarn),
			Usage:    l10n.T("Bytes after the last declared frame (ignore, warn, fail)"),
			Category: decoding,
		},
		&cli.StringFlag{
			Name:     "report",
			Aliases:  []string{"o"},
			Usage:    l10n.T("Write a report to this file (- for stdout)"),
			Category: report,
		},
		&cli.StringFlag{
			Name:     "report-format",
			Value:    "text",
			Usage:    l10n.T("Report format (text, json)"),
			Category: report,
		},
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Value:    "info",
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: logging,
		},
		&cli.StringFlag{
			Name:     "log-format",
			Value:    "console",
			Usage:    l10n.T("Log format (console, json)"),
			Category: logging,
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"Q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: logging,
		},
	}
}

// execute checks one file or the whole asset list and returns the exit code.
func execute(c *cli.Context, stdout, stderr io.Writer) (int, error) {
	all := c.Bool("all")
	switch {
	case all && c.NArg() == 0:
	case !all && c.NArg() == 1:
	default:
		return 1, errUsage
	}

	cfg, err := buildConfig(c)
	if err != nil {
		return 1, err
	}

	log, err := newLogger(cfg, c.Bool("quiet"), stdout, stderr)
	if err != nil {
		return 1, err
	}

	sink, err := newSink(cfg, stdout)
	if err != nil {
		return 1, err
	}

	runID := batch.NewRunID()
	h := harness.New(osfilesystem.New(), vpxdecoder.New(), sink, log, cfg.HarnessOptions(runID))

	var passed bool
	if all {
		title := "=== libvpx Decode Test Suite ==="
		switch harness.Mode(cfg.Mode) {
		case harness.ModeFormat:
			title = "=== IVF Container Format Test Suite ==="
		case harness.ModeRead:
			title = "=== libvpx IVF Read Test Suite ==="
		}
		s := batch.New(h, cfg.Assets, sink, log, batch.Options{RunID: runID, Title: title}).Run()
		passed = s.OK()
	} else {
		v := h.Run(c.Args().First())
		passed = v.Passed()
	}

	if err := sink.Close(); err != nil {
		log.Error("Failed to write report: %s", err)
		return 1, nil
	}
	if !passed {
		return 1, nil
	}
	return 0, nil
}

// buildConfig loads the optional config file and applies flag overrides.
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("threads") {
		cfg.Threads = c.Int("threads")
	}
	if c.IsSet("mode") {
		cfg.Mode = c.String("mode")
	}
	if c.IsSet("trailing") {
		cfg.TrailingData = c.String("trailing")
	}
	if c.IsSet("report") {
		cfg.Report.Path = c.String("report")
	}
	if c.IsSet("report-format") {
		cfg.Report.Format = c.String("report-format")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config, quiet bool, stdout, stderr io.Writer) (ports.Logger, error) {
	if quiet {
		return logger.NewNoop(), nil
	}

	level, err := ports.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.LogFormat == "json" {
		return logger.NewJSON(level, stderr), nil
	}
	// stdout carries only report records when the report is streamed there.
	if cfg.Report.Path == "-" {
		return logger.NewConsoleWriter(level, stderr, stderr), nil
	}
	if stdout == os.Stdout && stderr == os.Stderr {
		return logger.NewConsole(level), nil
	}
	return logger.NewConsoleWriter(level, stdout, stderr), nil
}

func newSink(cfg config.Config, stdout io.Writer) (ports.ReportSink, error) {
	switch cfg.Report.Path {
	case "":
		return nullsink.New(), nil
	case "-":
		return streamsink.New(stdout, streamsink.Format(cfg.Report.Format))
	}

	formatter, err := summarizer.NewFormatter(cfg.Report.Format,
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	)
	if err != nil {
		return nil, err
	}
	return filesink.New(cfg.Report.Path, osfilesystem.New(), formatter), nil
}
