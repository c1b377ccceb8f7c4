package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"

	"github.com/subscope/subscope/pkg/config"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"SUBSCOPE_CONFIG" description:"configuration file (optional)"`

	Collect  CollectCmd  `command:"collect" description:"collect posts of boards into a CSV report"`
	Serve    ServeCmd    `command:"serve" description:"run web UI and API"`
	Keywords KeywordsCmd `command:"keywords" description:"manage topic keywords"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// commonOpts are shared by all commands, set before a command is executed
type commonOpts struct {
	ctx     context.Context
	cfg     *config.Config
	version string
	debug   bool
	out     io.Writer
}

// commonCommander is a command accepting common options
type commonCommander interface {
	flags.Commander
	setCommon(c commonOpts)
}

func (c *commonOpts) setCommon(v commonOpts) { *c = v }

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true

	var cmd flags.Commander
	var cmdArgs []string
	parser.CommandHandler = func(c flags.Commander, args []string) error {
		cmd, cmdArgs = c, args
		return nil
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if cmd == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, &opts, cmd, cmdArgs)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and executes the selected command
func run(ctx context.Context, opts *Opts, cmd flags.Commander, args []string) error {
	c, ok := cmd.(commonCommander)
	if !ok {
		return errors.New("unsupported command")
	}

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	setupLog(opts.Debug, opts.NoColor || !isTerminal(os.Stdout), cfg.Secrets()...)

	c.setCommon(commonOpts{ctx: ctx, cfg: cfg, version: revision, debug: opts.Debug, out: os.Stdout})
	return c.Execute(args)
}

// loadConfig reads config file if set, otherwise returns defaults
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLog(dbg, noColor bool, secs ...string) {
	var logOpts []lgr.Option
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
