package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazu/heft/pkg/calc"
	"github.com/chazu/heft/pkg/config"
	"github.com/chazu/heft/pkg/engine"
	"github.com/chazu/heft/pkg/logging"
	"github.com/chazu/heft/pkg/mass"
)

// errFailed signals a run that already reported its failure.
var errFailed = errors.New("calculation failed")

type rootFlags struct {
	variant    string
	selection  []string
	configPath string
	units      string
	precision  int
	logLevel   string
	timeout    time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "heft: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:           "heft [flags] <design.lisp>",
		Short:         "Report the mass of a design",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args[0], stdout, stderr)
		},
	}

	names := make([]string, 0, len(calc.Variants()))
	for _, v := range calc.Variants() {
		names = append(names, string(v))
	}
	fl := cmd.Flags()
	fl.StringVar(&f.variant, "variant", string(calc.VariantAll), "calculation variant: "+strings.Join(names, "|"))
	fl.StringArrayVar(&f.selection, "select", nil, "selected entity as name or name:face (repeatable)")
	fl.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fl.StringVar(&f.units, "units", "", "override the design length unit (mm, cm, m, in, ft)")
	fl.IntVar(&f.precision, "precision", mass.DefaultPrecision, "decimals printed for masses (4, 6 or 8)")
	fl.StringVar(&f.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fl.DurationVar(&f.timeout, "timeout", engine.EvalTimeout, "limit for evaluating the design source")
	return cmd
}

// loadConfig reads the config file, if any, and applies explicitly set flags
// on top of it.
func loadConfig(cmd *cobra.Command, f rootFlags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	fl := cmd.Flags()
	if fl.Changed("variant") || cfg.Variant == "" {
		cfg.Variant = f.variant
	}
	if fl.Changed("units") {
		cfg.Units = f.units
	}
	if fl.Changed("precision") {
		cfg.Precision = f.precision
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fl.Changed("timeout") {
		cfg.EvalTimeout = f.timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, f rootFlags, path string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	variant, err := calc.ParseVariant(cfg.Variant)
	if err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	app := NewApp(WithLogger(logger), WithEvalTimeout(cfg.EvalTimeout))
	res := app.CalculateContext(cmd.Context(), string(source), CalcOptions{
		Variant:   variant,
		Selection: f.selection,
		Units:     cfg.Units,
		Table:     table,
		Options:   mass.Options{Precision: cfg.Precision},
	})

	for _, w := range res.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w.Message)
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			if e.Line > 0 {
				fmt.Fprintf(stderr, "%s:%d: %s\n", path, e.Line, e.Message)
			} else {
				fmt.Fprintf(stderr, "%s: %s\n", path, e.Message)
			}
		}
		return errFailed
	}
	if !res.Result.OK() {
		fmt.Fprintf(stderr, "Failed:\n%s\n", failureText(res.Result))
		return errFailed
	}
	fmt.Fprintln(stdout, res.Text)
	return nil
}

// failureText is the message, or the stack detail for host failures.
func failureText(r calc.Result) string {
	if r.Failure == nil {
		return "no report produced"
	}
	if r.Failure.Detail != "" {
		return r.Failure.Detail
	}
	return r.Failure.Message
}
