package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/heft/pkg/calc"
	"github.com/chazu/heft/pkg/design"
	"github.com/chazu/heft/pkg/engine"
	"github.com/chazu/heft/pkg/kernel"
	"github.com/chazu/heft/pkg/kernel/sdfx"
	"github.com/chazu/heft/pkg/logging"
	"github.com/chazu/heft/pkg/mass"
)

// App ties the evaluator, the geometry kernel and the calculator together.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	logger *zap.Logger
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithEvalTimeout bounds each evaluation of design source.
func WithEvalTimeout(d time.Duration) Option {
	return func(a *App) { a.engine = engine.NewEngine(engine.WithTimeout(d)) }
}

// WithKernel replaces the sdfx kernel.
func WithKernel(k kernel.Kernel) Option {
	return func(a *App) { a.kernel = k }
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// CalcOptions are the per-run settings.
type CalcOptions struct {
	Variant calc.Variant
	// Selection holds entity paths: "part", "assembly" or "part:face".
	Selection []string
	// Units overrides the unit declared by the design when non-empty.
	Units string
	Table mass.MaterialTable
	mass.Options
}

// CalcResult is the outcome of Calculate. When Errors is non-empty the
// design could not be evaluated and Result is the zero value.
type CalcResult struct {
	RunID    string          `json:"runId"`
	Text     string          `json:"text"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
	Result   calc.Result     `json:"-"`
}

// OK reports whether a mass report was produced.
func (r CalcResult) OK() bool {
	return len(r.Errors) == 0 && r.Result.OK()
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp(opts ...Option) *App {
	a := &App{
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Calculate evaluates source and reports the mass of the resulting design.
func (a *App) Calculate(source string, opts CalcOptions) CalcResult {
	return a.CalculateContext(context.Background(), source, opts)
}

// CalculateContext is Calculate with evaluation bounded by ctx.
func (a *App) CalculateContext(ctx context.Context, source string, opts CalcOptions) CalcResult {
	logger, runID := logging.WithRun(a.logger)
	result := CalcResult{
		RunID:    runID,
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate and validate the source.
	er, err := a.engine.Run(ctx, source)
	if err != nil {
		logger.Error("evaluation aborted", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, w := range er.Warnings {
		logger.Debug("validation warning", zap.String("warning", w.String()))
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.String()})
	}
	if len(er.Errors) > 0 {
		for _, e := range er.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		logger.Info("design has errors", zap.Int("errors", len(er.Errors)))
		return result
	}

	// Step 2: Build the component tree.
	d, err := design.Build(er.Graph, a.kernel)
	if err != nil {
		logger.Error("design build failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: "build failed: " + err.Error()})
		return result
	}

	// Step 3: Run the calculation.
	units := opts.Units
	if units == "" {
		units = d.Units()
	}
	result.Result = calc.Run(calc.Request{
		Root:      d.Root(),
		Selection: d.Select(opts.Selection...),
		Variant:   opts.Variant,
		Unit:      mass.UnitModeFromLength(units),
		Table:     opts.Table,
		Options:   opts.Options,
		Logger:    logger,
	})
	result.Text = result.Result.Text()
	return result
}
