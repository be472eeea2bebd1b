// Package orchestrator runs the benchmark script once per configuration,
// mirroring its output to a per-run log and summarizing the samples it
// leaves behind.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"pgtpch/internal/benchmark"
	"pgtpch/internal/config"
	pgerrors "pgtpch/internal/errors"
	"pgtpch/internal/history"
	"pgtpch/internal/notify"
	"pgtpch/internal/telemetry"
	"strings"
	"time"
)

const (
	statusSucceeded       = history.StatusSucceeded
	statusFailed          = history.StatusFailed
	statusAnalysisAborted = history.StatusAnalysisAborted
	statusInterrupted     = history.StatusInterrupted
	statusSkipped         = "skipped"
)

type Orchestrator struct {
	Runner      benchmark.Runner
	Store       history.Store
	Metrics     *telemetry.Metrics
	Notifier    notify.Notifier
	ResultsRoot string
	Stdout      io.Writer
	// Timeout bounds each script invocation; zero means no limit.
	Timeout time.Duration
}

func New(runner benchmark.Runner, resultsRoot string) *Orchestrator {
	return &Orchestrator{
		Runner:      runner,
		Store:       history.NopStore{},
		Notifier:    notify.Nop{},
		ResultsRoot: resultsRoot,
		Stdout:      os.Stdout,
	}
}

// Run executes every override merged over defaults, in order. Invalid
// configurations are skipped. It stops early only when ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, logger *slog.Logger, defaults config.Conf, overrides []config.Conf) (Summary, error) {
	var summary Summary
	logger.Info("Starting benchmark batch", "configurations", len(overrides), "results", o.ResultsRoot)

	for _, override := range overrides {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		merged := config.Merge(defaults, override)
		rc, err := benchmark.NewRunConf(merged, o.ResultsRoot)
		if err != nil {
			o.skip(logger, override, err)
			summary.add(statusSkipped)
			o.Metrics.TrackRun(telemetry.OutcomeSkipped)
			continue
		}

		status := o.runOne(ctx, logger, rc)
		summary.add(status)

		if status == statusInterrupted {
			return summary, ctx.Err()
		}
	}

	logger.Info("Benchmark batch finished", "summary", summary.String())
	if err := o.Notifier.Notify(ctx, notify.EventComplete, summary.String()); err != nil {
		logger.Warn("Failed to send notification", "error", err)
	}
	return summary, nil
}

func (o *Orchestrator) skip(logger *slog.Logger, override config.Conf, err error) {
	if key, ok := pgerrors.IsMissingKey(err); ok {
		fmt.Fprintf(o.Stdout, "The key %q is missing, skipping this conf:\n%s\n", key, override)
		logger.Warn("Skipping configuration", "missing_key", key, "conf", override)
		return
	}
	fmt.Fprintf(o.Stdout, "Invalid configuration, skipping this conf: %v\n%s\n", err, override)
	logger.Warn("Skipping configuration", "error", err, "conf", override)
}

// runOne runs a single configuration and returns its status.
func (o *Orchestrator) runOne(ctx context.Context, logger *slog.Logger, rc *benchmark.RunConf) string {
	logger = logger.With("testname", rc.TestName, "query", rc.Query, "scale", rc.Scale)
	rec := history.NewRunRecord(rc.TestName, rc.Query, rc.Scale)
	rec.ResultDir = rc.ResultDir
	rec.Expected = rc.Runs()

	if err := os.MkdirAll(rc.ResultDir, 0755); err != nil {
		logger.Error("Failed to create result directory", "error", err)
		return o.finish(logger, &rec, statusFailed)
	}
	logFile, err := os.Create(rc.LogPath())
	if err != nil {
		logger.Error("Failed to create run log", "error", err)
		return o.finish(logger, &rec, statusFailed)
	}
	defer logFile.Close()

	tee := benchmark.NewTee(logFile, o.Stdout)
	_ = tee.Printf("Running\n")
	_ = tee.Print(strings.Join(o.Runner.CommandLine(rc), " ") + "\n")

	runCtx := ctx
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	code, err := o.Runner.Run(runCtx, rc, tee)
	rec.ExitCode = code
	rec.Duration = time.Since(rec.StartedAt)
	o.Metrics.ObserveRunDuration(rec.Duration)

	status := statusFailed
	switch {
	case ctx.Err() != nil:
		status = statusInterrupted
		_ = tee.Printf("Interrupted: %v\n", ctx.Err())
	case err != nil:
		logger.Error("Benchmark script failed", "error", err)
		_ = tee.Printf("%v\n", err)
	case code == 0:
		status = o.analyze(logger, rc, tee, &rec)
	}

	_ = tee.Printf("%s ended with retcode %d\n", o.Runner.Name(), code)
	return o.finish(logger, &rec, status)
}

// analyze summarizes the samples of a successful run into tee.
func (o *Orchestrator) analyze(logger *slog.Logger, rc *benchmark.RunConf, tee *benchmark.Tee, rec *history.RunRecord) string {
	a, err := benchmark.Analyze(rc)
	if a != nil {
		rec.Found = a.Found
	}

	switch {
	case pgerrors.IsSampleCount(err):
		_ = tee.Print(err.Error() + "\n")
		return statusAnalysisAborted
	case err != nil:
		logger.Error("Failed to analyze results", "error", err)
		_ = tee.Printf("Failed to analyze results: %v\n", err)
		return statusAnalysisAborted
	}

	rec.Mean = a.Mean
	_ = tee.Printf("Mean exec time:\n")
	_ = tee.Print(fmt.Sprintf("%.2f\n", a.Mean))
	if a.HasCI {
		rec.CILow, rec.CIHigh = a.CI.Low, a.CI.High
		_ = tee.Printf("0.95 confidence interval, assuming T-student distribution:\n")
		_ = tee.Print(a.CI.String() + "\n")
	}
	return statusSucceeded
}

// finish records the run in history and metrics.
func (o *Orchestrator) finish(logger *slog.Logger, rec *history.RunRecord, status string) string {
	rec.Status = status
	if err := o.Store.Save(*rec); err != nil {
		logger.Warn("Failed to save run history", "error", err)
	}

	switch status {
	case statusSucceeded:
		o.Metrics.TrackRun(telemetry.OutcomeSucceeded)
	case statusAnalysisAborted:
		o.Metrics.TrackRun(telemetry.OutcomeAnalysisAborted)
	default:
		o.Metrics.TrackRun(telemetry.OutcomeFailed)
	}
	logger.Info("Run finished", "status", status, "retcode", rec.ExitCode, "duration", rec.Duration)
	return status
}
