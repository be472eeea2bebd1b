// Package aggregate compares every test result directory with its
// reference and writes the tab-separated speedup report.
package aggregate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"pgtpch/internal/benchmark"
	pgerrors "pgtpch/internal/errors"
	"pgtpch/internal/policy"
	"pgtpch/internal/stats"
	"pgtpch/internal/telemetry"
	"pgtpch/internal/ui"
	"sort"
)

// ReportFileName is the report written into the results directory when no
// output path is given.
const ReportFileName = "res.csv"

// Aggregator walks a results directory. Its grouping, pairing and sample
// preprocessing are supplied at construction.
type Aggregator struct {
	policy      policy.Policy
	preprocess  policy.Preprocessor
	mode        stats.Denominator
	samplesFile string
	metrics     *telemetry.Metrics
	console     io.Writer
	styles      *ui.Styles
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSamplesFile overrides the per-test sample file name.
func WithSamplesFile(name string) Option {
	return func(a *Aggregator) {
		if name != "" {
			a.samplesFile = name
		}
	}
}

// WithMetrics records pair counters.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// WithConsole sets where progress lines go, styled with s.
func WithConsole(w io.Writer, s *ui.Styles) Option {
	return func(a *Aggregator) {
		a.console = w
		a.styles = s
	}
}

func New(p policy.Policy, pre policy.Preprocessor, mode stats.Denominator, opts ...Option) *Aggregator {
	if p == nil {
		p = policy.DefaultPolicy()
	}
	if pre == nil {
		pre = policy.Identity
	}
	a := &Aggregator{
		policy:      p,
		preprocess:  pre,
		mode:        mode,
		samplesFile: benchmark.SamplesFileName,
		console:     io.Discard,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.styles == nil {
		a.styles = ui.NewStyles(a.console, true)
	}
	return a
}

// Run writes the report for resultsDir to output, or to res.csv inside
// resultsDir when output is empty.
func (a *Aggregator) Run(resultsDir, output string) error {
	info, err := os.Stat(resultsDir)
	if err != nil || !info.IsDir() {
		return &pgerrors.ResultsDirError{Path: resultsDir}
	}

	if output == "" {
		output = filepath.Join(resultsDir, ReportFileName)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := a.Write(resultsDir, f); err != nil {
		return err
	}
	telemetry.LogInfof("Report written to %s", output)
	return f.Close()
}

// Write writes the full report for resultsDir to w.
func (a *Aggregator) Write(resultsDir string, w io.Writer) error {
	ids, err := listTests(resultsDir)
	if err != nil {
		return err
	}

	report := NewReportWriter(w)
	if err := report.WriteHeader(); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, group := range a.policy.GroupTests(ids) {
		fmt.Fprintln(a.console)
		fmt.Fprintln(a.console, a.styles.Group.Render("Processing new group"))

		members := append([]string(nil), group...)
		sort.Strings(members)
		for _, id := range members {
			ref := a.policy.GetPaired(id)
			if ref == "" {
				continue
			}
			if !isDir(filepath.Join(resultsDir, ref)) {
				telemetry.LogDebug("Reference missing, skipping", "test", id, "ref", ref)
				a.metrics.TrackPair(telemetry.PairMissingReference)
				continue
			}

			fmt.Fprintf(a.console, "Processing pair %s - %s\n", id, ref)
			c, err := a.comparePair(resultsDir, id, ref)
			if err != nil {
				return err
			}
			if err := report.WriteComparison(c); err != nil {
				return fmt.Errorf("failed to write report row: %w", err)
			}
			fmt.Fprintln(a.console, a.styles.Comparison(c))
			a.metrics.TrackPair(telemetry.PairProcessed)
		}

		if err := report.WriteSeparator(); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	return nil
}

func (a *Aggregator) comparePair(resultsDir, id, ref string) (benchmark.Comparison, error) {
	test, err := benchmark.LoadStrict(filepath.Join(resultsDir, id, a.samplesFile))
	if err != nil {
		return benchmark.Comparison{}, err
	}
	refSamples, err := benchmark.LoadStrict(filepath.Join(resultsDir, ref, a.samplesFile))
	if err != nil {
		return benchmark.Comparison{}, err
	}
	return benchmark.Compare(id, a.preprocess(test), a.preprocess(refSamples), a.mode)
}

// listTests returns the names of the immediate subdirectories.
func listTests(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
