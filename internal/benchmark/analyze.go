package benchmark

import (
	"fmt"
	pgerrors "pgtpch/internal/errors"
	"pgtpch/internal/stats"
)

// Analysis is the single-run summary computed after a successful script
// execution.
type Analysis struct {
	Expected int
	Found    int
	Samples  []float64
	Mean     float64
	CI       stats.Interval
	HasCI    bool
}

// Analyze reads the samples left by a run and summarizes them. Unparsable
// lines are skipped, but the number of parsed values must equal the number
// of executed runs; otherwise a *errors.SampleCountError is returned along
// with the partial analysis.
func Analyze(conf *RunConf) (*Analysis, error) {
	samples, err := LoadLenient(conf.SamplesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read exec times: %w", err)
	}

	a := &Analysis{
		Expected: conf.Runs(),
		Found:    len(samples),
		Samples:  samples,
	}
	if a.Found != a.Expected {
		return a, &pgerrors.SampleCountError{Expected: a.Expected, Found: a.Found}
	}

	if a.Mean, err = stats.Mean(samples); err != nil {
		return a, err
	}
	if ci, err := stats.ConfidenceInterval(samples); err == nil {
		a.CI = ci
		a.HasCI = true
	}
	return a, nil
}
