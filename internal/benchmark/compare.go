package benchmark

import (
	"fmt"
	"pgtpch/internal/stats"
)

// Comparison holds the statistics of a test sample set against its
// reference, with speedups at the median, min and mean levels.
type Comparison struct {
	Name string
	Test stats.Summary
	Ref  stats.Summary
	Mode stats.Denominator

	MedianSpeedup float64 // Percentage, positive = test faster
	MinSpeedup    float64
	MeanSpeedup   float64
}

// Compare summarizes both sample sets and computes the percent speedups.
// Callers apply any preprocessing before calling Compare.
func Compare(name string, test, ref []float64, mode stats.Denominator) (Comparison, error) {
	c := Comparison{Name: name, Mode: mode}

	var err error
	if c.Test, err = stats.Summarize(test); err != nil {
		return c, fmt.Errorf("test samples of %s: %w", name, err)
	}
	if c.Ref, err = stats.Summarize(ref); err != nil {
		return c, fmt.Errorf("reference samples of %s: %w", name, err)
	}

	c.MedianSpeedup = stats.Speedup(c.Test.Median, c.Ref.Median, mode)
	c.MinSpeedup = stats.Speedup(c.Test.Min, c.Ref.Min, mode)
	c.MeanSpeedup = stats.Speedup(c.Test.Mean, c.Ref.Mean, mode)
	return c, nil
}
