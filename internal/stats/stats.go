package stats

import (
	"errors"
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Confidence is the two-sided confidence level used for every interval
// reported by the run analyzer and the aggregator.
const Confidence = 0.95

// ErrTooFewSamples is returned when an interval is requested for fewer than
// two samples.
var ErrTooFewSamples = errors.New("confidence interval needs at least 2 samples")

// ErrEmptySample is returned by the descriptive helpers for an empty sample.
var ErrEmptySample = errors.New("empty sample")

// Interval is a confidence interval around a sample mean.
type Interval struct {
	Low  float64
	High float64
}

// String renders the interval the way the report and run log print it.
func (i Interval) String() string {
	return formatBound(i.Low) + ", " + formatBound(i.High)
}

func formatBound(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}

// NaNInterval is rendered where an interval is undefined.
var NaNInterval = Interval{Low: math.NaN(), High: math.NaN()}

// Median returns the middle value of samples, averaging the two middle
// values for an even count.
func Median(samples []float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrEmptySample
	}
	return mstats.Median(samples)
}

// Min returns the smallest sample.
func Min(samples []float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrEmptySample
	}
	return mstats.Min(samples)
}

// Mean returns the arithmetic mean of samples.
func Mean(samples []float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrEmptySample
	}
	return mstats.Mean(samples)
}

// ConfidenceInterval computes the two-sided Student-t interval of the mean
// at the Confidence level with n-1 degrees of freedom. The standard
// deviation uses Bessel's correction.
func ConfidenceInterval(samples []float64) (Interval, error) {
	n := len(samples)
	if n < 2 {
		return NaNInterval, ErrTooFewSamples
	}

	mean := stat.Mean(samples, nil)
	sd := stat.StdDev(samples, nil)

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	alpha := 1 - Confidence
	lowCrit := t.Quantile(alpha / 2)
	highCrit := t.Quantile(1 - alpha/2)

	se := sd / math.Sqrt(float64(n))
	return Interval{
		Low:  mean + lowCrit*se,
		High: mean + highCrit*se,
	}, nil
}

// Summary holds the descriptive statistics of one sample set.
type Summary struct {
	N      int
	Median float64
	Min    float64
	Mean   float64
	CI     Interval
}

// Summarize computes median, min, mean and the mean's confidence interval.
// A sample of one value yields a NaN interval rather than an error.
func Summarize(samples []float64) (Summary, error) {
	s := Summary{N: len(samples)}
	var err error
	if s.Median, err = Median(samples); err != nil {
		return s, err
	}
	if s.Min, err = Min(samples); err != nil {
		return s, err
	}
	if s.Mean, err = Mean(samples); err != nil {
		return s, err
	}
	s.CI, err = ConfidenceInterval(samples)
	if err != nil && !errors.Is(err, ErrTooFewSamples) {
		return s, err
	}
	return s, nil
}
