package aggregate

import (
	"encoding/csv"
	"io"
	"pgtpch/internal/benchmark"
	"pgtpch/internal/stats"
	"strconv"
)

// Header is the fixed first row of the report.
var Header = []string{
	"test name",
	"test median", "ref median", "% speedup median",
	"test min", "ref min", "% speedup min",
	"test avg", "test 0.95 CI", "ref avg", "ref 0.95 CI", "% speedup avg",
}

// ReportWriter writes tab-separated report rows, flushing each one as soon
// as it is written.
type ReportWriter struct {
	w *csv.Writer
}

func NewReportWriter(w io.Writer) *ReportWriter {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &ReportWriter{w: cw}
}

// WriteHeader writes the column names.
func (r *ReportWriter) WriteHeader() error {
	return r.write(Header)
}

// WriteComparison writes one row for a test/reference pair.
func (r *ReportWriter) WriteComparison(c benchmark.Comparison) error {
	return r.write(Row(c))
}

// WriteSeparator writes the blank row that closes a group.
func (r *ReportWriter) WriteSeparator() error {
	return r.write(nil)
}

func (r *ReportWriter) write(record []string) error {
	if err := r.w.Write(record); err != nil {
		return err
	}
	r.w.Flush()
	return r.w.Error()
}

// Row renders a comparison as report cells.
func Row(c benchmark.Comparison) []string {
	return []string{
		c.Name,
		formatNumber(c.Test.Median), formatNumber(c.Ref.Median), stats.PercentSpeedup(c.Test.Median, c.Ref.Median, c.Mode),
		formatNumber(c.Test.Min), formatNumber(c.Ref.Min), stats.PercentSpeedup(c.Test.Min, c.Ref.Min, c.Mode),
		formatNumber(c.Test.Mean), c.Test.CI.String(),
		formatNumber(c.Ref.Mean), c.Ref.CI.String(),
		stats.PercentSpeedup(c.Test.Mean, c.Ref.Mean, c.Mode),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
