package ui

import (
	"fmt"
	"pgtpch/internal/benchmark"
)

// Speedup renders a percent speedup with its sign, green when the test is
// faster and red when it is slower.
func (s *Styles) Speedup(pct float64) string {
	text := fmt.Sprintf("%+.2f%%", pct)
	switch {
	case pct > 0:
		return s.Faster.Render(text)
	case pct < 0:
		return s.Slower.Render(text)
	default:
		return s.Neutral.Render(fmt.Sprintf("%.2f%%", pct))
	}
}

// Comparison renders one line summarizing a test against its reference.
func (s *Styles) Comparison(c benchmark.Comparison) string {
	return fmt.Sprintf("  %s vs ref: median %s, min %s, mean %s",
		c.Name, s.Speedup(c.MedianSpeedup), s.Speedup(c.MinSpeedup), s.Speedup(c.MeanSpeedup))
}
