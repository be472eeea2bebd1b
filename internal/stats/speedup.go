package stats

import "fmt"

// Denominator selects which of the two compared values normalizes a
// percent speedup.
type Denominator int

const (
	// RefDenominator divides by the reference value. A positive speedup
	// means the test is faster than the reference.
	RefDenominator Denominator = iota
	// TestDenominator divides by the test value.
	TestDenominator
)

// ParseDenominator maps the -d flag value: "rd" selects the reference,
// anything else the test value.
func ParseDenominator(s string) Denominator {
	if s == "rd" {
		return RefDenominator
	}
	return TestDenominator
}

func (d Denominator) String() string {
	if d == RefDenominator {
		return "rd"
	}
	return "td"
}

// Speedup returns (ref - test) / denom * 100.
func Speedup(test, ref float64, mode Denominator) float64 {
	denom := ref
	if mode == TestDenominator {
		denom = test
	}
	pct := (ref - test) / denom * 100
	if pct == 0 {
		// -0 would print as "-0.00"
		pct = 0
	}
	return pct
}

// PercentSpeedup is Speedup formatted with two decimals.
func PercentSpeedup(test, ref float64, mode Denominator) string {
	return fmt.Sprintf("%.2f", Speedup(test, ref, mode))
}
