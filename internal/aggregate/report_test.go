package aggregate

import (
	"bytes"
	"pgtpch/internal/benchmark"
	"pgtpch/internal/stats"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_SingleSampleHasNaNInterval(t *testing.T) {
	c, err := benchmark.Compare("x-test", []float64{1.5}, []float64{3}, stats.RefDenominator)
	require.NoError(t, err)

	row := Row(c)
	require.Len(t, row, len(Header))
	assert.Equal(t, []string{"x-test", "1.5", "3", "50.00", "1.5", "3", "50.00", "1.5", "nan, nan", "3", "nan, nan", "50.00"}, row)
}

func TestReportWriter_FlushesEachRow(t *testing.T) {
	var buf bytes.Buffer
	w := NewReportWriter(&buf)

	require.NoError(t, w.WriteHeader())
	assert.Equal(t, "test name\ttest median\tref median\t% speedup median\ttest min\tref min\t% speedup min\ttest avg\ttest 0.95 CI\tref avg\tref 0.95 CI\t% speedup avg\n", buf.String())

	require.NoError(t, w.WriteSeparator())
	assert.Equal(t, len(buf.String())-1, bytes.LastIndexByte(buf.Bytes(), '\n'))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n\n")))
}
