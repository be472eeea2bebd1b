package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"pgtpch/internal/benchmark"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// fakeRunner stands in for run.sh: it prints a line and writes one sample
// per run.
type fakeRunner struct {
	ran []string
}

func (f *fakeRunner) Run(ctx context.Context, conf *benchmark.RunConf, out io.Writer) (int, error) {
	f.ran = append(f.ran, conf.TestName)
	fmt.Fprintf(out, "fake run of %s\n", conf.TestName)
	if err := os.MkdirAll(filepath.Dir(conf.SamplesPath()), 0755); err != nil {
		return -1, err
	}
	samples := strings.Repeat("12.5\n", conf.Runs())
	return 0, os.WriteFile(conf.SamplesPath(), []byte(samples), 0644)
}

func (f *fakeRunner) CommandLine(conf *benchmark.RunConf) []string {
	return append([]string{"./run.sh"}, conf.Args()...)
}

func (f *fakeRunner) Name() string { return "run.sh" }

func useFakeRunner(t *testing.T) *fakeRunner {
	t.Helper()
	fr := &fakeRunner{}
	orig := newRunnerFunc
	newRunnerFunc = func(string, int) benchmark.Runner { return fr }
	t.Cleanup(func() { newRunnerFunc = orig })
	return fr
}

// writeInputs creates a defaults file and a run configuration in a temp dir.
func writeInputs(t *testing.T, runconf string) (defaults, rc, results string) {
	t.Helper()
	dir := t.TempDir()
	defaults = filepath.Join(dir, "pgtpch.conf")
	rc = filepath.Join(dir, "runconf.json")
	results = filepath.Join(dir, "res")
	conf := "# common settings\nscale = 1\npginstdir=/opt/pg\npgdatadir=/data/pg\npgport=5432\ntpchdbname=tpch\nquery=q01\nwarmups=1\n"
	require.NoError(t, os.WriteFile(defaults, []byte(conf), 0644))
	require.NoError(t, os.WriteFile(rc, []byte(runconf), 0644))
	return defaults, rc, results
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand executes a cobra command and returns its output.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	viper.Reset()
	cfgFile = ""
	resetFlags(root)
	root.SetArgs(args)
	b := new(bytes.Buffer)
	root.SetOut(b)
	root.SetErr(b)
	err := root.Execute()
	return b.String(), err
}
