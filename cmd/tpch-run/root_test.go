package main

import (
	"errors"
	"os"
	"path/filepath"
	"pgtpch/internal/history"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch(t *testing.T) {
	fr := useFakeRunner(t)
	defaults, rc, results := writeInputs(t, `[{"testname": "master"}, {"testname": "patched", "scale": 10}]`)

	out, err := executeCommand(rootCmd, "--defaults", defaults, "--rc", rc, "--results", results)
	require.NoError(t, err, out)

	assert.Equal(t, []string{"master", "patched"}, fr.ran)
	assert.Contains(t, out, "Common (default) conf is")
	assert.Contains(t, out, "fake run of master")
	assert.Contains(t, out, "Mean exec time:\n12.50\n")
	assert.Contains(t, out, "12.50, 12.50")
	assert.Contains(t, out, "run.sh ended with retcode 0")

	_, err = os.Stat(filepath.Join(results, "master-1", "log.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(results, "patched-10", "log.txt"))
	assert.NoError(t, err)
}

func TestRunBatch_RecordsHistoryAndMetrics(t *testing.T) {
	useFakeRunner(t)
	defaults, rc, results := writeInputs(t, `[{"testname": "master"}, {"query": "q02"}]`)
	historyPath := filepath.Join(results, "history.json")
	textfile := filepath.Join(t.TempDir(), "pgtpch.prom")
	t.Setenv("PGTPCH_HISTORY_TYPE", "json")
	t.Setenv("PGTPCH_HISTORY_DSN", historyPath)
	t.Setenv("PGTPCH_METRICS_TEXTFILE", textfile)

	out, err := executeCommand(rootCmd, "--defaults", defaults, "--rc", rc, "--results", results)
	require.NoError(t, err, out)
	assert.Contains(t, out, `The key "testname" is missing, skipping this conf:`)

	store, err := history.NewFileStore(historyPath)
	require.NoError(t, err)
	records, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "master", records[0].TestName)
	assert.Equal(t, history.StatusSucceeded, records[0].Status)

	prom, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `pgtpch_runs_total{outcome="skipped"} 1`)
	assert.Contains(t, string(prom), `pgtpch_runs_total{outcome="succeeded"} 1`)

	out, err = executeCommand(rootCmd, "history", "--limit", "5")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Run history: 1 runs")
	assert.Contains(t, out, "master")
	assert.Contains(t, out, "succeeded")
}

func TestRunBatch_Select(t *testing.T) {
	fr := useFakeRunner(t)
	defaults, rc, results := writeInputs(t, `[{"testname": "a"}, {"testname": "b"}, {"testname": "c"}]`)

	origAskOne := askOne
	defer func() { askOne = origAskOne }()
	var offered []string
	askOne = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		ms, ok := p.(*survey.MultiSelect)
		require.True(t, ok)
		offered = ms.Options
		*(response.(*[]int)) = []int{0, 2}
		return nil
	}

	out, err := executeCommand(rootCmd, "--defaults", defaults, "--rc", rc, "--results", results, "--select")
	require.NoError(t, err, out)
	assert.Equal(t, []string{"1: a-1 q01", "2: b-1 q01", "3: c-1 q01"}, offered)
	assert.Equal(t, []string{"a", "c"}, fr.ran)
}

func TestRunBatch_SelectCancelled(t *testing.T) {
	useFakeRunner(t)
	defaults, rc, results := writeInputs(t, `[{"testname": "a"}]`)

	origAskOne := askOne
	defer func() { askOne = origAskOne }()
	askOne = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		return errors.New("interrupt")
	}

	_, err := executeCommand(rootCmd, "--defaults", defaults, "--rc", rc, "--results", results, "--select")
	assert.ErrorContains(t, err, "selection cancelled")
}

func TestRunBatch_MissingInputs(t *testing.T) {
	useFakeRunner(t)
	dir := t.TempDir()

	_, err := executeCommand(rootCmd, "--defaults", filepath.Join(dir, "absent.conf"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	defaults, _, _ := writeInputs(t, `[]`)
	_, err = executeCommand(rootCmd, "--defaults", defaults, "--rc", filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunBatch_InvalidConfig(t *testing.T) {
	useFakeRunner(t)
	t.Setenv("PGTPCH_CHUNK_SIZE", "0")

	_, err := executeCommand(rootCmd)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "chunk_size must be positive"))
}

func TestHistory_Disabled(t *testing.T) {
	out, err := executeCommand(rootCmd, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Run history is disabled")
	viper.Reset()
}
