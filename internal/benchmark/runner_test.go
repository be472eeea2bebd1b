package benchmark

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeExecCommandContext(ctx context.Context, command string, args ...string) *exec.Cmd {
	cs := []string{"-test.run=TestRunnerHelperProcess", "--", command}
	cs = append(cs, args...)
	cmd := exec.CommandContext(ctx, os.Args[0], cs...)
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
	return cmd
}

// TestRunnerHelperProcess stands in for run.sh. The trailing test name
// selects the behaviour.
func TestRunnerHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}

	switch args[len(args)-1] {
	case "fail":
		fmt.Fprint(os.Stderr, "query failed\n")
		os.Exit(3)
	case "hang", "hang-detached":
		hangWithChild(args[len(args)-1] == "hang-detached")
	case "echo-args":
		fmt.Fprint(os.Stdout, strings.Join(args[1:], " "))
		os.Exit(0)
	default:
		fmt.Fprint(os.Stdout, "loading data\n")
		fmt.Fprint(os.Stderr, "warning: cold cache\n")
		fmt.Fprint(os.Stdout, "done\n")
		os.Exit(0)
	}
}

func useFakeExec(t *testing.T) {
	t.Helper()
	orig := execCommandContext
	execCommandContext = fakeExecCommandContext
	t.Cleanup(func() { execCommandContext = orig })
}

func helperConf(testname string) *RunConf {
	return &RunConf{
		Scale:      "1",
		PgInstDir:  "/opt/pg",
		PgDataDir:  "/data/pg",
		PgPort:     "5432",
		TPCHDBName: "tpch",
		Query:      "q01",
		Warmups:    2,
		TestName:   testname,
	}
}

func TestScriptRunner_StreamsCombinedOutput(t *testing.T) {
	useFakeExec(t)

	r := NewScriptRunner("./run.sh", 0)
	var out bytes.Buffer
	code, err := r.Run(context.Background(), helperConf("ok"), &out)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "loading data")
	assert.Contains(t, out.String(), "warning: cold cache")
	assert.Contains(t, out.String(), "done")
}

func TestScriptRunner_NonZeroExitIsNotAnError(t *testing.T) {
	useFakeExec(t)

	r := NewScriptRunner("./run.sh", 16)
	var out bytes.Buffer
	code, err := r.Run(context.Background(), helperConf("fail"), &out)

	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Contains(t, out.String(), "query failed")
}

func TestScriptRunner_PassesArguments(t *testing.T) {
	useFakeExec(t)

	r := NewScriptRunner("./run.sh", 4)
	conf := helperConf("echo-args")
	user := "bench"
	conf.PgUser = &user
	var out bytes.Buffer
	_, err := r.Run(context.Background(), conf, &out)

	require.NoError(t, err)
	assert.Equal(t, "-s 1 -i /opt/pg -d /data/pg -p 5432 -n tpch -q q01 -w 2 -U bench echo-args", out.String())
}

func TestScriptRunner_StartFailure(t *testing.T) {
	r := NewScriptRunner("/nonexistent/run.sh", 16)
	code, err := r.Run(context.Background(), helperConf("ok"), &bytes.Buffer{})

	assert.Error(t, err)
	assert.Equal(t, -1, code)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestScriptRunner_Name(t *testing.T) {
	assert.Equal(t, "run.sh", NewScriptRunner("./scripts/run.sh", 0).Name())
	assert.Equal(t, DefaultChunkSize, NewScriptRunner("./run.sh", -1).ChunkSize)
}

type recordingWriter struct {
	writes []int
	buf    bytes.Buffer
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.buf.Write(p)
}

func TestCopyChunks(t *testing.T) {
	src := strings.Repeat("x", 40)
	w := &recordingWriter{}

	err := CopyChunks(w, strings.NewReader(src), 16)
	require.NoError(t, err)
	assert.Equal(t, []int{16, 16, 8}, w.writes)
	assert.Equal(t, src, w.buf.String())
}

func TestCopyChunks_Empty(t *testing.T) {
	w := &recordingWriter{}
	require.NoError(t, CopyChunks(w, strings.NewReader(""), 16))
	assert.Empty(t, w.writes)
}
