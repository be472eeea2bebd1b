package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultChunkSize is how many bytes of script output are read and
// forwarded at a time.
const DefaultChunkSize = 16

// Runner defines the interface for running one benchmark configuration.
// It returns the script's exit code; a non-zero exit is not an error.
type Runner interface {
	Run(ctx context.Context, conf *RunConf, out io.Writer) (int, error)
	CommandLine(conf *RunConf) []string
	Name() string
}

// ScriptRunner implements Runner by executing the external benchmark
// script with combined stdout/stderr streamed to out.
type ScriptRunner struct {
	Script    string
	ChunkSize int
	Dir       string
}

// execCommandContext allows substituting the process in tests.
var execCommandContext = exec.CommandContext

func NewScriptRunner(script string, chunkSize int) *ScriptRunner {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ScriptRunner{Script: script, ChunkSize: chunkSize}
}

// Name is the script's base name, used in log lines.
func (r *ScriptRunner) Name() string {
	return filepath.Base(r.Script)
}

// CommandLine returns the full argument vector including the script.
func (r *ScriptRunner) CommandLine(conf *RunConf) []string {
	return append([]string{r.Script}, conf.Args()...)
}

func (r *ScriptRunner) Run(ctx context.Context, conf *RunConf, out io.Writer) (int, error) {
	cmd := execCommandContext(ctx, r.Script, conf.Args()...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	setProcessGroup(cmd)

	// One pipe for both streams keeps the interleaving the script produced.
	pr, pw, err := os.Pipe()
	if err != nil {
		return -1, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return -1, fmt.Errorf("failed to start %s: %w", strings.Join(r.CommandLine(conf), " "), err)
	}
	// The child holds its own copy; ours must go so the read sees EOF.
	pw.Close()

	// A process that escaped the group may still hold the write end.
	// Closing ours on cancellation unblocks the read loop.
	copied := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pr.Close()
		case <-copied:
		}
	}()

	copyErr := CopyChunks(out, pr, r.ChunkSize)
	close(copied)
	pr.Close()

	waitErr := cmd.Wait()
	code := cmd.ProcessState.ExitCode()

	if ctx.Err() != nil {
		return code, fmt.Errorf("benchmark script interrupted: %w", ctx.Err())
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return code, fmt.Errorf("benchmark script failed: %w", waitErr)
		}
	}
	if copyErr != nil {
		return code, fmt.Errorf("failed to forward script output: %w", copyErr)
	}
	return code, nil
}

// CopyChunks reads src in fixed-size chunks until end of stream and writes
// each chunk to dst as soon as it arrives.
func CopyChunks(dst io.Writer, src io.Reader, size int) error {
	if size <= 0 {
		size = DefaultChunkSize
	}
	buf := make([]byte, size)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
