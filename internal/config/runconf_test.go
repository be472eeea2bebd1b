package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRunConfs(t *testing.T) {
	input := `[
		{"testname": "master", "scale": 10, "warmups": 2, "query": "q01"},
		{"testname": "patched", "scale": 0.5, "pguser": null, "jit": false}
	]`

	confs, err := DecodeRunConfs(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, confs, 2)

	assert.Equal(t, Conf{"testname": "master", "scale": "10", "warmups": "2", "query": "q01"}, confs[0])
	assert.Equal(t, Conf{"testname": "patched", "scale": "0.5", "jit": "false"}, confs[1])
}

func TestDecodeRunConfs_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not an array", `{"testname": "master"}`},
		{"nested object", `[{"testname": {"a": 1}}]`},
		{"malformed", `[{"testname": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRunConfs(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadRunConfs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runconf.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"testname": "master"}]`), 0644))

	confs, err := LoadRunConfs(path)
	require.NoError(t, err)
	assert.Equal(t, []Conf{{"testname": "master"}}, confs)

	_, err = LoadRunConfs(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
