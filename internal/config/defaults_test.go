package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDefaults(t *testing.T) {
	input := `# shared settings
scale = 10
pginstdir=/usr/local/pgsql
 # indented comment
precmd = SET work_mem = '64MB'
not a pair
pgport=  5432  
`
	conf, err := ReadDefaults(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, Conf{
		"scale":     "10",
		"pginstdir": "/usr/local/pgsql",
		"precmd":    "SET work_mem = '64MB'",
		"pgport":    "5432",
	}, conf)
}

func TestParseDefaults_Missing(t *testing.T) {
	_, err := ParseDefaults(filepath.Join(t.TempDir(), "pgtpch.conf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge(t *testing.T) {
	defaults := Conf{"scale": "1", "pgport": "5432"}
	override := Conf{"scale": "10", "testname": "master"}

	merged := Merge(defaults, override)

	assert.Equal(t, Conf{"scale": "10", "pgport": "5432", "testname": "master"}, merged)
	assert.Equal(t, "1", defaults["scale"], "defaults must not be modified")
	assert.NotContains(t, defaults, "testname")
}

func TestConfString(t *testing.T) {
	c := Conf{"testname": "master", "scale": "10"}
	assert.Equal(t, "{\"scale\": \"10\",\n \"testname\": \"master\"}", c.String())
	assert.Equal(t, "{}", Conf{}.String())
}
