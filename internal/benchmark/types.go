package benchmark

import (
	"fmt"
	"path/filepath"
	pgerrors "pgtpch/internal/errors"
	"strconv"
)

// RequiredKeys lists the keys every merged run configuration must carry,
// in the order they are checked.
var RequiredKeys = []string{
	"scale",
	"pginstdir",
	"pgdatadir",
	"pgport",
	"tpchdbname",
	"query",
	"warmups",
	"testname",
}

// SamplesFileName is the file the external script writes execution times to.
const SamplesFileName = "exectime.txt"

// RunConf is one fully merged configuration for a single invocation of the
// benchmark script.
type RunConf struct {
	Scale      string
	PgInstDir  string
	PgDataDir  string
	PgPort     string
	TPCHDBName string
	Query      string
	Warmups    int
	TestName   string

	// Optional; nil when the key is absent. A present but empty value is
	// still passed to the script.
	PreCmd     *string
	PreCmdFile *string
	PgUser     *string

	// ResultDir is <results root>/<testname>-<scale>.
	ResultDir string
}

// NewRunConf builds a RunConf from a merged key/value configuration.
// A missing required key yields a *errors.MissingKeyError.
func NewRunConf(conf map[string]string, resultsRoot string) (*RunConf, error) {
	for _, key := range RequiredKeys {
		if _, ok := conf[key]; !ok {
			return nil, pgerrors.NewMissingKeyError(key)
		}
	}

	warmups, err := strconv.Atoi(conf["warmups"])
	if err != nil {
		return nil, &pgerrors.InvalidValueError{Key: "warmups", Value: conf["warmups"], Err: err}
	}
	if warmups < 0 {
		return nil, &pgerrors.InvalidValueError{Key: "warmups", Value: conf["warmups"], Err: fmt.Errorf("must not be negative")}
	}

	rc := &RunConf{
		Scale:      conf["scale"],
		PgInstDir:  conf["pginstdir"],
		PgDataDir:  conf["pgdatadir"],
		PgPort:     conf["pgport"],
		TPCHDBName: conf["tpchdbname"],
		Query:      conf["query"],
		Warmups:    warmups,
		TestName:   conf["testname"],
		PreCmd:     optional(conf, "precmd"),
		PreCmdFile: optional(conf, "precmdfile"),
		PgUser:     optional(conf, "pguser"),
	}
	rc.ResultDir = filepath.Join(resultsRoot, fmt.Sprintf("%s-%s", rc.TestName, rc.Scale))
	return rc, nil
}

func optional(conf map[string]string, key string) *string {
	v, ok := conf[key]
	if !ok {
		return nil
	}
	return &v
}

// Runs is the number of executions the script performs: the warmups plus
// the measured run.
func (c *RunConf) Runs() int {
	return c.Warmups + 1
}

// SamplesPath is where the script leaves the execution times for this run.
func (c *RunConf) SamplesPath() string {
	return filepath.Join(c.ResultDir, c.Query, SamplesFileName)
}

// LogPath is the persisted copy of the script's output.
func (c *RunConf) LogPath() string {
	return filepath.Join(c.ResultDir, "log.txt")
}

// Args returns the argument vector passed to the script, without the
// script itself.
func (c *RunConf) Args() []string {
	args := []string{
		"-s", c.Scale,
		"-i", c.PgInstDir,
		"-d", c.PgDataDir,
		"-p", c.PgPort,
		"-n", c.TPCHDBName,
		"-q", c.Query,
		"-w", strconv.Itoa(c.Warmups),
	}
	if c.PreCmd != nil {
		args = append(args, "-c", *c.PreCmd)
	}
	if c.PreCmdFile != nil {
		args = append(args, "-f", *c.PreCmdFile)
	}
	if c.PgUser != nil {
		args = append(args, "-U", *c.PgUser)
	}
	return append(args, c.TestName)
}
