package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Conf is a flat set of benchmark settings, keyed by the names the
// benchmark script understands (scale, pgport, testname, ...).
type Conf map[string]string

// Clone returns a shallow copy.
func (c Conf) Clone() Conf {
	out := make(Conf, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// String renders the configuration one key per line, sorted by key.
func (c Conf) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(",\n ")
		}
		fmt.Fprintf(&b, "%q: %q", k, c[k])
	}
	b.WriteString("}")
	return b.String()
}

// ParseDefaults reads the shared defaults file. Lines starting with '#' are
// comments, other lines are split on the first '=' with both sides trimmed.
// Lines without '=' are ignored.
func ParseDefaults(path string) (Conf, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open defaults file: %w", err)
	}
	defer f.Close()

	conf, err := ReadDefaults(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults file %s: %w", path, err)
	}
	return conf, nil
}

// ReadDefaults parses defaults file content from r.
func ReadDefaults(r io.Reader) (Conf, error) {
	conf := Conf{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		conf[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return conf, scanner.Err()
}

// Merge overlays override on a copy of defaults. Neither input is modified.
func Merge(defaults, override Conf) Conf {
	merged := defaults.Clone()
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
