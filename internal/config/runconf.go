package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadRunConfs reads the run configuration file: a JSON array of objects
// whose values are strings or numbers.
func LoadRunConfs(path string) ([]Conf, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run configuration: %w", err)
	}
	defer f.Close()

	confs, err := DecodeRunConfs(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run configuration %s: %w", path, err)
	}
	return confs, nil
}

// DecodeRunConfs decodes a run configuration array from r. Numbers keep
// their literal spelling, booleans become "true"/"false" and nulls are
// dropped.
func DecodeRunConfs(r io.Reader) ([]Conf, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	confs := make([]Conf, 0, len(raw))
	for i, entry := range raw {
		conf := Conf{}
		for k, v := range entry {
			switch val := v.(type) {
			case nil:
			case string:
				conf[k] = val
			case json.Number:
				conf[k] = val.String()
			case bool:
				conf[k] = strconv.FormatBool(val)
			default:
				return nil, fmt.Errorf("entry %d: key %q has unsupported value %v", i, k, v)
			}
		}
		confs = append(confs, conf)
	}
	return confs, nil
}
