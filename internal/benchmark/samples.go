package benchmark

import (
	"bufio"
	"fmt"
	"io"
	"os"
	pgerrors "pgtpch/internal/errors"
	"strconv"
	"strings"
)

// ParseLenient reads one number per line, silently skipping lines that do
// not parse. The returned slice length is the number of parsed lines.
func ParseLenient(r io.Reader) ([]float64, error) {
	var samples []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		val, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
		if err != nil {
			continue
		}
		samples = append(samples, val)
	}
	return samples, scanner.Err()
}

// ParseStrict reads one number per line. Blank lines and lines starting
// with '#' are ignored; anything else that does not parse is an error.
func ParseStrict(r io.Reader, name string) ([]float64, error) {
	var samples []float64
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		val, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, &pgerrors.ParseError{Path: name, Line: lineNo, Text: line, Err: err}
		}
		samples = append(samples, val)
	}
	return samples, scanner.Err()
}

// LoadLenient opens path and parses it with ParseLenient.
func LoadLenient(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseLenient(f)
}

// LoadStrict opens path and parses it with ParseStrict. The file must exist
// and be a regular file.
func LoadStrict(path string) ([]float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("samples path %s is not a regular file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	defer f.Close()
	return ParseStrict(f, path)
}
