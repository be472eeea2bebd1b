package errors

import (
	"errors"
	"fmt"
)

// MissingKeyError is returned when a merged run configuration lacks a
// required key.
type MissingKeyError struct {
	Key string
}

// Error implements the error interface
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("required key %q is missing", e.Key)
}

// InvalidValueError is returned when a configuration value cannot be
// interpreted, e.g. a non-integer warmup count.
type InvalidValueError struct {
	Key   string
	Value string
	Err   error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for key %q: %v", e.Value, e.Key, e.Err)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

// SampleCountError is returned when a sample file holds a different number
// of parsed values than runs were executed.
type SampleCountError struct {
	Expected int
	Found    int
}

func (e *SampleCountError) Error() string {
	return fmt.Sprintf("There were %d runs, but %d exec times were found, aborting analyzing", e.Expected, e.Found)
}

// ResultsDirError is returned when the results directory does not exist.
type ResultsDirError struct {
	Path string
}

func (e *ResultsDirError) Error() string {
	return fmt.Sprintf("%s directory not found", e.Path)
}

// ParseError reports a non-numeric line in a sample file read strictly.
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: cannot parse %q as a number: %v", e.Path, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewMissingKeyError creates a new MissingKeyError
func NewMissingKeyError(key string) *MissingKeyError {
	return &MissingKeyError{Key: key}
}

// IsMissingKey reports whether err wraps a MissingKeyError and returns the key.
func IsMissingKey(err error) (string, bool) {
	var mk *MissingKeyError
	if errors.As(err, &mk) {
		return mk.Key, true
	}
	return "", false
}

// IsSampleCount reports whether err wraps a SampleCountError.
func IsSampleCount(err error) bool {
	var sc *SampleCountError
	return errors.As(err, &sc)
}
