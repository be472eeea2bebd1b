package history

import (
	"time"

	"github.com/google/uuid"
)

// Status values recorded for a run.
const (
	StatusSucceeded       = "succeeded"
	StatusFailed          = "failed"
	StatusAnalysisAborted = "analysis_aborted"
	StatusInterrupted     = "interrupted"
)

// RunRecord is the persisted summary of one benchmark script invocation.
type RunRecord struct {
	ID        string        `json:"id"`
	TestName  string        `json:"test_name"`
	Query     string        `json:"query"`
	Scale     string        `json:"scale"`
	ResultDir string        `json:"result_dir"`
	ExitCode  int           `json:"exit_code"`
	Status    string        `json:"status"`
	Expected  int           `json:"expected_samples"`
	Found     int           `json:"found_samples"`
	Mean      float64       `json:"mean,omitempty"`
	CILow     float64       `json:"ci_low,omitempty"`
	CIHigh    float64       `json:"ci_high,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// NewRunRecord returns a record with a fresh id and start time.
func NewRunRecord(testName, query, scale string) RunRecord {
	return RunRecord{
		ID:        uuid.NewString(),
		TestName:  testName,
		Query:     query,
		Scale:     scale,
		StartedAt: time.Now(),
	}
}

// Store defines the interface for storing run records.
type Store interface {
	Save(rec RunRecord) error
	LoadLatest() (*RunRecord, error)
	LoadAll() ([]RunRecord, error)
	Close() error
}

// NopStore discards everything. It is used when history is disabled.
type NopStore struct{}

func (NopStore) Save(RunRecord) error { return nil }
func (NopStore) LoadLatest() (*RunRecord, error) { return nil, nil }
func (NopStore) LoadAll() ([]RunRecord, error) { return []RunRecord{}, nil }
func (NopStore) Close() error { return nil }
