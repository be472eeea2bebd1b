package orchestrator

import "fmt"

// Summary counts what happened to each configuration of a batch.
type Summary struct {
	Total           int
	Succeeded       int
	Failed          int
	AnalysisAborted int
	Skipped         int
}

// String is the one-line batch summary used in logs and notifications.
// Runs whose analysis was aborted count as failed.
func (s Summary) String() string {
	return fmt.Sprintf("%d runs: %d succeeded, %d failed, %d skipped",
		s.Total, s.Succeeded, s.Failed+s.AnalysisAborted, s.Skipped)
}

func (s *Summary) add(status string) {
	s.Total++
	switch status {
	case statusSkipped:
		s.Skipped++
	case statusSucceeded:
		s.Succeeded++
	case statusAnalysisAborted:
		s.AnalysisAborted++
	default:
		s.Failed++
	}
}
