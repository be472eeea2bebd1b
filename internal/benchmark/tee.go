package benchmark

import (
	"fmt"
	"io"
	"time"
)

// TimestampLayout prefixes every timestamped tee line.
const TimestampLayout = "2006-01-02 15:04:05 "

type syncer interface{ Sync() error }
type flusher interface{ Flush() error }

// Tee duplicates writes to every sink in order, flushing each one right
// after it is written so the log file and the console stay current while
// the script runs.
type Tee struct {
	sinks []io.Writer
	now   func() time.Time
}

func NewTee(sinks ...io.Writer) *Tee {
	return &Tee{sinks: sinks, now: time.Now}
}

// Write writes p to every sink. The first sink error stops the fan-out.
func (t *Tee) Write(p []byte) (int, error) {
	for _, s := range t.sinks {
		if _, err := s.Write(p); err != nil {
			return 0, err
		}
		// Flush errors are ignored: terminals reject fsync.
		switch f := s.(type) {
		case flusher:
			_ = f.Flush()
		case syncer:
			_ = f.Sync()
		}
	}
	return len(p), nil
}

// Print writes msg as is.
func (t *Tee) Print(msg string) error {
	_, err := io.WriteString(t, msg)
	return err
}

// Printf writes a formatted message prefixed with the current local time.
func (t *Tee) Printf(format string, args ...any) error {
	return t.Print(t.now().Format(TimestampLayout) + fmt.Sprintf(format, args...))
}
