package report

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// FileSink appends rendered report bytes to a file under an advisory file
// lock, so reports from concurrent processes never interleave mid-block.
// The lock lives in a sibling ".lock" file; the report file itself is
// opened fresh for every append.
type FileSink struct {
	path string
	lock *flock.Flock
}

// NewFileSink builds a sink appending to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path reports the sink's destination file.
func (s *FileSink) Path() string { return s.path }

// Append writes p to the sink file atomically with respect to other
// lock-honoring writers, creating the file when missing.
func (s *FileSink) Append(p []byte) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("report: lock %s: %w", s.lock.Path(), err)
	}
	defer s.lock.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("report: open %s: %w", s.path, err)
	}
	if _, err := f.Write(p); err != nil {
		f.Close()
		return fmt.Errorf("report: append %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", s.path, err)
	}
	return nil
}
