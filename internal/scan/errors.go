package scan

import (
	"errors"
	"fmt"

	"github.com/michaelscutari/dugout/internal/entry"
)

var (
	// ErrNotDirectory is wrapped by RootError when the root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrTooManyErrors aborts a walk once MaxErrors is reached.
	ErrTooManyErrors = errors.New("too many scan errors")
)

// RootError reports a walk that could not start because its root is
// missing, unreadable or not a directory.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("cannot scan %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error { return e.Err }

// errorSampler drains the error channel and keeps the first max samples.
type errorSampler struct {
	max     int
	samples []entry.ScanError
}

func (s *errorSampler) run(in <-chan entry.ScanError, done chan<- struct{}) {
	defer close(done)
	for e := range in {
		if len(s.samples) < s.max {
			s.samples = append(s.samples, e)
		}
	}
}
