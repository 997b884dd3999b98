package scan

import "sync/atomic"

// Progress holds current walk progress.
type Progress struct {
	Root       string
	Files      int64
	Dirs       int64
	Errors     int64
	TotalBytes int64
	// Done is set on the last report of a walk, whether it completed or not.
	Done bool
}

// ProgressFunc receives periodic progress updates while a walk runs. Calls
// come from one goroutine and none follow the report with Done set.
type ProgressFunc func(p Progress)

// counters are shared by all workers of one walk.
type counters struct {
	files      atomic.Int64
	dirs       atomic.Int64
	errors     atomic.Int64
	totalBytes atomic.Int64
}

func (c *counters) snapshot(root string) Progress {
	return Progress{
		Root:       root,
		Files:      c.files.Load(),
		Dirs:       c.dirs.Load(),
		Errors:     c.errors.Load(),
		TotalBytes: c.totalBytes.Load(),
	}
}
