package scan

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/rollup"
)

const slowOpThreshold = 200 * time.Millisecond

// Worker processes directories and records what it finds in its own partial.
type Worker struct {
	id         int
	opts       *ScanOptions
	rootDev    uint64
	hasRootDev bool
	partial    *rollup.Partial
	counters   *counters
	errorCh    chan<- entry.ScanError
	dirQueue   chan dirWork
	inFlight   *int64
	stack      []dirWork
	onIdle     func()
	abort      context.CancelCauseFunc
}

type dirWork struct {
	path  string
	depth int
}

// Run processes directory work until the queue is closed or ctx ends.
func (w *Worker) Run(ctx context.Context) {
	for {
		if len(w.stack) > 0 {
			work := w.stack[len(w.stack)-1]
			w.stack = w.stack[:len(w.stack)-1]
			w.processWork(ctx, work)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case work, ok := <-w.dirQueue:
			if !ok {
				return
			}
			w.processWork(ctx, work)
		}
	}
}

// ProcessDirectory reads a directory once and records each child.
func (w *Worker) ProcessDirectory(ctx context.Context, dirPath string, depth int) {
	if ctx.Err() != nil {
		return
	}

	readStart := time.Now()
	dirEntries, err := os.ReadDir(dirPath)
	if took := time.Since(readStart); took > slowOpThreshold {
		w.opts.logf("[W%d] READDIR-SLOW depth=%d took=%s path=%s\n", w.id, depth, took, dirPath)
	}
	if err != nil {
		// Unlisted directories are not registered. The mark keeps their
		// ancestors out of the empty folder results.
		w.partial.MarkIncomplete(dirPath)
		w.recordError(dirPath, err)
		return
	}

	w.partial.AddDir(dirPath)
	w.counters.dirs.Add(1)

	for i, de := range dirEntries {
		if i%100 == 0 && ctx.Err() != nil {
			return
		}

		childPath := filepath.Join(dirPath, de.Name())
		if w.opts.ShouldExclude(childPath) {
			continue
		}

		// Always use Lstat to avoid following symlinks
		info, err := os.Lstat(childPath)
		if err != nil {
			w.partial.MarkIncomplete(dirPath)
			w.recordError(childPath, err)
			continue
		}

		if w.opts.Xdev && w.hasRootDev {
			if dev, ok := deviceID(info); ok && dev != w.rootDev {
				continue
			}
		}

		switch entry.KindFromMode(info.Mode()) {
		case entry.KindFile:
			mtime := info.ModTime()
			rec := entry.FileRecord{
				Path:       childPath,
				Size:       info.Size(),
				AccessTime: accessTime(info),
			}
			if !mtime.IsZero() {
				rec.ModTime = &mtime
			}
			w.partial.AddFile(rec)
			w.counters.files.Add(1)
			w.counters.totalBytes.Add(rec.Size)
		case entry.KindDir:
			w.enqueueOrStack(ctx, childPath, depth+1)
		}
	}
}

func (w *Worker) recordError(path string, err error) {
	n := w.counters.errors.Add(1)
	w.opts.logf("[W%d] ERR path=%s err=%v\n", w.id, path, err)

	// Non-blocking send - drop the sample if the channel is full
	select {
	case w.errorCh <- entry.ScanError{Path: path, Message: err.Error()}:
	default:
	}

	if w.opts.MaxErrors > 0 && n >= int64(w.opts.MaxErrors) {
		w.abort(ErrTooManyErrors)
	}
}

func (w *Worker) processWork(ctx context.Context, work dirWork) {
	w.ProcessDirectory(ctx, work.path, work.depth)
	if atomic.AddInt64(w.inFlight, -1) == 0 {
		w.onIdle()
	}
}

func (w *Worker) enqueueOrStack(ctx context.Context, path string, depth int) {
	if ctx.Err() != nil {
		return
	}

	atomic.AddInt64(w.inFlight, 1)
	select {
	case w.dirQueue <- dirWork{path: path, depth: depth}:
	default:
		// Queue full: keep work local to avoid deadlock
		w.stack = append(w.stack, dirWork{path: path, depth: depth})
	}
}
