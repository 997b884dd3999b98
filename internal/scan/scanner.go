package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/rollup"
)

const progressInterval = 50 * time.Millisecond

// Scanner coordinates one parallel walk of a directory tree.
// A Scanner is single-use; create one per walk.
type Scanner struct {
	opts    *ScanOptions
	root    string
	rootDev uint64

	errorCh  chan entry.ScanError
	dirQueue chan dirWork
	counters counters

	inFlight int64

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewScanner creates a new scanner.
func NewScanner(opts *ScanOptions) *Scanner {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	queueSize := opts.Workers * 1024
	if queueSize < 4096 {
		queueSize = 4096
	}
	return &Scanner{
		opts:     opts,
		errorCh:  make(chan entry.ScanError, 1000),
		dirQueue: make(chan dirWork, queueSize),
	}
}

// Run walks root and returns the merged, rolled-up result. Nothing is
// returned unless the walk completes.
func (s *Scanner) Run(ctx context.Context, root string) (*entry.DriveScanResult, error) {
	s.root = filepath.Clean(root)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	rootInfo, err := os.Lstat(s.root)
	if err != nil {
		return nil, &RootError{Root: root, Err: err}
	}
	if !rootInfo.IsDir() {
		return nil, &RootError{Root: root, Err: ErrNotDirectory}
	}
	f, err := os.Open(s.root)
	if err != nil {
		return nil, &RootError{Root: root, Err: err}
	}
	f.Close()

	dev, hasDev := deviceID(rootInfo)
	s.rootDev = dev

	startTime := time.Now()

	sampler := &errorSampler{max: s.opts.MaxErrorSamples}
	samplerDone := make(chan struct{})
	go sampler.run(s.errorCh, samplerDone)

	partials := make([]*rollup.Partial, s.opts.Workers)
	for i := 0; i < s.opts.Workers; i++ {
		partials[i] = rollup.NewPartial()
		worker := &Worker{
			id:         i,
			opts:       s.opts,
			rootDev:    dev,
			hasRootDev: hasDev,
			partial:    partials[i],
			counters:   &s.counters,
			errorCh:    s.errorCh,
			dirQueue:   s.dirQueue,
			inFlight:   &s.inFlight,
			onIdle:     s.closeDirQueue,
			abort:      cancel,
		}
		s.wg.Add(1)
		go func(w *Worker) {
			defer s.wg.Done()
			w.Run(ctx)
		}(worker)
	}

	// Seed the queue with root
	atomic.AddInt64(&s.inFlight, 1)
	s.opts.logf("[SCANNER] SEEDED root=%s workers=%d queueSize=%d\n", s.root, s.opts.Workers, cap(s.dirQueue))
	s.dirQueue <- dirWork{path: s.root, depth: 0}

	monitorDone := make(chan struct{})
	monitorExited := make(chan struct{})
	go func() {
		defer close(monitorExited)
		s.monitor(ctx, monitorDone)
	}()

	s.wg.Wait()
	close(monitorDone)
	<-monitorExited
	close(s.errorCh)
	<-samplerDone
	defer s.report(true)

	if ctx.Err() != nil {
		err := context.Cause(ctx)
		s.opts.logf("[SCANNER] ABORTED root=%s err=%v\n", s.root, err)
		return nil, fmt.Errorf("scan %s: %w", s.root, err)
	}

	merged := rollup.Merge(partials...)
	result := &entry.DriveScanResult{
		Root:      s.root,
		Files:     merged.Files,
		Folders:   rollup.Build(s.root, merged),
		ScannedAt: startTime,
		Duration:  time.Since(startTime),
		Errors:    s.counters.errors.Load(),
		Samples:   sampler.samples,
	}

	s.opts.logf("[SCANNER] COMPLETE root=%s files=%d dirs=%d errors=%d took=%s\n",
		s.root, len(result.Files), len(result.Folders), result.Errors, result.Duration)

	return result, nil
}

// Progress returns current walk progress (safe for concurrent access).
func (s *Scanner) Progress() Progress {
	return s.counters.snapshot(s.root)
}

// monitor reports progress until the workers are done.
func (s *Scanner) monitor(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	checkCount := 0
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCount++
			s.report(false)

			// Log every second (20 ticks at 50ms)
			if checkCount%20 == 0 {
				s.opts.logf("[MONITOR] CHECK#%d inFlight=%d queueLen=%d\n",
					checkCount, atomic.LoadInt64(&s.inFlight), len(s.dirQueue))
			}
		}
	}
}

func (s *Scanner) report(done bool) {
	if s.opts.Progress != nil {
		p := s.Progress()
		p.Done = done
		s.opts.Progress(p)
	}
}

func (s *Scanner) closeDirQueue() {
	s.closeOnce.Do(func() {
		close(s.dirQueue)
	})
}

// Walker adapts Scanner to the cache's walk interface, creating a fresh
// Scanner for each walk.
type Walker struct {
	Options *ScanOptions
}

// NewWalker returns a Walker using opts, or DefaultOptions when nil.
func NewWalker(opts *ScanOptions) *Walker {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Walker{Options: opts}
}

// Walk performs one complete walk of root.
func (w *Walker) Walk(ctx context.Context, root string) (*entry.DriveScanResult, error) {
	return NewScanner(w.Options.Clone()).Run(ctx, root)
}
