// Package analyzer is the engine behind every dugout command. An Engine
// owns one scan cache for its lifetime; every query validates the drive,
// fetches the cached walk (walking on first use) and derives its answer.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/michaelscutari/dugout/internal/cache"
	"github.com/michaelscutari/dugout/internal/config"
	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/pathutil"
	"github.com/michaelscutari/dugout/internal/platform"
	"github.com/michaelscutari/dugout/internal/query"
	"github.com/michaelscutari/dugout/internal/report"
	"github.com/michaelscutari/dugout/internal/scan"
)

// Clock returns the current time. Age filters use it so tests can pin now.
type Clock func() time.Time

// Engine answers drive queries from a per-drive scan cache.
type Engine struct {
	cfg      *config.Config
	cache    *cache.Cache
	walker   cache.Walker
	space    platform.SpaceProvider
	now      Clock
	lister   query.DirLister
	log      io.Writer
	progress scan.ProgressFunc

	minTypeBytes   int64
	minFolderBytes int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.now = c }
}

// WithSpaceProvider replaces the gopsutil-backed provider.
func WithSpaceProvider(p platform.SpaceProvider) Option {
	return func(e *Engine) { e.space = p }
}

// WithWalker replaces the filesystem walker.
func WithWalker(w cache.Walker) Option {
	return func(e *Engine) { e.walker = w }
}

// WithLog sends verbose diagnostics to w.
func WithLog(w io.Writer) Option {
	return func(e *Engine) { e.log = w }
}

// WithProgress receives walk progress updates.
func WithProgress(f scan.ProgressFunc) Option {
	return func(e *Engine) { e.progress = f }
}

// WithDirLister replaces os.ReadDir for empty folder verification.
func WithDirLister(l query.DirLister) Option {
	return func(e *Engine) { e.lister = l }
}

// New creates an engine from a validated configuration.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.GetDefault()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Engine{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}

	e.minTypeBytes, _ = cfg.Queries.MinTypeBytes()
	e.minFolderBytes, _ = cfg.Queries.MinFolderBytes()

	if e.walker == nil {
		scanOpts, err := ScanOptions(cfg)
		if err != nil {
			return nil, err
		}
		scanOpts.Progress = e.progress
		if e.log != nil {
			scanOpts.Log = e.log
		}
		e.walker = scan.NewWalker(scanOpts)
	}
	if e.space == nil {
		e.space = platform.NewDisk()
	}

	var cacheOpts []cache.Option
	if cfg.Verbose && e.log != nil {
		cacheOpts = append(cacheOpts, cache.WithLog(e.log))
	}
	e.cache = cache.New(e.walker, cacheOpts...)

	return e, nil
}

// ScanOptions translates the scan section of cfg into walker options.
func ScanOptions(cfg *config.Config) (*scan.ScanOptions, error) {
	opts := scan.DefaultOptions()
	if !cfg.Scan.DefaultExcludes {
		opts.ExcludePatterns = nil
	}
	if cfg.Scan.Workers > 0 {
		opts.WithWorkers(cfg.Scan.Workers)
	}
	opts.WithXdev(cfg.Scan.Xdev).WithMaxErrors(cfg.Scan.MaxErrors).WithVerbose(cfg.Verbose)
	for _, p := range cfg.Scan.ExcludePatterns {
		if err := opts.AddExcludePattern(p); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Result returns the cached walk of drive, walking it first if needed.
func (e *Engine) Result(ctx context.Context, drive string) (*entry.DriveScanResult, error) {
	root, err := pathutil.NormalizeDrive(drive)
	if err != nil {
		return nil, err
	}
	return e.cache.GetOrScan(ctx, root)
}

// Cached returns the result for drive only if it is already cached.
func (e *Engine) Cached(drive string) (*entry.DriveScanResult, bool) {
	root, err := pathutil.NormalizeDrive(drive)
	if err != nil {
		return nil, false
	}
	return e.cache.Lookup(root)
}

// CachedDrives lists drives with a cached walk.
func (e *Engine) CachedDrives() []string {
	return e.cache.Drives()
}

// DriveSpace reports capacity of drive. It never walks.
func (e *Engine) DriveSpace(ctx context.Context, drive string) (platform.Space, error) {
	root, err := pathutil.NormalizeDrive(drive)
	if err != nil {
		return platform.Space{}, err
	}
	return e.space.Space(ctx, root)
}

// Drives lists the fixed drives of the machine.
func (e *Engine) Drives(ctx context.Context) ([]string, error) {
	return e.space.Drives(ctx)
}

// FileTypeDistribution groups drive by extension, keeping the top N groups
// at or above the configured size.
func (e *Engine) FileTypeDistribution(ctx context.Context, drive string) ([]query.TypeStat, error) {
	res, err := e.Result(ctx, drive)
	if err != nil {
		return nil, err
	}
	return truncate(query.TypeDistribution(res, e.minTypeBytes), e.cfg.Queries.TopN), nil
}

// LargestFiles returns the top N files of drive.
func (e *Engine) LargestFiles(ctx context.Context, drive string) ([]entry.FileRecord, error) {
	res, err := e.Result(ctx, drive)
	if err != nil {
		return nil, err
	}
	return query.LargestFiles(res, e.cfg.Queries.TopN), nil
}

// LargestFolders returns the top N folders within the configured depth.
func (e *Engine) LargestFolders(ctx context.Context, drive string) ([]entry.FolderAggregate, error) {
	res, err := e.Result(ctx, drive)
	if err != nil {
		return nil, err
	}
	filter := query.FolderFilter{
		MaxDepth:   e.cfg.Queries.MaxFolderDepth,
		MinBytes:   e.minFolderBytes,
		SkipHidden: e.cfg.Queries.SkipHiddenFolders,
	}
	return query.LargestFolders(res, filter, e.cfg.Queries.TopN), nil
}

// RecentLargeFiles returns the top N files changed within the recent window.
func (e *Engine) RecentLargeFiles(ctx context.Context, drive string) ([]entry.FileRecord, error) {
	res, err := e.Result(ctx, drive)
	if err != nil {
		return nil, err
	}
	return query.RecentFiles(res, e.now(), e.cfg.Queries.RecentWindow(), e.cfg.Queries.TopN), nil
}

// OldLargeFiles returns the top N files unchanged for longer than the old age.
func (e *Engine) OldLargeFiles(ctx context.Context, drive string) ([]entry.FileRecord, error) {
	res, err := e.Result(ctx, drive)
	if err != nil {
		return nil, err
	}
	return query.OldFiles(res, e.now(), e.cfg.Queries.OldAge(), e.cfg.Queries.TopN), nil
}

// EmptyFolders lists folders of drive without files, re-checked against
// the filesystem when verification is enabled.
func (e *Engine) EmptyFolders(ctx context.Context, drive string) ([]string, error) {
	res, err := e.Result(ctx, drive)
	if err != nil {
		return nil, err
	}
	folders := query.EmptyFolders(res)
	if e.cfg.EmptyFolders.Verify {
		folders = query.VerifyEmpty(folders, e.cfg.EmptyFolders.ReservedNames, e.lister)
	}
	return folders, nil
}

// SaveEmptyFolders writes the empty folder report for drive and returns its
// path along with the folders written.
func (e *Engine) SaveEmptyFolders(ctx context.Context, drive string) (string, []string, error) {
	folders, err := e.EmptyFolders(ctx, drive)
	if err != nil {
		return "", nil, err
	}
	path, err := report.WriteEmptyFolderReport(e.cfg.Report.Dir, e.cfg.Report.File, folders)
	if err != nil {
		return "", nil, err
	}
	return path, folders, nil
}

// Rescan replaces the cached walk of drive with a fresh one.
func (e *Engine) Rescan(ctx context.Context, drive string) (*entry.DriveScanResult, error) {
	root, err := pathutil.NormalizeDrive(drive)
	if err != nil {
		return nil, err
	}
	return e.cache.Rescan(ctx, root)
}

// Invalidate drops the cached walk of drive.
func (e *Engine) Invalidate(drive string) error {
	root, err := pathutil.NormalizeDrive(drive)
	if err != nil {
		return err
	}
	e.cache.Invalidate(root)
	return nil
}

// Summary totals the cached walk of drive.
func (e *Engine) Summary(ctx context.Context, drive string) (query.ScanSummary, error) {
	res, err := e.Result(ctx, drive)
	if err != nil {
		return query.ScanSummary{}, err
	}
	return query.Summary(res), nil
}

func truncate[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
