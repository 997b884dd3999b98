package scan

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"runtime"
)

// DefaultExcludes are subtrees skipped by default: recycle bins, filesystem
// metadata, package manager caches and kernel pseudo filesystems.
var DefaultExcludes = []string{
	segment(`\$Recycle\.Bin`),
	segment(`\.Trash[^/\\]*`),
	segment(`\.local[/\\]share[/\\]Trash`),
	segment(`System Volume Information`),
	segment(`lost\+found`),
	segment(`\.snapshot`),
	segment(`node_modules[/\\]\.cache`),
	segment(`\.cache[/\\]go-build`),
	segment(`\.npm[/\\]_cacache`),
	segment(`var[/\\]cache[/\\]apt`),
	`^/(proc|sys|dev)(/|$)`,
}

// segment anchors a pattern to whole path components.
func segment(p string) string {
	return `(^|[/\\])` + p + `([/\\]|$)`
}

// ScanOptions configures the scanning behavior.
type ScanOptions struct {
	// Workers is the number of concurrent directory processors.
	Workers int

	// Xdev prevents crossing filesystem boundaries.
	Xdev bool

	// MaxErrors is the maximum number of errors before aborting.
	// Zero means unlimited.
	MaxErrors int

	// MaxErrorSamples caps how many errors are kept on the result.
	MaxErrorSamples int

	// ExcludePatterns are regular expressions for paths to skip.
	ExcludePatterns []*regexp.Regexp

	// Progress, when set, is called periodically while a walk runs.
	Progress ProgressFunc

	Verbose bool
	Log     io.Writer
}

// DefaultOptions returns sensible defaults for scanning.
func DefaultOptions() *ScanOptions {
	opts := &ScanOptions{
		Workers:         runtime.NumCPU(),
		Xdev:            true,
		MaxErrorSamples: 100,
		Log:             os.Stderr,
	}
	for _, p := range DefaultExcludes {
		// DefaultExcludes are compile-checked by tests.
		_ = opts.AddExcludePattern(p)
	}
	return opts
}

// WithWorkers sets the number of workers.
func (o *ScanOptions) WithWorkers(n int) *ScanOptions {
	o.Workers = n
	return o
}

// WithXdev sets cross-device behavior.
func (o *ScanOptions) WithXdev(xdev bool) *ScanOptions {
	o.Xdev = xdev
	return o
}

// WithMaxErrors sets the maximum error count.
func (o *ScanOptions) WithMaxErrors(n int) *ScanOptions {
	o.MaxErrors = n
	return o
}

// WithVerbose enables diagnostics on the log writer.
func (o *ScanOptions) WithVerbose(v bool) *ScanOptions {
	o.Verbose = v
	return o
}

// WithProgress sets the progress callback.
func (o *ScanOptions) WithProgress(f ProgressFunc) *ScanOptions {
	o.Progress = f
	return o
}

// AddExcludePattern adds a pattern to exclude.
func (o *ScanOptions) AddExcludePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
	}
	o.ExcludePatterns = append(o.ExcludePatterns, re)
	return nil
}

// ShouldExclude checks if a path matches any exclude pattern.
func (o *ScanOptions) ShouldExclude(path string) bool {
	for _, re := range o.ExcludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Clone returns a copy whose pattern list can be extended independently.
func (o *ScanOptions) Clone() *ScanOptions {
	c := *o
	c.ExcludePatterns = append([]*regexp.Regexp(nil), o.ExcludePatterns...)
	return &c
}

func (o *ScanOptions) logf(format string, args ...any) {
	if !o.Verbose || o.Log == nil {
		return
	}
	fmt.Fprintf(o.Log, format, args...)
}
