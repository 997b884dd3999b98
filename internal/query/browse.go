package query

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/michaelscutari/dugout/internal/entry"
)

// DisplayEntry is one child of a directory as shown by the browser.
type DisplayEntry struct {
	Path       string
	Name       string
	Kind       entry.Kind
	ModTime    time.Time
	TotalSize  int64
	TotalFiles int64
	TotalDirs  int64
}

// Index groups a scan result by parent directory for repeated browsing.
type Index struct {
	res      *entry.DriveScanResult
	children map[string][]DisplayEntry
}

// NewIndex builds the parent index in one pass over res.
func NewIndex(res *entry.DriveScanResult) *Index {
	idx := &Index{res: res, children: make(map[string][]DisplayEntry)}
	if res == nil {
		return idx
	}
	for path, agg := range res.Folders {
		if agg.Depth == 0 {
			continue
		}
		parent := filepath.Dir(path)
		idx.children[parent] = append(idx.children[parent], DisplayEntry{
			Path:       path,
			Name:       filepath.Base(path),
			Kind:       entry.KindDir,
			TotalSize:  agg.TotalSize,
			TotalFiles: agg.FileCount,
			TotalDirs:  agg.DirCount,
		})
	}
	for _, f := range res.Files {
		e := DisplayEntry{
			Path:       f.Path,
			Name:       filepath.Base(f.Path),
			Kind:       entry.KindFile,
			TotalSize:  f.Size,
			TotalFiles: 1,
		}
		if f.ModTime != nil {
			e.ModTime = *f.ModTime
		}
		parent := f.Dir()
		idx.children[parent] = append(idx.children[parent], e)
	}
	return idx
}

// Children returns the direct children of dir sorted by sortBy ("size",
// "name" or "files"), truncated to limit when limit > 0.
func (idx *Index) Children(dir, sortBy string, limit int) []DisplayEntry {
	src := idx.children[filepath.Clean(dir)]
	out := make([]DisplayEntry, len(src))
	copy(out, src)

	var less func(a, b DisplayEntry) bool
	switch sortBy {
	case "name":
		less = func(a, b DisplayEntry) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "files":
		less = func(a, b DisplayEntry) bool { return a.TotalFiles > b.TotalFiles }
	default:
		less = func(a, b DisplayEntry) bool { return a.TotalSize > b.TotalSize }
	}
	sort.SliceStable(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].Path < out[j].Path
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Children returns the direct children of dir in res, largest first.
func Children(res *entry.DriveScanResult, dir string) []DisplayEntry {
	return NewIndex(res).Children(dir, "size", 0)
}

// ScanSummary totals a scan result for headers and reports.
type ScanSummary struct {
	Root      string        `json:"root" yaml:"root"`
	TotalSize int64         `json:"total_size" yaml:"total_size"`
	Files     int64         `json:"files" yaml:"files"`
	Folders   int64         `json:"folders" yaml:"folders"`
	Errors    int64         `json:"errors" yaml:"errors"`
	ScannedAt time.Time     `json:"scanned_at" yaml:"scanned_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Summary totals res.
func Summary(res *entry.DriveScanResult) ScanSummary {
	if res == nil {
		return ScanSummary{}
	}
	return ScanSummary{
		Root:      res.Root,
		TotalSize: res.TotalSize(),
		Files:     int64(len(res.Files)),
		Folders:   int64(len(res.Folders)),
		Errors:    res.Errors,
		ScannedAt: res.ScannedAt,
		Duration:  res.Duration,
	}
}
