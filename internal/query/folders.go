package query

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/pathutil"
)

// FolderFilter selects folders for LargestFolders.
type FolderFilter struct {
	// MaxDepth bounds the search to folders 1..MaxDepth levels below the
	// root. Zero or less means unbounded.
	MaxDepth int
	// MinBytes is exclusive: a folder must be strictly larger.
	MinBytes int64
	// SkipHidden drops folders whose own name starts with a dot.
	SkipHidden bool
}

// LargestFolders returns the n largest folders matching f, largest first.
// The scan root itself is never included.
func LargestFolders(res *entry.DriveScanResult, f FolderFilter, n int) []entry.FolderAggregate {
	if res == nil {
		return nil
	}
	var out []entry.FolderAggregate
	for _, agg := range res.Folders {
		if agg.Depth < 1 || (f.MaxDepth > 0 && agg.Depth > f.MaxDepth) {
			continue
		}
		if agg.TotalSize <= f.MinBytes {
			continue
		}
		if f.SkipHidden && pathutil.IsHidden(agg.Path) {
			continue
		}
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSize != out[j].TotalSize {
			return out[i].TotalSize > out[j].TotalSize
		}
		return out[i].Path < out[j].Path
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// EmptyFolders returns every folder below the root with no files anywhere
// beneath it, sorted by path. Folders with unreadable contents are left
// out.
func EmptyFolders(res *entry.DriveScanResult) []string {
	if res == nil {
		return nil
	}
	var out []string
	for path, agg := range res.Folders {
		if agg.Depth == 0 || agg.FileCount != 0 || agg.Incomplete {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// DirLister lists the direct children of a directory.
type DirLister func(path string) ([]os.DirEntry, error)

// VerifyEmpty re-checks candidates against the live filesystem. A
// candidate is kept only if it can still be listed, holds no entries other
// than directories, and its name is not in reserved. A nil lister uses
// os.ReadDir.
func VerifyEmpty(candidates []string, reserved []string, lister DirLister) []string {
	if lister == nil {
		lister = os.ReadDir
	}
	skip := make(map[string]struct{}, len(reserved))
	for _, name := range reserved {
		skip[name] = struct{}{}
	}

	var out []string
	for _, dir := range candidates {
		if _, ok := skip[filepath.Base(dir)]; ok {
			continue
		}
		children, err := lister(dir)
		if err != nil {
			continue
		}
		if hasNonDir(children) {
			continue
		}
		out = append(out, dir)
	}
	return out
}

func hasNonDir(children []os.DirEntry) bool {
	for _, c := range children {
		if !c.IsDir() {
			return true
		}
	}
	return false
}
