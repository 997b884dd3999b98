package query

import (
	"sort"
	"time"

	"github.com/michaelscutari/dugout/internal/entry"
)

// LargestFiles returns the n largest files, largest first. n <= 0 returns
// every file.
func LargestFiles(res *entry.DriveScanResult, n int) []entry.FileRecord {
	if res == nil {
		return nil
	}
	return topBySize(res.Files, n, func(entry.FileRecord) bool { return true })
}

// RecentFiles returns the n largest files modified less than window before
// now. Files without a modification time are never recent.
func RecentFiles(res *entry.DriveScanResult, now time.Time, window time.Duration, n int) []entry.FileRecord {
	if res == nil {
		return nil
	}
	return topBySize(res.Files, n, func(f entry.FileRecord) bool {
		return f.ModTime != nil && now.Sub(*f.ModTime) < window
	})
}

// OldFiles returns the n largest files modified more than age before now.
// Files without a modification time are never old.
func OldFiles(res *entry.DriveScanResult, now time.Time, age time.Duration, n int) []entry.FileRecord {
	if res == nil {
		return nil
	}
	return topBySize(res.Files, n, func(f entry.FileRecord) bool {
		return f.ModTime != nil && now.Sub(*f.ModTime) > age
	})
}

// topBySize copies the files that pass keep, so the cached slice is never
// reordered, and returns the n largest. Ties are broken by path.
func topBySize(files []entry.FileRecord, n int, keep func(entry.FileRecord) bool) []entry.FileRecord {
	out := make([]entry.FileRecord, 0)
	for _, f := range files {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		return out[i].Path < out[j].Path
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
