// Package query derives reports from a completed scan. Every function is
// read-only over its DriveScanResult and safe to call concurrently.
package query

import (
	"sort"

	"github.com/michaelscutari/dugout/internal/entry"
)

// NoExtension groups files whose names carry no extension.
const NoExtension = "(no extension)"

// TypeStat is the total size and count of files sharing an extension.
type TypeStat struct {
	Ext       string `json:"ext" yaml:"ext"`
	TotalSize int64  `json:"total_size" yaml:"total_size"`
	Count     int64  `json:"count" yaml:"count"`
}

// TypeDistribution groups files by lowercased extension, drops groups
// smaller than minBytes and sorts the rest by size, largest first. Groups
// of equal size keep the order in which their first file was seen.
func TypeDistribution(res *entry.DriveScanResult, minBytes int64) []TypeStat {
	if res == nil {
		return nil
	}

	index := make(map[string]int)
	var stats []TypeStat
	for _, f := range res.Files {
		ext := f.Ext()
		if ext == "" {
			ext = NoExtension
		}
		i, ok := index[ext]
		if !ok {
			i = len(stats)
			index[ext] = i
			stats = append(stats, TypeStat{Ext: ext})
		}
		stats[i].TotalSize += f.Size
		stats[i].Count++
	}

	out := stats[:0]
	for _, s := range stats {
		if s.TotalSize >= minBytes {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSize > out[j].TotalSize
	})
	return out
}
