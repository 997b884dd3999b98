package rollup

import (
	"path/filepath"
	"sort"

	"github.com/michaelscutari/dugout/internal/entry"
	"github.com/michaelscutari/dugout/internal/pathutil"
)

// Build computes folder aggregates for every directory in merged,
// processing from deepest to shallowest so each folder is complete before
// it is added to its parent. Missing ancestors between a directory and root
// are created, so the root aggregate always exists. Directories outside
// root are dropped. An incomplete directory marks itself, or its parent
// when it was never listed, and the mark spreads to every ancestor.
func Build(root string, merged *Partial) map[string]*entry.FolderAggregate {
	root = filepath.Clean(root)
	aggs := make(map[string]*entry.FolderAggregate)
	aggs[root] = &entry.FolderAggregate{Path: root}

	if merged != nil {
		for path, t := range merged.Dirs {
			path = filepath.Clean(path)
			depth := pathutil.Depth(root, path)
			if depth < 0 {
				continue
			}
			agg := ensure(aggs, root, path, depth)
			agg.TotalSize += t.FileSize
			agg.FileCount += t.FileCount
		}
		for path := range merged.Incomplete {
			path = filepath.Clean(path)
			if agg, ok := aggs[path]; ok {
				agg.Incomplete = true
				continue
			}
			if depth := pathutil.Depth(root, path); depth > 0 {
				ensure(aggs, root, filepath.Dir(path), depth-1).Incomplete = true
			}
		}
	}

	dirs := make([]*entry.FolderAggregate, 0, len(aggs))
	for _, agg := range aggs {
		dirs = append(dirs, agg)
	}
	// Deepest first; path order only keeps the walk deterministic.
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].Depth != dirs[j].Depth {
			return dirs[i].Depth > dirs[j].Depth
		}
		return dirs[i].Path < dirs[j].Path
	})

	for _, agg := range dirs {
		if agg.Depth == 0 {
			continue
		}
		parent := aggs[filepath.Dir(agg.Path)]
		parent.Add(agg)
	}

	return aggs
}

// ensure returns the aggregate for path, creating it and any missing
// ancestors up to root.
func ensure(aggs map[string]*entry.FolderAggregate, root, path string, depth int) *entry.FolderAggregate {
	if agg, ok := aggs[path]; ok {
		return agg
	}
	agg := &entry.FolderAggregate{Path: path, Depth: depth}
	aggs[path] = agg

	for p, d := filepath.Dir(path), depth-1; d > 0; p, d = filepath.Dir(p), d-1 {
		if _, ok := aggs[p]; ok {
			break
		}
		aggs[p] = &entry.FolderAggregate{Path: p, Depth: d}
	}
	return agg
}
