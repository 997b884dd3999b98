package rollup

import (
	"path/filepath"

	"github.com/michaelscutari/dugout/internal/entry"
)

// DirTotals holds the bytes and count of files directly inside one directory.
type DirTotals struct {
	FileSize  int64
	FileCount int64
}

// Partial is the output of a single walker goroutine. It is not safe for
// concurrent use; each worker owns its own.
type Partial struct {
	Files []entry.FileRecord
	Dirs  map[string]*DirTotals
	// Incomplete holds directories whose contents were not fully read.
	Incomplete map[string]struct{}
}

// NewPartial creates an empty partial result.
func NewPartial() *Partial {
	return &Partial{
		Dirs:       make(map[string]*DirTotals),
		Incomplete: make(map[string]struct{}),
	}
}

// MarkIncomplete records that some entries of dir could not be read.
func (p *Partial) MarkIncomplete(dir string) {
	if p.Incomplete == nil {
		p.Incomplete = make(map[string]struct{})
	}
	p.Incomplete[dir] = struct{}{}
}

// AddDir registers a visited directory. Registering twice is harmless.
func (p *Partial) AddDir(path string) *DirTotals {
	if t, ok := p.Dirs[path]; ok {
		return t
	}
	t := &DirTotals{}
	p.Dirs[path] = t
	return t
}

// AddFile records a file and charges its size to the containing directory.
func (p *Partial) AddFile(rec entry.FileRecord) {
	p.Files = append(p.Files, rec)
	t := p.AddDir(filepath.Dir(rec.Path))
	t.FileSize += rec.Size
	t.FileCount++
}

// Merge combines partials by addition. The result does not depend on the
// order of parts; nil parts are ignored.
func Merge(parts ...*Partial) *Partial {
	total := 0
	for _, p := range parts {
		if p != nil {
			total += len(p.Files)
		}
	}

	merged := &Partial{
		Files:      make([]entry.FileRecord, 0, total),
		Dirs:       make(map[string]*DirTotals),
		Incomplete: make(map[string]struct{}),
	}
	for _, p := range parts {
		if p == nil {
			continue
		}
		merged.Files = append(merged.Files, p.Files...)
		for path, t := range p.Dirs {
			dst := merged.AddDir(path)
			dst.FileSize += t.FileSize
			dst.FileCount += t.FileCount
		}
		for path := range p.Incomplete {
			merged.Incomplete[path] = struct{}{}
		}
	}
	return merged
}
