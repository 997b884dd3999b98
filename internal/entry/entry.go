package entry

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kind represents the type of filesystem entry.
type Kind uint8

const (
	KindFile    Kind = 0
	KindDir     Kind = 1
	KindSymlink Kind = 2
	KindOther   Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// KindFromMode derives the Kind from an os.FileMode.
func KindFromMode(mode os.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDir
	case mode&os.ModeSymlink != 0:
		return KindSymlink
	default:
		return KindOther
	}
}

// FileRecord is one regular file discovered during a walk.
// Timestamps are nil when the filesystem did not report them.
type FileRecord struct {
	Path       string     `json:"path" yaml:"path"`
	Size       int64      `json:"size" yaml:"size"`
	ModTime    *time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`
	AccessTime *time.Time `json:"accessed,omitempty" yaml:"accessed,omitempty"`
}

// Ext returns the lowercased extension including the leading dot,
// or "" when the file name has none. A leading dot marks a hidden file,
// not an extension: ".bashrc" has none, ".config.yaml" has ".yaml".
func (f FileRecord) Ext() string {
	name := strings.TrimPrefix(filepath.Base(f.Path), ".")
	ext := filepath.Ext(name)
	if ext == "." {
		return ""
	}
	return strings.ToLower(ext)
}

// Dir returns the directory containing the file.
func (f FileRecord) Dir() string {
	return filepath.Dir(f.Path)
}

// FolderAggregate holds totals for everything beneath a directory.
type FolderAggregate struct {
	Path      string `json:"path" yaml:"path"`
	Depth     int    `json:"depth" yaml:"depth"`
	TotalSize int64  `json:"total_size" yaml:"total_size"`
	FileCount int64  `json:"file_count" yaml:"file_count"`
	DirCount  int64  `json:"dir_count" yaml:"dir_count"`
	// Incomplete is set when something beneath the folder could not be read.
	Incomplete bool `json:"incomplete,omitempty" yaml:"incomplete,omitempty"`
}

// Add accumulates another aggregate's totals. DirCount of the child is
// added along with the child itself.
func (a *FolderAggregate) Add(child *FolderAggregate) {
	a.TotalSize += child.TotalSize
	a.FileCount += child.FileCount
	a.DirCount += child.DirCount + 1
	a.Incomplete = a.Incomplete || child.Incomplete
}

// DriveScanResult is the output of one walk of a drive.
// It must not be modified after it has been installed in a cache.
type DriveScanResult struct {
	Root      string
	Files     []FileRecord
	Folders   map[string]*FolderAggregate
	ScannedAt time.Time
	Duration  time.Duration
	Errors    int64
	Samples   []ScanError
}

// TotalSize returns the apparent size of every file in the result.
func (r *DriveScanResult) TotalSize() int64 {
	if root, ok := r.Folders[r.Root]; ok {
		return root.TotalSize
	}
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// Folder returns the aggregate for path, or nil.
func (r *DriveScanResult) Folder(path string) *FolderAggregate {
	return r.Folders[path]
}

// ScanError represents an error encountered during scanning.
type ScanError struct {
	Path    string
	Message string
}
