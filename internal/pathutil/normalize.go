package pathutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidDrive is returned when a drive identifier cannot be normalized.
var ErrInvalidDrive = errors.New("invalid drive format: use a single letter (e.g. 'C'), a drive path (e.g. 'C:/') or an absolute path")

// Normalize returns a canonical filesystem path string.
// It removes trailing slashes, collapses "." and "..", and
// preserves relative paths when provided.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

// NormalizeDrive turns a user supplied drive identifier into the root path
// the engine scans. A single letter becomes "<LETTER>:/", a drive path is
// upper-cased, and anything else must already be an absolute path.
func NormalizeDrive(drive string) (string, error) {
	d := strings.TrimSpace(drive)
	switch {
	case d == "":
		return "", ErrInvalidDrive
	case len(d) == 1 && isASCIILetter(d[0]):
		return strings.ToUpper(d) + ":/", nil
	case isDrivePath(d):
		return strings.ToUpper(d[:1]) + ":/", nil
	case filepath.IsAbs(d) || strings.HasPrefix(d, "/"):
		return Normalize(d), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDrive, drive)
}

// Depth returns how many path components path lies below root.
// It returns -1 when path is not inside root.
func Depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return -1
	}
	if rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// Parent returns the parent directory of path, or "" once root is reached.
func Parent(root, path string) string {
	if path == root {
		return ""
	}
	parent := filepath.Dir(path)
	if parent == path {
		return ""
	}
	return parent
}

// IsHidden reports whether the final path component starts with a dot.
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func isDrivePath(d string) bool {
	if len(d) != 3 || !isASCIILetter(d[0]) || d[1] != ':' {
		return false
	}
	return d[2] == '/' || d[2] == '\\'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
