//go:build !linux && !darwin

package scan

import (
	"os"
	"time"
)

// Without a portable stat structure, device checks are disabled and access
// times are unknown.
func deviceID(os.FileInfo) (uint64, bool) { return 0, false }

func accessTime(os.FileInfo) *time.Time { return nil }
