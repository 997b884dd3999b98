//go:build darwin

package scan

import (
	"os"
	"syscall"
	"time"
)

func deviceID(info os.FileInfo) (uint64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(st.Dev), true
}

func accessTime(info os.FileInfo) *time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	t := time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
	return &t
}
