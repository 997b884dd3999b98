//go:build linux

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
	t := time.Unix(int64(st.Atim.Sec), int64(st.Atim.Nsec))
	return &t
}
