// Package platform answers drive space and drive enumeration queries
// through gopsutil.
package platform

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v4/disk"
)

// Space describes capacity of the filesystem holding a drive.
type Space struct {
	Drive       string  `json:"drive" yaml:"drive"`
	Total       uint64  `json:"total" yaml:"total"`
	Used        uint64  `json:"used" yaml:"used"`
	Free        uint64  `json:"free" yaml:"free"`
	FreePercent float64 `json:"free_percent" yaml:"free_percent"`
}

// NewSpace derives used space and the free percentage from total and free.
// Used saturates at zero when free exceeds total.
func NewSpace(drive string, total, free uint64) Space {
	s := Space{Drive: drive, Total: total, Free: free}
	if total > free {
		s.Used = total - free
	}
	if total > 0 {
		s.FreePercent = float64(free) / float64(total) * 100
	}
	return s
}

// SpaceProvider is the OS capability consumed by the analyzer.
type SpaceProvider interface {
	Space(ctx context.Context, drive string) (Space, error)
	Drives(ctx context.Context) ([]string, error)
}

// Error reports a failed OS query with the underlying error attached.
type Error struct {
	Op    string
	Drive string
	Err   error
}

func (e *Error) Error() string {
	if e.Drive == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Drive, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// pseudoFS lists filesystem types that never hold user data.
var pseudoFS = map[string]bool{
	"autofs": true, "binfmt_misc": true, "bpf": true, "cgroup": true,
	"cgroup2": true, "configfs": true, "debugfs": true, "devpts": true,
	"devtmpfs": true, "efivarfs": true, "fusectl": true, "hugetlbfs": true,
	"mqueue": true, "nsfs": true, "proc": true, "pstore": true,
	"ramfs": true, "securityfs": true, "squashfs": true, "sysfs": true,
	"tmpfs": true, "tracefs": true, "devfs": true, "nullfs": true,
}

// Disk implements SpaceProvider with gopsutil.
type Disk struct {
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
}

// NewDisk returns a SpaceProvider for the local machine.
func NewDisk() *Disk {
	return &Disk{
		usage:      disk.UsageWithContext,
		partitions: disk.PartitionsWithContext,
	}
}

// Space queries total and free bytes of the filesystem holding drive.
func (d *Disk) Space(ctx context.Context, drive string) (Space, error) {
	u, err := d.usage(ctx, drive)
	if err != nil {
		return Space{}, &Error{Op: "drive space", Drive: drive, Err: err}
	}
	return NewSpace(drive, u.Total, u.Free), nil
}

// Drives lists mount points of physical partitions, sorted and without
// duplicates. Pseudo filesystems are skipped.
func (d *Disk) Drives(ctx context.Context) ([]string, error) {
	parts, err := d.partitions(ctx, false)
	if err != nil {
		return nil, &Error{Op: "list drives", Err: err}
	}

	seen := make(map[string]bool, len(parts))
	var drives []string
	for _, p := range parts {
		if p.Mountpoint == "" || pseudoFS[p.Fstype] || seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true
		drives = append(drives, p.Mountpoint)
	}
	sort.Strings(drives)
	return drives, nil
}
