package platform

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shirou/gopsutil/v4/disk"
)

func TestNewSpace(t *testing.T) {
	s := NewSpace("C:/", 1000, 250)
	if s.Used != 750 || s.Free != 250 || s.FreePercent != 25 {
		t.Fatalf("unexpected space: %+v", s)
	}

	// Used saturates rather than wrapping.
	s = NewSpace("X:/", 100, 200)
	if s.Used != 0 {
		t.Fatalf("expected saturated used space, got %d", s.Used)
	}

	s = NewSpace("Z:/", 0, 0)
	if s.FreePercent != 0 {
		t.Fatalf("expected 0%% free on empty drive, got %f", s.FreePercent)
	}
}

func TestDiskSpaceWrapsErrors(t *testing.T) {
	boom := errors.New("no such device")
	d := &Disk{
		usage: func(context.Context, string) (*disk.UsageStat, error) { return nil, boom },
	}

	_, err := d.Space(context.Background(), "Q:/")
	var perr *Error
	if !errors.As(err, &perr) || !errors.Is(err, boom) || perr.Drive != "Q:/" {
		t.Fatalf("expected *Error wrapping cause, got %v", err)
	}
}

func TestDiskDrivesSkipsPseudoFilesystems(t *testing.T) {
	d := &Disk{
		partitions: func(context.Context, bool) ([]disk.PartitionStat, error) {
			return []disk.PartitionStat{
				{Mountpoint: "/", Fstype: "ext4"},
				{Mountpoint: "/proc", Fstype: "proc"},
				{Mountpoint: "/home", Fstype: "btrfs"},
				{Mountpoint: "/home", Fstype: "btrfs"},
				{Mountpoint: "/run", Fstype: "tmpfs"},
				{Mountpoint: "/snap/core", Fstype: "squashfs"},
			}, nil
		},
	}

	drives, err := d.Drives(context.Background())
	if err != nil {
		t.Fatalf("drives: %v", err)
	}
	if !reflect.DeepEqual(drives, []string{"/", "/home"}) {
		t.Fatalf("unexpected drives: %v", drives)
	}
}

func TestDiskSpaceOnTempDir(t *testing.T) {
	s, err := NewDisk().Space(context.Background(), t.TempDir())
	if err != nil {
		t.Skipf("disk usage unavailable: %v", err)
	}
	if s.Free > s.Total || s.Used+s.Free != s.Total {
		t.Fatalf("implausible space: %+v", s)
	}
}
