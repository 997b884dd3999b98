package rollup

import (
	"reflect"
	"testing"

	"github.com/michaelscutari/dugout/internal/entry"
)

func file(path string, size int64) entry.FileRecord {
	return entry.FileRecord{Path: path, Size: size}
}

func TestBuildRollsUpToRoot(t *testing.T) {
	p := NewPartial()
	p.AddDir("/root")
	p.AddDir("/root/a")
	p.AddFile(file("/root/a/file1", 10))
	p.AddFile(file("/root/a/file2", 5))
	p.AddDir("/root/b")
	p.AddFile(file("/root/b/file3", 20))
	p.AddDir("/root/b/empty")

	aggs := Build("/root", p)

	a := aggs["/root/a"]
	if a == nil || a.TotalSize != 15 || a.FileCount != 2 || a.DirCount != 0 || a.Depth != 1 {
		t.Fatalf("unexpected /root/a aggregate: %+v", a)
	}

	b := aggs["/root/b"]
	if b == nil || b.TotalSize != 20 || b.FileCount != 1 || b.DirCount != 1 {
		t.Fatalf("unexpected /root/b aggregate: %+v", b)
	}

	empty := aggs["/root/b/empty"]
	if empty == nil || empty.TotalSize != 0 || empty.FileCount != 0 || empty.Depth != 2 {
		t.Fatalf("unexpected empty aggregate: %+v", empty)
	}

	root := aggs["/root"]
	if root == nil || root.TotalSize != 35 || root.FileCount != 3 || root.DirCount != 3 || root.Depth != 0 {
		t.Fatalf("unexpected root aggregate: %+v", root)
	}
}

func TestBuildCreatesMissingAncestors(t *testing.T) {
	p := NewPartial()
	p.AddFile(file("/root/x/y/z/deep.bin", 7))

	aggs := Build("/root", p)

	for _, path := range []string{"/root", "/root/x", "/root/x/y", "/root/x/y/z"} {
		agg := aggs[path]
		if agg == nil {
			t.Fatalf("missing aggregate for %s", path)
		}
		if agg.TotalSize != 7 || agg.FileCount != 1 {
			t.Fatalf("unexpected aggregate for %s: %+v", path, agg)
		}
	}
	if aggs["/root/x"].DirCount != 2 {
		t.Fatalf("expected 2 nested dirs under /root/x, got %d", aggs["/root/x"].DirCount)
	}
}

func TestBuildRootAlwaysExists(t *testing.T) {
	aggs := Build("/empty", nil)
	root := aggs["/empty"]
	if root == nil || root.TotalSize != 0 || root.FileCount != 0 {
		t.Fatalf("unexpected root aggregate: %+v", root)
	}
}

func TestBuildConservesBytes(t *testing.T) {
	p := NewPartial()
	var want int64
	sizes := map[string]int64{
		"/r/a.txt":       100,
		"/r/d1/b.txt":    200,
		"/r/d1/d2/c":     50,
		"/r/d3/d4/d5/e":  1,
		"/r/d3/f.go":     999,
		"/r/d1/d2/g.bin": 4096,
	}
	for path, size := range sizes {
		p.AddFile(file(path, size))
		want += size
	}

	aggs := Build("/r", p)
	if got := aggs["/r"].TotalSize; got != want {
		t.Fatalf("root total = %d, want %d", got, want)
	}
	if got := aggs["/r"].FileCount; got != int64(len(sizes)) {
		t.Fatalf("root file count = %d, want %d", got, len(sizes))
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	a := NewPartial()
	a.AddDir("/r")
	a.AddFile(file("/r/one", 1))
	a.AddFile(file("/r/x/two", 2))

	b := NewPartial()
	b.AddDir("/r/x")
	b.AddFile(file("/r/x/three", 3))
	b.AddDir("/r/y")

	c := NewPartial()
	c.AddFile(file("/r/y/z/four", 4))

	forward := Build("/r", Merge(a, b, c))
	reversed := Build("/r", Merge(c, b, a))

	if !reflect.DeepEqual(forward, reversed) {
		t.Fatalf("merge order changed aggregates:\nforward=%v\nreversed=%v", forward, reversed)
	}
	if forward["/r/x"].TotalSize != 5 || forward["/r/x"].FileCount != 2 {
		t.Fatalf("unexpected /r/x aggregate: %+v", forward["/r/x"])
	}
}

func TestMergeSkipsNil(t *testing.T) {
	a := NewPartial()
	a.AddFile(file("/r/one", 1))

	merged := Merge(nil, a, nil)
	if len(merged.Files) != 1 || merged.Dirs["/r"].FileSize != 1 {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}

func TestBuildMarksAncestorsOfUnreadDirectories(t *testing.T) {
	p := NewPartial()
	p.AddDir("/root")
	p.AddDir("/root/p")
	p.AddDir("/root/other")
	// /root/p/q could not be listed, so it was never registered.
	p.MarkIncomplete("/root/p/q")

	other := NewPartial()
	other.AddDir("/root/x/y")
	other.MarkIncomplete("/root/x/y")

	aggs := Build("/root", Merge(p, other))

	if _, ok := aggs["/root/p/q"]; ok {
		t.Fatalf("unread directory must not be registered")
	}
	for _, path := range []string{"/root/p", "/root/x/y", "/root/x", "/root"} {
		if agg := aggs[path]; agg == nil || !agg.Incomplete {
			t.Fatalf("expected %s to be incomplete: %+v", path, agg)
		}
	}
	if aggs["/root/other"].Incomplete {
		t.Fatalf("sibling marked incomplete")
	}
}
