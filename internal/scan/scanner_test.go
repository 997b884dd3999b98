package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testOptions(workers int) *ScanOptions {
	opts := DefaultOptions().WithWorkers(workers)
	opts.Log = nil
	return opts
}

func TestScannerWalksTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 100)
	writeFile(t, filepath.Join(root, "docs", "b.txt"), 200)
	writeFile(t, filepath.Join(root, "docs", "deep", "c"), 50)
	if err := os.MkdirAll(filepath.Join(root, "empty", "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	for _, workers := range []int{1, 4} {
		res, err := NewScanner(testOptions(workers)).Run(context.Background(), root)
		if err != nil {
			t.Fatalf("workers=%d: scan failed: %v", workers, err)
		}

		if len(res.Files) != 3 {
			t.Fatalf("workers=%d: expected 3 files, got %d", workers, len(res.Files))
		}
		if res.TotalSize() != 350 {
			t.Fatalf("workers=%d: expected total 350, got %d", workers, res.TotalSize())
		}

		docs := res.Folder(filepath.Join(root, "docs"))
		if docs == nil || docs.TotalSize != 250 || docs.FileCount != 2 || docs.DirCount != 1 || docs.Depth != 1 {
			t.Fatalf("workers=%d: unexpected docs aggregate: %+v", workers, docs)
		}

		nested := res.Folder(filepath.Join(root, "empty", "nested"))
		if nested == nil || nested.FileCount != 0 || nested.Depth != 2 {
			t.Fatalf("workers=%d: empty folders must be registered, got %+v", workers, nested)
		}

		for _, f := range res.Files {
			if f.ModTime == nil {
				t.Fatalf("workers=%d: missing mtime for %s", workers, f.Path)
			}
		}
	}
}

func TestScannerDoesNotFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "big.bin"), 4096)
	writeFile(t, filepath.Join(root, "small.bin"), 10)
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	res, err := NewScanner(testOptions(2)).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if res.TotalSize() != 10 || len(res.Files) != 1 {
		t.Fatalf("symlink target was counted: total=%d files=%d", res.TotalSize(), len(res.Files))
	}
	if res.Folder(filepath.Join(root, "link")) != nil {
		t.Fatalf("symlink registered as folder")
	}
}

func TestScannerExcludesPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", "a"), 10)
	writeFile(t, filepath.Join(root, "node_modules", ".cache", "junk"), 1000)
	writeFile(t, filepath.Join(root, "skipme", "b"), 1000)

	opts := testOptions(2)
	if err := opts.AddExcludePattern(`/skipme$`); err != nil {
		t.Fatalf("add pattern: %v", err)
	}

	res, err := NewScanner(opts).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if res.TotalSize() != 10 {
		t.Fatalf("excluded subtrees were counted: total=%d", res.TotalSize())
	}
	if res.Folder(filepath.Join(root, "skipme")) != nil {
		t.Fatalf("excluded folder registered")
	}
}

func TestScannerRootErrors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain")
	writeFile(t, file, 1)

	_, err := NewScanner(testOptions(1)).Run(context.Background(), file)
	var rootErr *RootError
	if !errors.As(err, &rootErr) || !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected RootError wrapping ErrNotDirectory, got %v", err)
	}

	_, err = NewScanner(testOptions(1)).Run(context.Background(), filepath.Join(root, "missing"))
	if !errors.As(err, &rootErr) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected RootError wrapping ErrNotExist, got %v", err)
	}
}

func TestScannerHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b"), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewScanner(testOptions(2)).Run(ctx, root)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res != nil {
		t.Fatalf("cancelled walk returned a result")
	}
}

func TestScannerReportsProgress(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 5)

	var calls atomic.Int64
	var last atomic.Int64
	var done atomic.Bool
	opts := testOptions(1).WithProgress(func(p Progress) {
		if done.Load() {
			t.Errorf("progress reported after Done")
		}
		calls.Add(1)
		last.Store(p.TotalBytes)
		done.Store(p.Done)
	})

	if _, err := NewScanner(opts).Run(context.Background(), root); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if calls.Load() == 0 || last.Load() != 5 || !done.Load() {
		t.Fatalf("expected a final progress report with 5 bytes, calls=%d bytes=%d done=%v", calls.Load(), last.Load(), done.Load())
	}
}

func TestWalkerUsesFreshScanner(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 1)

	w := NewWalker(testOptions(2))
	for i := 0; i < 2; i++ {
		res, err := w.Walk(context.Background(), root)
		if err != nil {
			t.Fatalf("walk %d failed: %v", i, err)
		}
		if res.TotalSize() != 1 {
			t.Fatalf("walk %d total = %d", i, res.TotalSize())
		}
	}
}

func TestDefaultExcludes(t *testing.T) {
	for _, p := range DefaultExcludes {
		if _, err := regexp.Compile(p); err != nil {
			t.Fatalf("default pattern %q does not compile: %v", p, err)
		}
	}

	opts := DefaultOptions()
	excluded := []string{
		"/home/u/.local/share/Trash",
		"/home/u/.Trash-1000",
		"C:/$Recycle.Bin",
		"/mnt/disk/lost+found",
		"/proc",
		"/sys/kernel",
		"/home/u/project/node_modules/.cache",
		"/home/u/.cache/go-build",
	}
	for _, p := range excluded {
		if !opts.ShouldExclude(p) {
			t.Fatalf("expected %s to be excluded", p)
		}
	}

	kept := []string{"/home/u/docs", "/home/u/node_modules", "/home/u/processes", "/srv/dev-tools"}
	for _, p := range kept {
		if opts.ShouldExclude(p) {
			t.Fatalf("expected %s to be kept", p)
		}
	}
}
