// Package cache memoizes one walk result per drive.
//
// A drive moves from uncached to scanning on its first request and to
// cached once the walk succeeds. Concurrent requests for a drive that is
// being walked join that walk instead of starting another one.
package cache

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/michaelscutari/dugout/internal/entry"
)

// Walker produces a complete scan result for a root.
type Walker interface {
	Walk(ctx context.Context, root string) (*entry.DriveScanResult, error)
}

// Cache holds at most one installed result per drive.
type Cache struct {
	walker Walker
	group  singleflight.Group

	mu      sync.RWMutex
	entries map[string]*entry.DriveScanResult
	// gens changes whenever a drive is invalidated; a walk installs its
	// result only if the generation it started under is still current.
	gens map[string]uint64

	log io.Writer
}

// Option configures a Cache.
type Option func(*Cache)

// WithLog enables diagnostics on w.
func WithLog(w io.Writer) Option {
	return func(c *Cache) { c.log = w }
}

// New creates an empty cache backed by w.
func New(w Walker, opts ...Option) *Cache {
	c := &Cache{
		walker:  w,
		entries: make(map[string]*entry.DriveScanResult),
		gens:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrScan returns the cached result for drive, walking it first if
// needed. The walk is shared by every concurrent caller and is not
// cancelled when one of them gives up; ctx only bounds this caller's wait.
func (c *Cache) GetOrScan(ctx context.Context, drive string) (*entry.DriveScanResult, error) {
	if res, ok := c.Lookup(drive); ok {
		c.logf("[CACHE] HIT drive=%s\n", drive)
		return res, nil
	}

	return c.await(ctx, drive, false)
}

func (c *Cache) await(ctx context.Context, drive string, fresh bool) (*entry.DriveScanResult, error) {
	ch := c.group.DoChan(drive, func() (any, error) {
		return c.walk(context.WithoutCancel(ctx), drive, fresh)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*entry.DriveScanResult), nil
	}
}

func (c *Cache) walk(ctx context.Context, drive string, fresh bool) (*entry.DriveScanResult, error) {
	c.mu.Lock()
	// Another caller may have installed a result between Lookup and DoChan.
	if res, ok := c.entries[drive]; ok && !fresh {
		c.mu.Unlock()
		return res, nil
	}
	gen := c.gens[drive]
	c.gens[drive] = gen
	c.mu.Unlock()

	c.logf("[CACHE] MISS drive=%s walking\n", drive)
	start := time.Now()
	res, err := c.walker.Walk(ctx, drive)
	if err != nil {
		c.logf("[CACHE] WALK-FAILED drive=%s err=%v\n", drive, err)
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("walk of %s returned no result", drive)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[drive] != gen {
		c.logf("[CACHE] STALE drive=%s result not installed\n", drive)
		return res, nil
	}
	c.entries[drive] = res
	c.logf("[CACHE] INSTALLED drive=%s files=%d took=%s\n", drive, len(res.Files), time.Since(start))
	return res, nil
}

// Lookup returns the installed result for drive without walking.
func (c *Cache) Lookup(drive string) (*entry.DriveScanResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[drive]
	return res, ok
}

// Invalidate drops the result for drive. A walk already running for it
// will not install its result, and the next request starts a new walk.
func (c *Cache) Invalidate(drive string) {
	c.mu.Lock()
	delete(c.entries, drive)
	c.gens[drive]++
	c.mu.Unlock()
	c.group.Forget(drive)
	c.logf("[CACHE] INVALIDATED drive=%s\n", drive)
}

// Rescan replaces the result for drive with a fresh walk. Until the walk
// succeeds, readers keep seeing the prior result; if it fails, the prior
// result stays installed.
func (c *Cache) Rescan(ctx context.Context, drive string) (*entry.DriveScanResult, error) {
	c.mu.Lock()
	c.gens[drive]++
	c.mu.Unlock()
	c.group.Forget(drive)
	c.logf("[CACHE] RESCAN drive=%s\n", drive)
	return c.await(ctx, drive, true)
}

// Drives lists the drives with an installed result, sorted.
func (c *Cache) Drives() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	drives := make([]string, 0, len(c.entries))
	for d := range c.entries {
		drives = append(drives, d)
	}
	sort.Strings(drives)
	return drives
}

// Clear drops every installed result.
func (c *Cache) Clear() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.gens))
	for d := range c.gens {
		c.gens[d]++
		keys = append(keys, d)
	}
	c.entries = make(map[string]*entry.DriveScanResult)
	c.mu.Unlock()

	for _, d := range keys {
		c.group.Forget(d)
	}
}

func (c *Cache) logf(format string, args ...any) {
	if c.log != nil {
		fmt.Fprintf(c.log, format, args...)
	}
}
