// Package cache memoizes gitdiff extraction results on disk, keyed by
// the head ref string it is given and a content hash of each file's
// patch text.
// Grounded on the scanner's cache.go (FileCache/CachedFile, gob-encoded,
// mtime-keyed), generalized here from mtime-based invalidation — which
// is meaningless for git refs, which have no mtime of their own — to
// content-hash-based invalidation. pkg/dup.Analyze never sees this
// package; it lives strictly in the CLI layer, preserving the core's
// statelessness.
package cache

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/patchdup/patchdup/pkg/dup"
)

const cacheVersion = 1

// CachedFile is one file's memoized extraction result, content-addressed
// by a hash of its patch text.
type CachedFile struct {
	ContentHash uint64
	Descriptor  dup.FileDescriptor
}

// FileCache is the gob-encoded on-disk cache for one head commit.
type FileCache struct {
	Version int
	HeadSHA string
	Files   map[string]CachedFile
}

func cachePath(dir string) string {
	return filepath.Join(dir, ".patchdup", "gitdiff-cache.gob")
}

// Load reads the cache for dir if present and matching headSHA, else
// returns nil — a missing or stale cache is never an error, the caller
// simply re-extracts everything.
func Load(dir, headSHA string) *FileCache {
	f, err := os.Open(cachePath(dir))
	if err != nil {
		return nil
	}
	defer f.Close()

	var c FileCache
	if err := gob.NewDecoder(f).Decode(&c); err != nil {
		return nil
	}
	if c.Version != cacheVersion || c.HeadSHA != headSHA {
		return nil
	}
	return &c
}

// Save writes descriptors to the on-disk cache for headSHA, overwriting
// whatever was there before. Failures are silent: a cache write failure
// must never fail the scan itself.
func Save(dir, headSHA string, descriptors []dup.FileDescriptor) {
	c := FileCache{
		Version: cacheVersion,
		HeadSHA: headSHA,
		Files:   make(map[string]CachedFile, len(descriptors)),
	}
	for _, fd := range descriptors {
		c.Files[fd.Filename] = CachedFile{
			ContentHash: xxhash.Sum64String(fd.Patch),
			Descriptor:  fd,
		}
	}

	path := cachePath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_ = gob.NewEncoder(f).Encode(c)
}

// Lookup returns the cached descriptor for filename if its patch text's
// content hash still matches what was cached, signaling the file is
// unchanged since the cache was written and its extraction can be
// skipped.
func (c *FileCache) Lookup(filename, patch string) (dup.FileDescriptor, bool) {
	if c == nil {
		return dup.FileDescriptor{}, false
	}
	cached, ok := c.Files[filename]
	if !ok {
		return dup.FileDescriptor{}, false
	}
	if cached.ContentHash != xxhash.Sum64String(patch) {
		return dup.FileDescriptor{}, false
	}
	return cached.Descriptor, true
}

// Reconcile applies Lookup across fresh descriptors, returning the same
// slice with any cache-hit entries swapped for their cached copy (a
// no-op when content matches, but gives the caller an explicit hit
// count for status output) and the number of hits.
func Reconcile(c *FileCache, fresh []dup.FileDescriptor) ([]dup.FileDescriptor, int) {
	hits := 0
	out := make([]dup.FileDescriptor, len(fresh))
	for i, fd := range fresh {
		if cached, ok := c.Lookup(fd.Filename, fd.Patch); ok {
			out[i] = cached
			hits++
			continue
		}
		out[i] = fd
	}
	return out, hits
}
