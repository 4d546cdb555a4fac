package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patchdup/patchdup/pkg/dup"
)

func TestLoadMissingCacheReturnsNil(t *testing.T) {
	assert.Nil(t, Load(t.TempDir(), "deadbeef"))
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	files := []dup.FileDescriptor{
		{Filename: "a.go", Patch: "patch a"},
		{Filename: "b.go", Patch: "patch b"},
	}

	Save(dir, "deadbeef", files)
	c := Load(dir, "deadbeef")

	if assert.NotNil(t, c) {
		assert.Len(t, c.Files, 2)
	}
}

func TestLoadRejectsMismatchedHeadSHA(t *testing.T) {
	dir := t.TempDir()
	Save(dir, "deadbeef", []dup.FileDescriptor{{Filename: "a.go", Patch: "x"}})

	assert.Nil(t, Load(dir, "other-sha"))
}

func TestLookupHitsOnlyWhenContentHashMatches(t *testing.T) {
	dir := t.TempDir()
	Save(dir, "deadbeef", []dup.FileDescriptor{{Filename: "a.go", Patch: "unchanged"}})
	c := Load(dir, "deadbeef")

	_, ok := c.Lookup("a.go", "unchanged")
	assert.True(t, ok)

	_, ok = c.Lookup("a.go", "changed since")
	assert.False(t, ok)
}

func TestReconcileCountsHits(t *testing.T) {
	dir := t.TempDir()
	Save(dir, "deadbeef", []dup.FileDescriptor{{Filename: "a.go", Patch: "same"}})
	c := Load(dir, "deadbeef")

	fresh := []dup.FileDescriptor{
		{Filename: "a.go", Patch: "same"},
		{Filename: "b.go", Patch: "new file"},
	}
	out, hits := Reconcile(c, fresh)

	assert.Equal(t, 1, hits)
	assert.Len(t, out, 2)
}

func TestReconcileWithNilCacheIsAllMisses(t *testing.T) {
	fresh := []dup.FileDescriptor{{Filename: "a.go", Patch: "x"}}
	out, hits := Reconcile(nil, fresh)

	assert.Equal(t, 0, hits)
	assert.Equal(t, fresh, out)
}
