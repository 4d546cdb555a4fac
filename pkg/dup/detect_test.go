package dup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func blockAt(file string, start, end int, raw string) Block {
	norm := normalize(raw)
	return Block{
		File:           file,
		Lines:          LineRange{Start: start, End: end},
		RawCode:        raw,
		NormalizedCode: norm,
		Fingerprint:    fingerprint(norm),
	}
}

func TestDetectExactPassPairsSameFingerprintAcrossFiles(t *testing.T) {
	cfg := DefaultConfig()
	raw := "identical block of code across two files for testing"
	a := blockAt("a.go", 1, 10, raw)
	b := blockAt("b.go", 1, 10, raw)

	pairs := cfg.detect([]Block{a, b})

	assert.Len(t, pairs, 1)
	assert.Equal(t, 1.0, pairs[0].Similarity)
}

func TestDetectSkipsPairsFromTheSameFile(t *testing.T) {
	cfg := DefaultConfig()
	raw := "identical block of code within a single file"
	a := blockAt("a.go", 1, 10, raw)
	b := blockAt("a.go", 20, 29, raw)

	pairs := cfg.detect([]Block{a, b})

	assert.Empty(t, pairs)
}

func TestDetectFuzzyPassFindsNearDuplicatesBelowExactMatch(t *testing.T) {
	cfg := DefaultConfig()
	a := blockAt("a.go", 1, 10, "one two three four five six seven eight nine ten")
	b := blockAt("b.go", 1, 10, "one two three four five six seven eight nine ten eleven")

	pairs := cfg.detect([]Block{a, b})

	assert.Len(t, pairs, 1)
	assert.GreaterOrEqual(t, pairs[0].Similarity, cfg.SimilarityThreshold)
	assert.Less(t, pairs[0].Similarity, 1.0)
}

func TestDetectFuzzyPassRejectsDissimilarBlocks(t *testing.T) {
	cfg := DefaultConfig()
	a := blockAt("a.go", 1, 10, "alpha beta gamma delta epsilon zeta eta theta iota kappa")
	b := blockAt("b.go", 1, 10, "one two three four five six seven eight nine ten")

	pairs := cfg.detect([]Block{a, b})

	assert.Empty(t, pairs)
}

func TestDedupKeyIsOrderIndependent(t *testing.T) {
	a := blockAt("a.go", 1, 10, "x")
	b := blockAt("b.go", 1, 10, "y")

	assert.Equal(t, dedupKey(a, b), dedupKey(b, a))
}
