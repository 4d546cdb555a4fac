package dup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClusterEmptyInputYieldsNoFindings(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.cluster(nil))
}

func TestClusterLeavesUnrelatedPairsAsSingletons(t *testing.T) {
	cfg := DefaultConfig()
	p1 := pairAt("a.go", "b.go", LineRange{1, 10}, LineRange{1, 10}, 1.0)
	p1.Code = "alpha beta gamma delta epsilon zeta eta theta"
	p2 := pairAt("c.go", "d.go", LineRange{1, 10}, LineRange{1, 10}, 1.0)
	p2.Code = "unrelated content with totally different tokens here"

	findings := cfg.cluster([]DuplicatePair{p1, p2})

	assert.Len(t, findings, 2)
	for _, f := range findings {
		assert.Equal(t, 0, f.ClusterSize)
	}
}

func TestClusterGroupsThreeFilesSharingTheSameRawCode(t *testing.T) {
	cfg := DefaultConfig()
	raw := "shared duplicated code fragment repeated verbatim across three files"
	p1 := pairAt("a.go", "b.go", LineRange{1, 10}, LineRange{1, 10}, 1.0)
	p1.Code = raw
	p2 := pairAt("b.go", "c.go", LineRange{1, 10}, LineRange{1, 10}, 1.0)
	p2.Code = raw
	p3 := pairAt("a.go", "c.go", LineRange{1, 10}, LineRange{1, 10}, 1.0)
	p3.Code = raw

	findings := cfg.cluster([]DuplicatePair{p1, p2, p3})

	assert.Len(t, findings, 1)
	assert.Equal(t, 3, findings[0].ClusterSize)
	assert.Len(t, findings[0].AllFiles, 3)
	assert.NotEmpty(t, findings[0].PatternHash)
}

func TestClusterMergesAdjacentRangesPerFileWithinSlack(t *testing.T) {
	cfg := DefaultConfig()
	raw := "shared duplicated code fragment for the range merge assertion"
	p1 := pairAt("a.go", "b.go", LineRange{1, 10}, LineRange{1, 10}, 0.95)
	p1.Code = raw
	p2 := pairAt("a.go", "c.go", LineRange{11, 20}, LineRange{50, 59}, 0.95)
	p2.Code = raw
	p3 := pairAt("b.go", "c.go", LineRange{1, 10}, LineRange{50, 59}, 0.95)
	p3.Code = raw

	findings := cfg.cluster([]DuplicatePair{p1, p2, p3})

	assert.Len(t, findings, 1)
	var aRanges []LineRange
	for _, loc := range findings[0].AllFiles {
		if loc.File == "a.go" {
			aRanges = append(aRanges, loc.Lines)
		}
	}
	assert.Equal(t, []LineRange{{Start: 1, End: 20}}, aRanges)
}
