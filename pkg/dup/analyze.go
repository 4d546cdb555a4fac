package dup

import (
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Analyze runs the six-stage pipeline (patch parser, block extractor,
// normalizer/hasher, duplicate detector, overlap merger, pattern
// clusterer) over files, then computes the aggregate duplication
// metrics. It never panics: a defer/recover boundary degrades any
// internal failure to the empty report rather than propagating it to
// the caller.
func (a *Analyzer) Analyze(files []FileDescriptor) (report DuplicationReport) {
	report = emptyReport()
	if len(files) == 0 {
		return report
	}

	defer func() {
		if r := recover(); r != nil {
			report = emptyReport()
		}
	}()

	c := a.config

	var blocks []Block
	for _, f := range files {
		blocks = append(blocks, c.extractBlocks(f)...)
	}

	pairs := c.detect(blocks)
	merged := c.mergeOverlaps(pairs)
	findings := c.cluster(merged)

	sort.SliceStable(findings, func(i, j int) bool {
		si, sj := clusterSortSize(findings[i]), clusterSortSize(findings[j])
		if si != sj {
			return si > sj
		}
		return findings[i].Similarity > findings[j].Similarity
	})

	totalLines := 0
	for _, f := range files {
		if c.shouldSkip(f.Filename) {
			continue
		}
		totalLines += f.Additions
	}

	duplicatedLines := c.countDuplicatedLines(findings)

	percentage := 0.0
	if totalLines > 0 {
		percentage = math.Round(100*float64(duplicatedLines)/float64(totalLines)*10) / 10
	}

	return DuplicationReport{
		Percentage:      percentage,
		Severity:        c.severityFor(percentage),
		DuplicateBlocks: findings,
		TotalLines:      totalLines,
		DuplicatedLines: duplicatedLines,
	}
}

// clusterSortSize treats an absent/pairwise ClusterSize (0) as 1 for the
// final descending sort.
func clusterSortSize(f ClusteredFinding) int {
	if f.ClusterSize == 0 {
		return 1
	}
	return f.ClusterSize
}

// countDuplicatedLines sums, per file, the set of distinct post-image
// line numbers covered by any finding's two sides. Each file gets its
// own roaring bitmap, keyed by an interned small integer index, to avoid
// materializing "${file}:${line}" strings for every covered line.
//
// For a multi-file cluster (ClusterSize > 2) only the representative
// pair's Lines1/Lines2 are counted here, not every file in AllFiles —
// this intentionally undercounts every cluster spanning three or more
// files; see DESIGN.md's
// Open Question (b).
func (c Config) countDuplicatedLines(findings []ClusteredFinding) int {
	fileIndex := make(map[string]int)
	var bitmaps []*roaring.Bitmap

	indexFor := func(file string) int {
		if idx, ok := fileIndex[file]; ok {
			return idx
		}
		idx := len(bitmaps)
		fileIndex[file] = idx
		bitmaps = append(bitmaps, roaring.New())
		return idx
	}

	addRange := func(file string, lr LineRange) {
		bm := bitmaps[indexFor(file)]
		for line := lr.Start; line <= lr.End; line++ {
			bm.Add(uint32(line))
		}
	}

	for _, f := range findings {
		addRange(f.File1, f.Lines1)
		addRange(f.File2, f.Lines2)
	}

	total := 0
	for _, bm := range bitmaps {
		total += int(bm.GetCardinality())
	}
	return total
}

// severityFor classifies a percentage against the configured severity
// thresholds.
func (c Config) severityFor(percentage float64) Severity {
	switch {
	case percentage >= c.HighSeverityPercent:
		return SeverityHigh
	case percentage >= c.MediumSeverityPercent:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
