package dup

import "sort"

// filePairKey canonicalizes an unordered pair of filenames for
// partitioning.
func filePairKey(f1, f2 string) string {
	if f1 > f2 {
		f1, f2 = f2, f1
	}
	return f1 + "\x00" + f2
}

// mergeOverlaps partitions pairwise findings by unordered file pair and
// merges, within each partition, records whose line ranges overlap or
// abut within the configured slack. Grounded on the sweep-line interval
// merge shape used for region coalescing in the retrieval pack's
// overlap-detection examples.
func (c Config) mergeOverlaps(pairs []DuplicatePair) []DuplicatePair {
	partitions := make(map[string][]DuplicatePair)
	var order []string
	for _, p := range pairs {
		key := filePairKey(p.File1, p.File2)
		if _, ok := partitions[key]; !ok {
			order = append(order, key)
		}
		partitions[key] = append(partitions[key], p)
	}

	var out []DuplicatePair
	for _, key := range order {
		out = append(out, c.mergePartition(partitions[key])...)
	}
	return out
}

// mergePartition walks one file-pair partition, coalescing overlapping
// or abutting ranges. Lines1/Lines2 on each pair are oriented
// consistently: within a
// partition every record shares the same (File1, File2) order as the
// first record encountered, so "lines1"/"lines2" always mean the same
// file across the whole walk.
func (c Config) mergePartition(pairs []DuplicatePair) []DuplicatePair {
	if len(pairs) == 0 {
		return nil
	}

	file1, file2 := pairs[0].File1, pairs[0].File2
	oriented := make([]DuplicatePair, len(pairs))
	for i, p := range pairs {
		if p.File1 == file1 && p.File2 == file2 {
			oriented[i] = p
		} else {
			oriented[i] = DuplicatePair{
				File1:      file1,
				File2:      file2,
				Lines1:     p.Lines2,
				Lines2:     p.Lines1,
				Code:       p.Code,
				Similarity: p.Similarity,
			}
		}
	}

	sort.SliceStable(oriented, func(i, j int) bool {
		return oriented[i].Lines1.Start < oriented[j].Lines1.Start
	})

	var out []DuplicatePair
	current := oriented[0]
	for _, next := range oriented[1:] {
		if next.Lines1.Start <= current.Lines1.End+c.OverlapSlack &&
			next.Lines2.Start <= current.Lines2.End+c.OverlapSlack {
			current = mergeTwo(current, next)
			continue
		}
		out = append(out, current)
		current = next
	}
	out = append(out, current)
	return out
}

func mergeTwo(current, next DuplicatePair) DuplicatePair {
	similarity := current.Similarity
	if next.Similarity > similarity {
		similarity = next.Similarity
	}
	return DuplicatePair{
		File1: current.File1,
		File2: current.File2,
		Lines1: LineRange{
			Start: minInt(current.Lines1.Start, next.Lines1.Start),
			End:   maxInt(current.Lines1.End, next.Lines1.End),
		},
		Lines2: LineRange{
			Start: minInt(current.Lines2.Start, next.Lines2.Start),
			End:   maxInt(current.Lines2.End, next.Lines2.End),
		},
		Code:       current.Code,
		Similarity: similarity,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
