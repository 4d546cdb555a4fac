package dup

import (
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/pool"
)

// dedupKey canonicalizes an unordered block pair into a composite key:
// sort the two "${file}:${start}-${end}" strings and join with "|".
func dedupKey(a, b Block) string {
	ka := fmt.Sprintf("%s:%d-%d", a.File, a.Lines.Start, a.Lines.End)
	kb := fmt.Sprintf("%s:%d-%d", b.File, b.Lines.Start, b.Lines.End)
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

// detect runs an exact pass followed by a fuzzy pass over the extracted
// blocks, returning pairwise DuplicatePairs in deterministic order.
func (c Config) detect(blocks []Block) []DuplicatePair {
	seen := make(map[string]bool)
	var out []DuplicatePair

	out = append(out, c.detectExactPass(blocks, seen)...)
	out = append(out, c.detectFuzzyPass(blocks, seen)...)

	return out
}

// detectExactPass groups blocks by fingerprint and emits a pair for every
// ordered index combination within each bucket of size >= 2, in
// insertion order for blocks and in sorted order across fingerprint keys
// so results are reproducible across runs.
func (c Config) detectExactPass(blocks []Block, seen map[string]bool) []DuplicatePair {
	buckets := make(map[string][]int)
	for i, b := range blocks {
		buckets[b.Fingerprint] = append(buckets[b.Fingerprint], i)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []DuplicatePair
	for _, k := range keys {
		idxs := buckets[k]
		if len(idxs) < 2 {
			continue
		}
		for a := 0; a < len(idxs); a++ {
			for b := a + 1; b < len(idxs); b++ {
				bi, bj := blocks[idxs[a]], blocks[idxs[b]]
				if bi.File == bj.File {
					continue
				}
				key := dedupKey(bi, bj)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, pairFrom(bi, bj, 1.0))
			}
		}
	}
	return out
}

type fuzzyCandidate struct {
	i, j       int
	similarity float64
}

// detectFuzzyPass computes all-pairs Jaccard similarity over every block
// pair from distinct files. The similarity computation for each pair is
// independent and runs across a worker pool; results are then folded
// back into the output and the seen set in a fixed ascending (i, j)
// order so the final report does not depend on goroutine scheduling.
func (c Config) detectFuzzyPass(blocks []Block, seen map[string]bool) []DuplicatePair {
	type pairIdx struct{ i, j int }
	var pairs []pairIdx
	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			if blocks[i].File == blocks[j].File {
				continue
			}
			pairs = append(pairs, pairIdx{i, j})
		}
	}
	if len(pairs) == 0 {
		return nil
	}

	tokens := make([][]string, len(blocks))
	for i, b := range blocks {
		tokens[i] = tokenize(b.NormalizedCode)
	}

	p := pool.NewWithResults[fuzzyCandidate]().WithMaxGoroutines(maxWorkers())
	for _, pr := range pairs {
		pr := pr
		p.Go(func() fuzzyCandidate {
			j := jaccard(tokens[pr.i], tokens[pr.j])
			return fuzzyCandidate{i: pr.i, j: pr.j, similarity: j}
		})
	}
	results := p.Wait()

	sort.Slice(results, func(a, b int) bool {
		if results[a].i != results[b].i {
			return results[a].i < results[b].i
		}
		return results[a].j < results[b].j
	})

	var out []DuplicatePair
	for _, r := range results {
		if r.similarity < c.SimilarityThreshold || r.similarity >= 1.0 {
			continue
		}
		bi, bj := blocks[r.i], blocks[r.j]
		key := dedupKey(bi, bj)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, pairFrom(bi, bj, r.similarity))
	}
	return out
}

// pairFrom builds a DuplicatePair from two blocks, using the first
// block's raw code as the representative Code.
func pairFrom(a, b Block, similarity float64) DuplicatePair {
	return DuplicatePair{
		File1:      a.File,
		File2:      b.File,
		Lines1:     a.Lines,
		Lines2:     b.Lines,
		Code:       a.RawCode,
		Similarity: similarity,
	}
}
