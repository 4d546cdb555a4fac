package dup

import (
	"sort"

	"github.com/sourcegraph/conc/pool"
)

// unionFind is a disjoint-set forest with path compression. No
// ready-made disjoint-set library exists anywhere in the retrieval pack;
// every example that needs one hand-rolls this exact parent-array shape.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	if uf.parent[x] != x {
		uf.parent[x] = uf.find(uf.parent[x])
	}
	return uf.parent[x]
}

func (uf *unionFind) union(x, y int) {
	px, py := uf.find(x), uf.find(y)
	if px != py {
		uf.parent[px] = py
	}
}

type clusterEdge struct {
	i, j int
}

// cluster unions post-merge pairs whose *raw*-code Jaccard similarity is
// >= ClusterSimilarityThreshold (deliberately not normalized code — see
// DESIGN.md's Open Question (a)), then collapses each connected
// component into a ClusteredFinding.
func (c Config) cluster(merged []DuplicatePair) []ClusteredFinding {
	if len(merged) == 0 {
		return nil
	}

	type idxPair struct{ i, j int }
	var candidates []idxPair
	for i := 0; i < len(merged); i++ {
		for j := i + 1; j < len(merged); j++ {
			candidates = append(candidates, idxPair{i, j})
		}
	}

	var edges []clusterEdge
	if len(candidates) > 0 {
		tokens := make([][]string, len(merged))
		for i, p := range merged {
			tokens[i] = tokenize(p.Code)
		}

		p := pool.NewWithResults[struct {
			edge clusterEdge
			ok   bool
		}]().WithMaxGoroutines(maxWorkers())
		for _, cand := range candidates {
			cand := cand
			p.Go(func() struct {
				edge clusterEdge
				ok   bool
			} {
				sim := jaccard(tokens[cand.i], tokens[cand.j])
				return struct {
					edge clusterEdge
					ok   bool
				}{clusterEdge{cand.i, cand.j}, sim >= c.ClusterSimilarityThreshold}
			})
		}
		for _, r := range p.Wait() {
			if r.ok {
				edges = append(edges, r.edge)
			}
		}
	}

	sort.Slice(edges, func(a, b int) bool {
		if edges[a].i != edges[b].i {
			return edges[a].i < edges[b].i
		}
		return edges[a].j < edges[b].j
	})

	uf := newUnionFind(len(merged))
	for _, e := range edges {
		uf.union(e.i, e.j)
	}

	groups := make(map[int][]int)
	var rootOrder []int
	seenRoot := make(map[int]bool)
	for i := range merged {
		root := uf.find(i)
		if !seenRoot[root] {
			seenRoot[root] = true
			rootOrder = append(rootOrder, root)
		}
		groups[root] = append(groups[root], i)
	}

	findings := make([]ClusteredFinding, 0, len(rootOrder))
	for _, root := range rootOrder {
		members := groups[root]
		findings = append(findings, c.buildFinding(merged, members))
	}
	return findings
}

// buildFinding converts one connected component into a ClusteredFinding.
func (c Config) buildFinding(merged []DuplicatePair, members []int) ClusteredFinding {
	if len(members) == 1 {
		return ClusteredFinding{DuplicatePair: merged[members[0]]}
	}

	fileLocations := make(map[string][]LineRange)
	var fileOrder []string
	for _, idx := range members {
		p := merged[idx]
		if _, ok := fileLocations[p.File1]; !ok {
			fileOrder = append(fileOrder, p.File1)
		}
		fileLocations[p.File1] = append(fileLocations[p.File1], p.Lines1)

		if _, ok := fileLocations[p.File2]; !ok {
			fileOrder = append(fileOrder, p.File2)
		}
		fileLocations[p.File2] = append(fileLocations[p.File2], p.Lines2)
	}

	var allFiles []FileLocation
	for _, f := range fileOrder {
		for _, lr := range c.mergeRanges(fileLocations[f]) {
			allFiles = append(allFiles, FileLocation{File: f, Lines: lr})
		}
	}

	representative := merged[members[0]]
	for _, idx := range members[1:] {
		if merged[idx].Similarity > representative.Similarity {
			representative = merged[idx]
		}
	}

	return ClusteredFinding{
		DuplicatePair: representative,
		ClusterSize:   len(fileLocations),
		AllFiles:      allFiles,
		PatternHash:   fingerprint(representative.Code),
	}
}

// mergeRanges sorts ranges by start and merges adjacent/overlapping ones
// using the same +2 slack rule as the overlap merger.
func (c Config) mergeRanges(ranges []LineRange) []LineRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]LineRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var out []LineRange
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= current.End+c.OverlapSlack {
			current.End = maxInt(current.End, next.End)
			continue
		}
		out = append(out, current)
		current = next
	}
	out = append(out, current)
	return out
}
