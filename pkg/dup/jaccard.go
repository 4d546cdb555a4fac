package dup

import "strings"

// tokenize splits on runs of whitespace.
func tokenize(s string) []string {
	return strings.Fields(s)
}

// jaccard computes |A ∩ B| / |A ∪ B| over two token slices, deriving the
// union size from the intersection size instead of materializing the
// union set.
func jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
