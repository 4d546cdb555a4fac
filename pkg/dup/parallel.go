package dup

import "runtime"

// maxWorkers bounds the structured-concurrency pools used by the
// pairwise passes. Grounded on the donor repository's numWorkers :=
// runtime.NumCPU() convention (detector.go, cache.go).
func maxWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}
