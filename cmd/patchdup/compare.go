package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/patchdup/patchdup/internal/config"
	"github.com/patchdup/patchdup/internal/gitdiff"
	"github.com/patchdup/patchdup/pkg/dup"
)

// newCompareCmd adapts the scanner's "-compare base..head" mode
// (compare.go's runCompare): it runs the analyzer against each ref's
// changes relative to their merge base and reports which duplicate
// patterns were resolved, which lingered, and which are newly
// introduced. The scanner achieves this by shelling out to itself
// against two temporary git worktrees; this version calls gitdiff and
// pkg/dup.Analyze directly in-process for each ref instead.
func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <base> <head>",
		Short: "Compare duplication introduced by two refs against their common ancestor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(repoPath, args[0], args[1])
		},
	}
	return cmd
}

func runCompare(repoPathArg, baseRef, headRef string) error {
	mergeBase, err := gitdiff.MergeBase(repoPathArg, baseRef, headRef)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	cfg := config.LoadOrDefault(repoPathArg)
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	analyzer := dup.New(cfg.Options()...)

	baseReport, err := analyzeRange(repoPathArg, analyzer, mergeBase, baseRef)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", baseRef, err)
	}
	headReport, err := analyzeRange(repoPathArg, analyzer, mergeBase, headRef)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", headRef, err)
	}

	fmt.Printf("Comparing duplication: %s -> %s (merge base %s)\n\n", baseRef, headRef, mergeBase[:8])
	printComparison(baseReport, headReport)
	return nil
}

func analyzeRange(repoPathArg string, analyzer *dup.Analyzer, baseRef, headRef string) (dup.DuplicationReport, error) {
	files, err := gitdiff.Diff(repoPathArg, baseRef, headRef)
	if err != nil {
		return dup.DuplicationReport{}, err
	}
	return analyzer.Analyze(files), nil
}

type lingering struct {
	hash      string
	baseCount int
	headCount int
	removed   int
	finding   dup.ClusteredFinding
}

func printComparison(base, head dup.DuplicationReport) {
	baseOccur := occurrencesByHash(base.DuplicateBlocks)
	headOccur := occurrencesByHash(head.DuplicateBlocks)
	headFindings := findingsByHash(head.DuplicateBlocks)

	var lingeringPatterns []lingering
	for hash, baseCount := range baseOccur {
		headCount := headOccur[hash]
		if headCount > 0 && headCount < baseCount {
			lingeringPatterns = append(lingeringPatterns, lingering{
				hash:      hash,
				baseCount: baseCount,
				headCount: headCount,
				removed:   baseCount - headCount,
				finding:   headFindings[hash],
			})
		}
	}
	sort.Slice(lingeringPatterns, func(i, j int) bool {
		return lingeringPatterns[i].removed > lingeringPatterns[j].removed
	})

	if len(lingeringPatterns) == 0 {
		fmt.Println("No lingering duplicates found.")
	} else {
		fmt.Printf("Found %d patterns with incomplete refactoring:\n\n", len(lingeringPatterns))
		for _, l := range lingeringPatterns {
			fmt.Printf("[%s] %d removed, %d lingering\n", l.hash, l.removed, l.headCount)
			fmt.Printf("  remaining at %s:%d-%d\n", l.finding.File1, l.finding.Lines1.Start, l.finding.Lines1.End)
		}
	}

	fullyRemoved := 0
	for hash := range baseOccur {
		if headOccur[hash] == 0 {
			fullyRemoved++
		}
	}
	if fullyRemoved > 0 {
		fmt.Printf("\n%d duplicate patterns were completely removed.\n", fullyRemoved)
	}

	newPatterns := 0
	for hash := range headOccur {
		if baseOccur[hash] == 0 {
			newPatterns++
		}
	}
	if newPatterns > 0 {
		fmt.Printf("%d new duplicate patterns were introduced.\n", newPatterns)
	}
}

func occurrencesByHash(findings []dup.ClusteredFinding) map[string]int {
	out := make(map[string]int)
	for _, f := range findings {
		out[hashOf(f)]++
	}
	return out
}

func findingsByHash(findings []dup.ClusteredFinding) map[string]dup.ClusteredFinding {
	out := make(map[string]dup.ClusteredFinding, len(findings))
	for _, f := range findings {
		out[hashOf(f)] = f
	}
	return out
}

func hashOf(f dup.ClusteredFinding) string {
	if f.PatternHash != "" {
		return f.PatternHash
	}
	return dup.Fingerprint(f.Code)
}
