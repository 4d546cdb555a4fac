// Package gitdiff turns a base..head git comparison into the
// []dup.FileDescriptor slice that pkg/dup.Analyze expects, using
// go-git/go-git/v5 for in-process tree diffing. This replaces the
// scanner's compare.go, which shells out to "git worktree add" and
// re-executes itself as a subprocess against each worktree.
package gitdiff

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/patchdup/patchdup/pkg/dup"
)

// Diff resolves baseRef and headRef inside the repository rooted at
// repoPath and returns one dup.FileDescriptor per changed file, each
// carrying an in-memory unified-diff patch of the head-relative change.
func Diff(repoPath, baseRef, headRef string) ([]dup.FileDescriptor, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", repoPath, err)
	}

	baseTree, err := resolveTree(repo, baseRef)
	if err != nil {
		return nil, fmt.Errorf("resolving base ref %s: %w", baseRef, err)
	}
	headTree, err := resolveTree(repo, headRef)
	if err != nil {
		return nil, fmt.Errorf("resolving head ref %s: %w", headRef, err)
	}

	changes, err := baseTree.Diff(headTree)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..%s: %w", baseRef, headRef, err)
	}

	return changesToFileDescriptors(changes), nil
}

// MergeBase resolves the best common ancestor of ref1 and ref2, using
// go-git's own Commit.MergeBase rather than shelling out to `git
// merge-base`.
func MergeBase(repoPath, ref1, ref2 string) (string, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening repository at %s: %w", repoPath, err)
	}

	c1, err := resolveCommit(repo, ref1)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", ref1, err)
	}
	c2, err := resolveCommit(repo, ref2)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", ref2, err)
	}

	bases, err := c1.MergeBase(c2)
	if err != nil {
		return "", fmt.Errorf("computing merge base of %s and %s: %w", ref1, ref2, err)
	}
	if len(bases) == 0 {
		return "", fmt.Errorf("no common ancestor between %s and %s", ref1, ref2)
	}
	return bases[0].Hash.String(), nil
}

func resolveCommit(repo *git.Repository, ref string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, err
	}
	return repo.CommitObject(*hash)
}

func resolveTree(repo *git.Repository, ref string) (*object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

// changesToFileDescriptors fans per-change patch generation out across a
// bounded worker pool, grounded on the scanner's parseFilesWithCache
// worker-pool shape (cache.go) — the same "channel of work, WaitGroup of
// workers, mutex-guarded results map" pattern, reused here for "diff N
// files in parallel" instead of "parse N files in parallel".
func changesToFileDescriptors(changes object.Changes) []dup.FileDescriptor {
	numWorkers := runtime.NumCPU()
	if numWorkers < 1 {
		numWorkers = 1
	}

	work := make(chan *object.Change, len(changes))
	for _, c := range changes {
		work <- c
	}
	close(work)

	results := make([]dup.FileDescriptor, 0, len(changes))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for change := range work {
				fd, ok := describeChange(change)
				if !ok {
					continue
				}
				mu.Lock()
				results = append(results, fd)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Filename < results[j].Filename })
	return results
}

func describeChange(change *object.Change) (dup.FileDescriptor, bool) {
	patch, err := change.Patch()
	if err != nil {
		return dup.FileDescriptor{}, false
	}

	filename := change.To.Name
	if filename == "" {
		filename = change.From.Name
	}

	additions, deletions := 0, 0
	for _, stat := range patch.Stats() {
		if stat.Name == filename {
			additions = stat.Addition
			deletions = stat.Deletion
			break
		}
	}

	return dup.FileDescriptor{
		Filename:  filename,
		Status:    statusOf(change),
		Additions: additions,
		Deletions: deletions,
		Patch:     patch.String(),
	}, true
}

func statusOf(change *object.Change) string {
	switch {
	case change.From.Name == "":
		return "added"
	case change.To.Name == "":
		return "deleted"
	case change.From.Name != change.To.Name:
		return "renamed"
	default:
		return "modified"
	}
}
