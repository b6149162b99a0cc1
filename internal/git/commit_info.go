package git

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GetCommitDate returns the author date of branch's tip commit. The stale
// branch pruner compares this against its age threshold.
func GetCommitDate(_ context.Context, branch string) (time.Time, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return time.Time{}, err
	}

	hash, err := resolveRefHash(repo, branch)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to resolve branch reference: %w", err)
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get commit: %w", err)
	}

	return commit.Author.When, nil
}

// GetRevision resolves a branch name to its tip SHA.
func GetRevision(_ context.Context, branch string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	hash, err := resolveRefHash(repo, branch)
	if err != nil {
		return "", fmt.Errorf("failed to resolve branch reference: %w", err)
	}

	return hash.String(), nil
}

// iterateCommits walks commits reachable from head but not from base
// (base..head), newest first. A zero base hash walks everything.
func iterateCommits(repo *Repository, headHash, baseHash plumbing.Hash) ([]*object.Commit, error) {
	var commits []*object.Commit
	visited := make(map[plumbing.Hash]bool)

	// Mark every commit reachable from base as seen, so the walk below
	// hides base's whole history, not just base itself.
	if !baseHash.IsZero() {
		hidden := []plumbing.Hash{baseHash}
		for len(hidden) > 0 {
			hash := hidden[0]
			hidden = hidden[1:]
			if visited[hash] {
				continue
			}
			visited[hash] = true
			commit, err := repo.CommitObject(hash)
			if err != nil {
				return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
			}
			hidden = append(hidden, commit.ParentHashes...)
		}
	}

	queue := []plumbing.Hash{headHash}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]

		if visited[hash] || (!baseHash.IsZero() && hash == baseHash) {
			continue
		}
		visited[hash] = true

		commit, err := repo.CommitObject(hash)
		if err != nil {
			return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
		}

		commits = append(commits, commit)

		for _, parentHash := range commit.ParentHashes {
			if !visited[parentHash] && (baseHash.IsZero() || parentHash != baseHash) {
				queue = append(queue, parentHash)
			}
		}
	}

	return commits, nil
}

// resolveRefHash resolves a branch name, SHA, ref path, or revision
// expression to a commit hash, trying the cheap lookups before falling
// back to go-git's full revision parser.
func resolveRefHash(repo *Repository, ref string) (plumbing.Hash, error) {
	if r, err := repo.Reference(plumbing.ReferenceName(ref), true); err == nil {
		return r.Hash(), nil
	}
	if r, err := repo.Reference(plumbing.ReferenceName("refs/heads/"+ref), true); err == nil {
		return r.Hash(), nil
	}
	if r, err := repo.Reference(plumbing.ReferenceName("refs/remotes/origin/"+ref), true); err == nil {
		return r.Hash(), nil
	}
	if r, err := repo.Reference(plumbing.ReferenceName("refs/tags/"+ref), true); err == nil {
		return r.Hash(), nil
	}
	if hash, err := repo.ResolveRevision(plumbing.Revision(ref)); err == nil {
		return *hash, nil
	}
	return plumbing.ZeroHash, fmt.Errorf("failed to resolve ref %s: reference not found", ref)
}

// GetCommitRangeSHAs returns the SHAs of commits in base..head, newest
// first. The stale pruner uses it to count a branch's novel commits
// beyond the merge base with its parent.
func GetCommitRangeSHAs(_ context.Context, base, head string) ([]string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}

	headHash, err := resolveRefHash(repo, head)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve head: %w", err)
	}

	baseHash, err := resolveRefHash(repo, base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base: %w", err)
	}

	commits, err := iterateCommits(repo, headHash, baseHash)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	shas := make([]string, 0, len(commits))
	for _, commit := range commits {
		shas = append(shas, commit.Hash.String())
	}

	return shas, nil
}
