// Package stale reports, and optionally interactively deletes, branches
// whose tip commit has aged past a threshold.
package stale

import (
	"context"
	"sort"
	"time"

	"github.com/eddieland/twig/internal/depgraph"
	"github.com/eddieland/twig/internal/state"
)

// CommitTimeFunc returns the commit time of a branch's tip.
type CommitTimeFunc func(ctx context.Context, branch string) (time.Time, error)

// MergeBaseFunc returns the merge base of branch and parent.
type MergeBaseFunc func(ctx context.Context, branch, parent string) (string, bool, error)

// NovelCommitsFunc counts commits unique to branch versus its merge base
// with parent.
type NovelCommitsFunc func(ctx context.Context, mergeBase, branch string) (int, error)

// MergedFunc reports whether branch's work has already landed in parent.
type MergedFunc func(ctx context.Context, branch, parent string) (bool, error)

// Candidate is one stale branch enriched with review context.
type Candidate struct {
	Branch       string
	TipAge       time.Duration
	Parent       string
	HasParent    bool
	NovelCommits int
	Merged       bool
	JiraIssue    *string
	GithubPR     *int
}

// Summary accumulates the outcome of an interactive review pass.
type Summary struct {
	Total   int
	Deleted []string
	Skipped []string
	Errors  map[string]error
}

// Finder locates and enriches stale branches.
type Finder struct {
	Graph      *depgraph.Graph
	State      *state.RepoState
	CommitTime CommitTimeFunc
	MergeBase  MergeBaseFunc
	NovelCount NovelCommitsFunc

	// MergedCheck is optional; when set, candidates with a parent are
	// additionally flagged as already merged into it.
	MergedCheck MergedFunc
}

// New constructs a Finder.
func New(g *depgraph.Graph, s *state.RepoState, commitTime CommitTimeFunc, mergeBase MergeBaseFunc, novelCount NovelCommitsFunc) *Finder {
	return &Finder{Graph: g, State: s, CommitTime: commitTime, MergeBase: mergeBase, NovelCount: novelCount}
}

// Find returns every local branch whose tip is older than threshold,
// enriched with parent/novel-commit/Jira/PR context, sorted alphabetically.
func (f *Finder) Find(ctx context.Context, threshold time.Duration, now time.Time) ([]Candidate, error) {
	names := make([]string, 0, len(f.Graph.Nodes))
	for name := range f.Graph.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	var candidates []Candidate
	for _, name := range names {
		tipTime, err := f.CommitTime(ctx, name)
		if err != nil {
			return nil, err
		}
		age := now.Sub(tipTime)
		if age < threshold {
			continue
		}

		c := Candidate{Branch: name, TipAge: age}

		node := f.Graph.Nodes[name]
		if len(node.Parents) > 0 {
			c.Parent = node.Parents[0]
			c.HasParent = true

			base, ok, err := f.MergeBase(ctx, name, c.Parent)
			if err != nil {
				return nil, err
			}
			if ok {
				count, err := f.NovelCount(ctx, base, name)
				if err != nil {
					return nil, err
				}
				c.NovelCommits = count
			}

			if f.MergedCheck != nil {
				merged, err := f.MergedCheck(ctx, name, c.Parent)
				if err != nil {
					return nil, err
				}
				c.Merged = merged
			}
		}

		if meta, ok := f.State.GetBranchMetadata(name); ok {
			c.JiraIssue = meta.JiraIssue
			c.GithubPR = meta.GithubPR
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}

// Review drives an interactive or batch deletion pass over candidates.
// decide returns true to delete the branch, false to skip it; deleteBranch
// performs the actual removal.
func Review(candidates []Candidate, decide func(Candidate) bool, deleteBranch func(name string) error) Summary {
	summary := Summary{Total: len(candidates), Errors: map[string]error{}}

	for _, c := range candidates {
		if !decide(c) {
			summary.Skipped = append(summary.Skipped, c.Branch)
			continue
		}
		if err := deleteBranch(c.Branch); err != nil {
			summary.Errors[c.Branch] = err
			continue
		}
		summary.Deleted = append(summary.Deleted, c.Branch)
	}

	return summary
}
