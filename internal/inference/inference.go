// Package inference scores candidate parent branches from Git ancestry
// alone, using a merge-base distance heuristic with a sibling-rejection
// rule, and is consulted by display code when no user edges exist and by
// the suggestions API.
package inference

import (
	"context"
	"sort"
)

const (
	// MaxParentDrift rejects a candidate parent with more commits beyond
	// the merge base than this.
	MaxParentDrift = 15
	// MinConfidence rejects a candidate whose score falls below this.
	MinConfidence = 0.05
)

// Collaborator is the minimal Git surface the inference engine needs,
// narrow enough to fake in tests without a real repository.
type Collaborator interface {
	// MergeBase returns the merge base of a and b, or ok=false if none exists.
	MergeBase(ctx context.Context, a, b string) (sha string, ok bool, err error)
	// IsAncestor reports whether ancestor is an ancestor of descendant.
	IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error)
	// CommitsAhead returns len(rev-list base..head).
	CommitsAhead(ctx context.Context, base, head string) (int, error)
}

// Suggestion is one proposed parent for a branch.
type Suggestion struct {
	Child     string
	Parent    string
	Score     float64
	Rationale string
}

type candidate struct {
	parent         string
	score          float64
	childDepth     int
	parentDrift    int
	configuredRoot bool
}

// FindBestParent evaluates every name in candidates (excluding branch
// itself) against branch and returns the single winning suggestion, or
// nil if no candidate survives the filters.
func FindBestParent(ctx context.Context, branch string, candidates []string, configuredRoots map[string]bool, collab Collaborator) (*Suggestion, error) {
	var survivors []candidate

	for _, parent := range candidates {
		if parent == branch {
			continue
		}

		mergeBase, ok, err := collab.MergeBase(ctx, branch, parent)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		isAncestor, err := collab.IsAncestor(ctx, parent, branch)
		if err != nil {
			return nil, err
		}
		if !isAncestor && !configuredRoots[parent] {
			continue
		}

		childDepth, err := collab.CommitsAhead(ctx, mergeBase, branch)
		if err != nil {
			return nil, err
		}
		if childDepth == 0 {
			continue
		}

		parentDrift, err := collab.CommitsAhead(ctx, mergeBase, parent)
		if err != nil {
			return nil, err
		}
		if parentDrift > MaxParentDrift {
			continue
		}

		score := 1.0 / (1.0 + float64(parentDrift))
		if score < MinConfidence {
			continue
		}

		survivors = append(survivors, candidate{
			parent:         parent,
			score:          score,
			childDepth:     childDepth,
			parentDrift:    parentDrift,
			configuredRoot: configuredRoots[parent],
		})
	}

	if len(survivors) == 0 {
		return nil, nil
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		a, b := survivors[i], survivors[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.childDepth != b.childDepth {
			return a.childDepth < b.childDepth
		}
		if a.configuredRoot != b.configuredRoot {
			return a.configuredRoot
		}
		return a.parent < b.parent
	})

	winner := survivors[0]
	return &Suggestion{
		Child:     branch,
		Parent:    winner.parent,
		Score:     winner.score,
		Rationale: rationale(winner.parentDrift),
	}, nil
}

// rationale buckets the confidence score into a human-readable phrase.
func rationale(parentDrift int) string {
	score := 1.0 / (1.0 + float64(parentDrift))
	switch {
	case score >= 1.0:
		return "parent branch unchanged since fork"
	case score >= 0.5:
		return "minimal drift since fork"
	default:
		return "moderate drift since fork"
	}
}

// SuggestAll computes FindBestParent for every branch, skipping any branch
// whose winner duplicates an already-declared edge.
func SuggestAll(ctx context.Context, branches []string, configuredRoots map[string]bool, existingEdges map[string]map[string]bool, collab Collaborator) ([]Suggestion, error) {
	var out []Suggestion
	for _, branch := range branches {
		suggestion, err := FindBestParent(ctx, branch, branches, configuredRoots, collab)
		if err != nil {
			return nil, err
		}
		if suggestion == nil {
			continue
		}
		if existingEdges[suggestion.Child][suggestion.Parent] {
			continue
		}
		out = append(out, *suggestion)
	}
	return out, nil
}
