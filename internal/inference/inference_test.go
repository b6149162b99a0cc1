package inference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCollaborator simulates a Git ancestry graph entirely in memory for
// deterministic, fast tests that don't require a real repository.
type fakeCollaborator struct {
	mergeBase   map[[2]string]string
	isAncestor  map[[2]string]bool
	commitsDiff map[[2]string]int // [base, head] -> count
}

func (f fakeCollaborator) MergeBase(_ context.Context, a, b string) (string, bool, error) {
	if m, ok := f.mergeBase[[2]string{a, b}]; ok {
		return m, true, nil
	}
	if m, ok := f.mergeBase[[2]string{b, a}]; ok {
		return m, true, nil
	}
	return "", false, nil
}

func (f fakeCollaborator) IsAncestor(_ context.Context, ancestor, descendant string) (bool, error) {
	return f.isAncestor[[2]string{ancestor, descendant}], nil
}

func (f fakeCollaborator) CommitsAhead(_ context.Context, base, head string) (int, error) {
	return f.commitsDiff[[2]string{base, head}], nil
}

// TestSiblingRejection reproduces the S2 end-to-end scenario: main at commit
// 1, siblings feature-a and feature-b each one commit past the fork point,
// then 5 new commits land on main (declared a root). The engine must
// suggest feature-a->main and feature-b->main, never feature-b->feature-a.
func TestSiblingRejection(t *testing.T) {
	collab := fakeCollaborator{
		mergeBase: map[[2]string]string{
			{"feature-a", "main"}:      "fork",
			{"feature-b", "main"}:      "fork",
			{"feature-a", "feature-b"}: "fork",
		},
		isAncestor: map[[2]string]bool{
			// main advanced independently after the fork; it is not an
			// ancestor of either sibling, but it is a configured root.
			{"main", "feature-a"}: false,
			{"main", "feature-b"}: false,
			// feature-a and feature-b share a fork point but neither is an
			// ancestor of the other.
			{"feature-a", "feature-b"}: false,
			{"feature-b", "feature-a"}: false,
		},
		commitsDiff: map[[2]string]int{
			{"fork", "feature-a"}: 1, // child depth for feature-a vs main merge base
			{"fork", "feature-b"}: 1, // child depth for feature-b vs main merge base
			{"fork", "main"}:      5, // parent drift for main
		},
	}

	roots := map[string]bool{"main": true}
	branches := []string{"main", "feature-a", "feature-b"}

	suggestionA, err := FindBestParent(context.Background(), "feature-a", branches, roots, collab)
	require.NoError(t, err)
	require.NotNil(t, suggestionA)
	assert.Equal(t, "main", suggestionA.Parent)

	suggestionB, err := FindBestParent(context.Background(), "feature-b", branches, roots, collab)
	require.NoError(t, err)
	require.NotNil(t, suggestionB)
	assert.Equal(t, "main", suggestionB.Parent)
}

func TestParentDriftBoundary(t *testing.T) {
	base := fakeCollaborator{
		mergeBase: map[[2]string]string{
			{"feature", "main"}: "fork",
		},
		isAncestor: map[[2]string]bool{
			{"main", "feature"}: true,
		},
		commitsDiff: map[[2]string]int{
			{"fork", "feature"}: 1,
		},
	}

	t.Run("at max drift accepted", func(t *testing.T) {
		collab := base
		collab.commitsDiff = map[[2]string]int{
			{"fork", "feature"}: 1,
			{"fork", "main"}:    MaxParentDrift,
		}
		s, err := FindBestParent(context.Background(), "feature", []string{"feature", "main"}, nil, collab)
		require.NoError(t, err)
		require.NotNil(t, s)
	})

	t.Run("over max drift rejected", func(t *testing.T) {
		collab := base
		collab.commitsDiff = map[[2]string]int{
			{"fork", "feature"}: 1,
			{"fork", "main"}:    MaxParentDrift + 1,
		}
		s, err := FindBestParent(context.Background(), "feature", []string{"feature", "main"}, nil, collab)
		require.NoError(t, err)
		assert.Nil(t, s)
	})
}

func TestZeroChildDepthRejected(t *testing.T) {
	collab := fakeCollaborator{
		mergeBase: map[[2]string]string{
			{"feature", "main"}: "fork",
		},
		isAncestor: map[[2]string]bool{
			{"main", "feature"}: true,
		},
		commitsDiff: map[[2]string]int{
			{"fork", "feature"}: 0,
		},
	}

	s, err := FindBestParent(context.Background(), "feature", []string{"feature", "main"}, nil, collab)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestNoCandidateYieldsNilSuggestion(t *testing.T) {
	collab := fakeCollaborator{}
	s, err := FindBestParent(context.Background(), "feature", []string{"feature", "main"}, nil, collab)
	require.NoError(t, err)
	assert.Nil(t, s)
}
