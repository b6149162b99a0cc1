package stale

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddieland/twig/internal/depgraph"
	"github.com/eddieland/twig/internal/state"
)

func TestFindFiltersByThresholdAndEnriches(t *testing.T) {
	g := &depgraph.Graph{Nodes: map[string]*depgraph.Node{
		"main": {Name: "main"},
		"old":  {Name: "old", Parents: []string{"main"}},
		"new":  {Name: "new", Parents: []string{"main"}},
	}}
	s, err := state.Load(t.TempDir())
	require.NoError(t, err)
	jira := "AB-1"
	s.AddBranchIssue("old", &jira, nil)

	now := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	tips := map[string]time.Time{
		"main": now.Add(-1 * time.Hour),
		"old":  now.Add(-40 * 24 * time.Hour),
		"new":  now.Add(-1 * time.Hour),
	}

	f := New(g, s,
		func(_ context.Context, branch string) (time.Time, error) { return tips[branch], nil },
		func(_ context.Context, _, _ string) (string, bool, error) { return "base", true, nil },
		func(_ context.Context, _, _ string) (int, error) { return 3, nil },
	)
	f.MergedCheck = func(_ context.Context, branch, parent string) (bool, error) {
		return branch == "old" && parent == "main", nil
	}

	candidates, err := f.Find(context.Background(), 30*24*time.Hour, now)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "old", candidates[0].Branch)
	assert.Equal(t, "main", candidates[0].Parent)
	assert.Equal(t, 3, candidates[0].NovelCommits)
	assert.True(t, candidates[0].Merged)
	require.NotNil(t, candidates[0].JiraIssue)
	assert.Equal(t, "AB-1", *candidates[0].JiraIssue)
}

func TestReviewTracksDeletedSkippedAndErrors(t *testing.T) {
	candidates := []Candidate{{Branch: "a"}, {Branch: "b"}, {Branch: "c"}}

	summary := Review(candidates,
		func(c Candidate) bool { return c.Branch != "b" },
		func(name string) error {
			if name == "c" {
				return assert.AnError
			}
			return nil
		},
	)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, []string{"a"}, summary.Deleted)
	assert.Equal(t, []string{"b"}, summary.Skipped)
	assert.Contains(t, summary.Errors, "c")
}
