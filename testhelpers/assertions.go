// Package testhelpers provides testing utilities for twig: a scene
// system over real temporary Git repositories, a shared test-binary
// builder, and assertions over branches and commits.
package testhelpers

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExpectBranches asserts the repository's local branches match expected
// exactly (order-insensitive).
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	output, err := repo.RunGitCommandAndGetOutput(
		"for-each-ref", "refs/heads/", "--format=%(refname:short)")
	require.NoError(t, err, "Failed to list branches")

	branches := []string{}
	for _, b := range strings.Split(output, "\n") {
		b = strings.TrimSpace(b)
		if b != "" {
			branches = append(branches, b)
		}
	}

	sort.Strings(branches)
	expectedSorted := append([]string(nil), expected...)
	sort.Strings(expectedSorted)

	require.Equal(t, expectedSorted, branches, "Branches do not match")
}

// ExpectCommits asserts that branch's newest commits have the expected
// subjects, newest first. Older commits beyond len(expected) are ignored.
func ExpectCommits(t *testing.T, repo *GitRepo, branch string, expected []string) {
	t.Helper()

	output, err := repo.RunGitCommandAndGetOutput(
		"log", "--oneline", "--format=%s", branch)
	require.NoError(t, err, "Failed to list commits")

	commits := []string{}
	for _, c := range strings.Split(output, "\n") {
		c = strings.TrimSpace(c)
		if c != "" {
			commits = append(commits, c)
		}
	}

	require.GreaterOrEqual(t, len(commits), len(expected), "Not enough commits")
	require.Equal(t, expected, commits[:len(expected)], "Commits do not match")
}
