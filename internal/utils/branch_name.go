// Package utils provides small, state-free helpers shared across twig's
// engines and CLI: branch-name sanitization and the interactive-terminal
// check used by every prompt-capable engine.
package utils

import (
	"regexp"
	"strings"
)

// MaxBranchNameByteLength keeps generated names well under Git's ref
// length limit once a refs/heads/ prefix is added.
const MaxBranchNameByteLength = 234

var (
	branchNameReplaceRegex = regexp.MustCompile(`[^-_/.a-zA-Z0-9]+`)
	branchNameIgnoreRegex  = regexp.MustCompile(`[/.]*$`)
	hyphenRegex            = regexp.MustCompile(`-+`)
)

// SanitizeBranchName replaces characters invalid in a Git branch name
// with hyphens, collapses runs of hyphens, drops trailing slashes and
// dots, and trims leading/trailing hyphens. Leading slashes and dots are
// kept.
func SanitizeBranchName(name string) string {
	name = branchNameIgnoreRegex.ReplaceAllString(name, "")
	name = branchNameReplaceRegex.ReplaceAllString(name, "-")
	name = hyphenRegex.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	if len(name) > MaxBranchNameByteLength {
		name = strings.TrimSuffix(name[:MaxBranchNameByteLength], "-")
	}
	return name
}

// SlugFromSummary builds a "<key>/<slug>" branch name from a Jira issue
// key and its summary, per PROMPT_JIRA_BRANCH_CREATION option 1.
func SlugFromSummary(key, summary string) string {
	return SanitizeBranchName(strings.ToLower(key)) + "/" + SanitizeBranchName(strings.ToLower(summary))
}
