// Package switcher interprets a single user-supplied token (branch name,
// Jira key, Jira issue URL, GitHub PR number or URL) and drives the best
// matching checkout/create/track Git operation.
package switcher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/eddieland/twig/internal/jira"
)

// InputKind tags which variant a token was classified as.
type InputKind int

const (
	KindJiraKey InputKind = iota
	KindGithubPR
	KindBranchName
)

// Input is the result of classifying a single token.
type Input struct {
	Kind InputKind

	JiraKey string

	GithubOwner string
	GithubRepo  string
	GithubPR    int

	BranchName string
}

var jiraIssueURLPattern = regexp.MustCompile(`(?i)^https?://[^/]+/browse/([A-Za-z]+-?[0-9]+)/?$`)

var githubPRURLPattern = regexp.MustCompile(`(?i)^https?://github\.com/([^/]+)/([^/]+)/pull/([0-9]+)/?$`)

var bareNumberPattern = regexp.MustCompile(`^#?[0-9]+$`)

// Classify inspects token in priority order: a Jira issue URL, a bare
// Jira key, a GitHub PR URL or bare PR number, else a plain branch name.
// A bare number carries no owner/repo; the caller resolves those from
// the origin remote.
func Classify(token string, parser *jira.Parser) Input {
	if m := jiraIssueURLPattern.FindStringSubmatch(token); m != nil {
		if key, ok := parser.Normalize(m[1]); ok {
			return Input{Kind: KindJiraKey, JiraKey: key}
		}
	}

	if key, ok := parser.Normalize(token); ok {
		return Input{Kind: KindJiraKey, JiraKey: key}
	}

	if m := githubPRURLPattern.FindStringSubmatch(token); m != nil {
		if n, err := strconv.Atoi(m[3]); err == nil {
			return Input{Kind: KindGithubPR, GithubOwner: m[1], GithubRepo: m[2], GithubPR: n}
		}
	}

	if bareNumberPattern.MatchString(token) {
		if n, err := strconv.Atoi(strings.TrimPrefix(token, "#")); err == nil {
			return Input{Kind: KindGithubPR, GithubPR: n}
		}
	}

	return Input{Kind: KindBranchName, BranchName: token}
}
