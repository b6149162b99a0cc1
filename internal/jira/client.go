package jira

import "context"

// Issue is the subset of a Jira issue the core consults: just enough to
// slug a branch name from its summary.
type Issue struct {
	Key     string
	Summary string
}

// Client is the external Jira collaborator's contract. Dependents use only
// this interface; the HTTP implementation (auth, the Jira REST schema)
// lives in an adapter that can be swapped or mocked independently.
type Client interface {
	GetIssue(ctx context.Context, key string) (Issue, error)
	ListIssues(ctx context.Context, project, status, assignee string) ([]Issue, error)
	// Reachable reports whether the Jira instance is configured and
	// currently responding, used to decide whether a branch-from-summary
	// option can be offered without a doomed round trip.
	Reachable(ctx context.Context) bool
}
