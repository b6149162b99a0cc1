// Package github is the external GitHub collaborator: the interface the
// core consumes plus a go-github-backed implementation. Only pull-request
// reads are exposed; twig never creates or merges PRs.
package github

import (
	"context"
	"fmt"
	"os"

	gogithub "github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	twigerrors "github.com/eddieland/twig/internal/errors"
)

// PullRequest is the subset of a GitHub pull request the core consults.
type PullRequest struct {
	Number     int
	Title      string
	State      string
	HeadBranch string
	BaseBranch string
}

// Client is the GitHub collaborator's contract.
type Client interface {
	ListPullRequests(ctx context.Context, owner, repo, state string, page int) ([]PullRequest, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequest, error)
	FindPullRequestsByHeadBranch(ctx context.Context, owner, repo, branch, state string) ([]PullRequest, error)
	GetPRStatus(ctx context.Context, owner, repo string, number int) (string, error)
}

// APIClient implements Client against the GitHub REST API.
type APIClient struct {
	gh *gogithub.Client
}

// NewClient builds an APIClient authenticated with token, or an
// unauthenticated one when token is empty (public repositories only,
// with GitHub's much lower rate limit).
func NewClient(ctx context.Context, token string) *APIClient {
	if token == "" {
		return &APIClient{gh: gogithub.NewClient(nil)}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &APIClient{gh: gogithub.NewClient(oauth2.NewClient(ctx, ts))}
}

// NewClientFromEnv builds an APIClient from the GITHUB_TOKEN environment
// variable, falling back to unauthenticated access when unset.
func NewClientFromEnv(ctx context.Context) *APIClient {
	return NewClient(ctx, os.Getenv("GITHUB_TOKEN"))
}

// ListPullRequests returns one page of PRs in the given state ("open",
// "closed", or "all"; empty means open).
func (c *APIClient) ListPullRequests(ctx context.Context, owner, repo, state string, page int) ([]PullRequest, error) {
	opts := &gogithub.PullRequestListOptions{
		State:       state,
		ListOptions: gogithub.ListOptions{Page: page},
	}
	prs, _, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, twigerrors.Wrap(twigerrors.KindNetwork, err)
	}
	return convertAll(prs), nil
}

// GetPullRequest fetches a single PR by number.
func (c *APIClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return PullRequest{}, twigerrors.Wrap(twigerrors.KindNetwork, err,
			fmt.Sprintf("check that %s/%s#%d exists and GITHUB_TOKEN grants access", owner, repo, number))
	}
	return convert(pr), nil
}

// FindPullRequestsByHeadBranch returns PRs whose head is branch.
func (c *APIClient) FindPullRequestsByHeadBranch(ctx context.Context, owner, repo, branch, state string) ([]PullRequest, error) {
	opts := &gogithub.PullRequestListOptions{
		State: state,
		Head:  owner + ":" + branch,
	}
	prs, _, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, twigerrors.Wrap(twigerrors.KindNetwork, err)
	}
	return convertAll(prs), nil
}

// GetPRStatus returns the combined commit status of a PR's head
// ("success", "pending", "failure").
func (c *APIClient) GetPRStatus(ctx context.Context, owner, repo string, number int) (string, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return "", twigerrors.Wrap(twigerrors.KindNetwork, err)
	}
	status, _, err := c.gh.Repositories.GetCombinedStatus(ctx, owner, repo, pr.GetHead().GetSHA(), nil)
	if err != nil {
		return "", twigerrors.Wrap(twigerrors.KindNetwork, err)
	}
	return status.GetState(), nil
}

func convert(pr *gogithub.PullRequest) PullRequest {
	return PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		State:      pr.GetState(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
	}
}

func convertAll(prs []*gogithub.PullRequest) []PullRequest {
	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, convert(pr))
	}
	return out
}
