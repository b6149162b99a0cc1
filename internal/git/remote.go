package git

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// PruneRemote removes remote-tracking refs for branches that no longer
// exist on remote, in the repository at dir. Used by twig git fetch/
// fetch-all so the cross-repo registry's view of each repository's
// remote branches stays in sync with what was actually fetched.
func PruneRemote(ctx context.Context, dir, remote string) error {
	_, _, _, err := RunGitCommandCombined(ctx, dir, "remote", "prune", remote)
	return err
}

// FetchRemoteShas returns the current tip SHA of every branch advertised by
// remote, keyed by branch name (without the refs/heads/ prefix).
func FetchRemoteShas(ctx context.Context, remote string) (map[string]string, error) {
	output, err := RunGitCommandWithContext(ctx, "ls-remote", "--heads", remote)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches for %s: %w", remote, err)
	}

	shas := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		sha, ref := fields[0], fields[1]
		const prefix = "refs/heads/"
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		shas[strings.TrimPrefix(ref, prefix)] = sha
	}

	return shas, nil
}

// githubRemotePattern matches both SSH and HTTPS GitHub remote URLs:
// git@github.com:owner/repo.git and https://github.com/owner/repo(.git).
var githubRemotePattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?$`)

// GetOriginOwnerRepo parses the origin remote URL into its GitHub
// (owner, repo) pair, so a bare PR number given to twig switch can be
// resolved against the right repository.
func GetOriginOwnerRepo(ctx context.Context) (owner, repo string, err error) {
	url, err := RunGitCommandWithContext(ctx, "remote", "get-url", "origin")
	if err != nil {
		return "", "", fmt.Errorf("failed to read origin remote URL: %w", err)
	}

	m := githubRemotePattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return "", "", fmt.Errorf("origin remote %q is not a GitHub URL", url)
	}
	return m[1], m[2], nil
}
