package inference

import (
	"context"

	twiggit "github.com/eddieland/twig/internal/git"
)

// realCollaborator adapts the internal/git package's merge-base/ancestry
// helpers to the Collaborator interface.
type realCollaborator struct{}

// NewGitCollaborator returns a Collaborator backed by the repository
// opened via internal/git's default-repo machinery.
func NewGitCollaborator() Collaborator {
	return realCollaborator{}
}

func (realCollaborator) MergeBase(ctx context.Context, a, b string) (string, bool, error) {
	sha, err := twiggit.GetMergeBase(ctx, a, b)
	if err != nil {
		return "", false, nil //nolint:nilerr // "no merge base" is a normal skip, not a hard failure
	}
	return sha, true, nil
}

func (realCollaborator) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	return twiggit.IsAncestor(ctx, ancestor, descendant)
}

func (realCollaborator) CommitsAhead(ctx context.Context, base, head string) (int, error) {
	return twiggit.CountCommitsAhead(ctx, base, head)
}
