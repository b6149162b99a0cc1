package cascade

import (
	"context"

	twiggit "github.com/eddieland/twig/internal/git"
)

// ForcePushIfTracked force-with-lease-pushes branch to origin, but only
// when a remote-tracking branch named origin/<branch> already exists;
// otherwise it is a silent no-op.
func ForcePushIfTracked(ctx context.Context, branch string) error {
	_, err := twiggit.RunGitCommandWithContext(ctx, "rev-parse", "--verify", "--quiet", "origin/"+branch)
	if err != nil {
		return nil
	}
	return twiggit.PushBranch(ctx, branch, "origin", false, true)
}
