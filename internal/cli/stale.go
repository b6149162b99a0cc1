package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/stale"
)

func newStaleCmd() *cobra.Command {
	var days int
	var force bool

	cmd := &cobra.Command{
		Use:   "stale",
		Short: "Report and optionally delete branches whose tip has aged past a threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			finder := stale.New(rc.graph(), rc.State, twiggit.GetCommitDate, mergeBaseAdapter, novelCommitsAdapter)
			finder.MergedCheck = twiggit.IsMerged
			candidates, err := finder.Find(cmd.Context(), time.Duration(days)*24*time.Hour, time.Now())
			if err != nil {
				return twigerrors.Wrap(twigerrors.KindExternalCommand, err)
			}
			if len(candidates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stale branches found")
				return nil
			}

			decide := func(c stale.Candidate) bool {
				describeCandidate(cmd, c)
				if force {
					return true
				}
				ok, err := confirm(fmt.Sprintf("delete %s?", c.Branch))
				if err != nil {
					return false
				}
				return ok
			}
			deleteBranch := func(name string) error {
				return twiggit.DeleteBranch(cmd.Context(), name)
			}

			summary := stale.Review(candidates, decide, deleteBranch)
			fmt.Fprintf(cmd.OutOrStdout(), "%d stale, %d deleted, %d skipped\n",
				summary.Total, len(summary.Deleted), len(summary.Skipped))
			for branch, err := range summary.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to delete %s: %v\n", branch, err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "age threshold in days")
	cmd.Flags().BoolVar(&force, "force", false, "delete without prompting per branch")
	return cmd
}

func describeCandidate(cmd *cobra.Command, c stale.Candidate) {
	parent := "(no declared parent)"
	if c.HasParent {
		parent = c.Parent
	}
	merged := ""
	if c.Merged {
		merged = ", merged"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: idle %s, parent %s, %d novel commit(s)%s\n",
		c.Branch, c.TipAge.Round(time.Hour), parent, c.NovelCommits, merged)
}

func mergeBaseAdapter(ctx context.Context, branch, parent string) (string, bool, error) {
	base, err := twiggit.GetMergeBase(ctx, branch, parent)
	if err != nil {
		return "", false, nil
	}
	return base, base != "", nil
}

func novelCommitsAdapter(ctx context.Context, mergeBase, branch string) (int, error) {
	shas, err := twiggit.GetCommitRangeSHAs(ctx, mergeBase, branch)
	if err != nil {
		return 0, err
	}
	return len(shas), nil
}
