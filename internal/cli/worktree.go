package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	twigerrors "github.com/eddieland/twig/internal/errors"
	twiggit "github.com/eddieland/twig/internal/git"
	"github.com/eddieland/twig/internal/utils"
)

func newWorktreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worktree",
		Short: "Manage auxiliary working copies recorded in twig state",
	}
	cmd.AddCommand(newWorktreeAddCmd())
	cmd.AddCommand(newWorktreeListCmd())
	cmd.AddCommand(newWorktreeRmCmd())
	return cmd
}

// worktreePath places a branch's worktree under a sibling directory of
// the main checkout: <repo>-worktrees/<sanitized-branch>.
func worktreePath(repoPath, branch string) (name, path string) {
	name = utils.SanitizeBranchName(branch)
	parent := filepath.Dir(repoPath)
	base := filepath.Base(repoPath) + "-worktrees"
	return name, filepath.Join(parent, base, name)
}

func newWorktreeAddCmd() *cobra.Command {
	var explicitPath string

	cmd := &cobra.Command{
		Use:               "add <branch>",
		Short:             "Create a worktree for a branch and record it",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			branch := args[0]
			if !contains(rc.LocalBranches, branch) {
				return rc.branchNotFoundWithSuggestion(branch)
			}

			name, path := worktreePath(rc.RepoPath, branch)
			if explicitPath != "" {
				path = explicitPath
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return twigerrors.Wrap(twigerrors.KindFileSystem, err)
			}
			if err := twiggit.AddWorktree(cmd.Context(), path, branch, false); err != nil {
				return twigerrors.Wrap(twigerrors.KindExternalCommand, err)
			}

			rc.State.AddWorktree(name, path, branch)
			if err := rc.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created worktree %s at %s\n", name, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&explicitPath, "path", "", "create the worktree at this path instead of the default sibling directory")
	return cmd
}

func newWorktreeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded worktrees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			recorded := rc.State.ListWorktrees()
			if len(recorded) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no worktrees recorded")
				return nil
			}

			// Cross-check against what Git actually has, so an entry whose
			// directory was removed out-of-band is visibly flagged.
			live := map[string]bool{}
			if paths, err := twiggit.ListWorktrees(cmd.Context()); err == nil {
				for _, p := range paths {
					live[p] = true
				}
			}

			for _, w := range recorded {
				marker := ""
				if !live[w.Path] {
					marker = "  (missing on disk)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s%s\n", w.Name, w.Branch, w.Path, marker)
			}
			return nil
		},
	}
}

func newWorktreeRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a recorded worktree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			name := args[0]
			w, ok := rc.State.GetWorktree(name)
			if !ok {
				return twigerrors.New(twigerrors.KindBranchOperation,
					fmt.Sprintf("no worktree named %s is recorded", name),
					"run `twig worktree list` to see recorded worktrees")
			}

			if err := twiggit.RemoveWorktree(cmd.Context(), w.Path); err != nil {
				// The directory may already be gone; still drop the record.
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			rc.State.RemoveWorktree(name)
			if err := rc.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed worktree %s\n", name)
			return nil
		},
	}
}
