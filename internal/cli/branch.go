package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	twigerrors "github.com/eddieland/twig/internal/errors"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "Manage declared branch dependencies and roots",
	}

	cmd.AddCommand(newBranchDependCmd())
	cmd.AddCommand(newBranchRmDepCmd())
	cmd.AddCommand(newBranchParentCmd())
	cmd.AddCommand(newBranchRootCmd())
	cmd.AddCommand(newBranchSuggestCmd())
	return cmd
}

func newBranchSuggestCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest likely parents from Git history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			suggestions, err := suggestParents(cmd.Context(), rc)
			if err != nil {
				return twigerrors.Wrap(twigerrors.KindGitRepository, err)
			}
			if len(suggestions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no parent suggestions")
				return nil
			}

			for _, s := range suggestions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s  (score %.2f, %s)\n",
					s.Child, s.Parent, s.Score, s.Rationale)
			}

			if !apply {
				return nil
			}
			for _, s := range suggestions {
				if err := rc.State.AddDependency(s.Child, s.Parent); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s -> %s: %v\n", s.Child, s.Parent, err)
				}
			}
			if err := rc.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %d dependency suggestion(s)\n", len(suggestions))
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "record each suggestion as a declared dependency")
	return cmd
}

func newBranchDependCmd() *cobra.Command {
	var exclusive bool

	cmd := &cobra.Command{
		Use:               "depend <child> <parent>",
		Short:             "Declare that child is based on parent",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			child, parent := args[0], args[1]
			if !contains(rc.LocalBranches, child) {
				return rc.branchNotFoundWithSuggestion(child)
			}
			if !contains(rc.LocalBranches, parent) {
				return rc.branchNotFoundWithSuggestion(parent)
			}

			if exclusive {
				rc.State.RemoveChildDependencies(child)
			}
			if err := rc.State.AddDependency(child, parent); err != nil {
				return err
			}
			if err := rc.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %s\n", child, parent)
			return nil
		},
	}

	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "remove child's other declared parents first")
	return cmd
}

func newBranchRmDepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "rm-dep <child> <parent>",
		Short:             "Remove a declared child-parent dependency",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			child, parent := args[0], args[1]
			if !rc.State.RemoveDependency(child, parent) {
				return twigerrors.New(twigerrors.KindBranchOperation,
					fmt.Sprintf("no dependency from %s to %s is declared", child, parent))
			}
			if err := rc.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed dependency: %s no longer depends on %s\n", child, parent)
			return nil
		},
	}
	return cmd
}

func newBranchParentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "parent [<branch>]",
		Short:             "List the declared parents of a branch",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			branch := rc.CurrentBranch
			if len(args) == 1 {
				branch = args[0]
			}

			parents := rc.State.GetDependencyParents(branch)
			if len(parents) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no declared parent\n", branch)
				return nil
			}
			for _, p := range parents {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	return cmd
}

func newBranchRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Manage declared root branches",
	}
	cmd.AddCommand(newBranchRootAddCmd())
	cmd.AddCommand(newBranchRootListCmd())
	cmd.AddCommand(newBranchRootRmCmd())
	return cmd
}

func newBranchRootAddCmd() *cobra.Command {
	var isDefault bool

	cmd := &cobra.Command{
		Use:               "add <branch>",
		Short:             "Declare branch as a tree root",
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

			rc.State.AddRoot(branch, isDefault)
			if err := rc.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now a declared root\n", branch)
			return nil
		},
	}

	cmd.Flags().BoolVar(&isDefault, "default", false, "mark this root as the default orphan-attachment target")
	return cmd
}

func newBranchRootListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List declared root branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			roots := rc.State.ListRoots()
			if len(roots) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no root branches declared")
				return nil
			}
			for _, r := range roots {
				marker := ""
				if r.IsDefault {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", r.Branch, marker)
			}
			return nil
		},
	}
}

func newBranchRootRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <branch>",
		Short:             "Remove a declared root branch",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			branch := args[0]
			if !rc.State.RemoveRoot(branch) {
				return twigerrors.New(twigerrors.KindBranchOperation,
					fmt.Sprintf("%s is not a declared root", branch))
			}
			if err := rc.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed root: %s\n", branch)
			return nil
		},
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
