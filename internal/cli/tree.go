package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eddieland/twig/internal/depgraph"
	"github.com/eddieland/twig/internal/inference"
	"github.com/eddieland/twig/internal/render"
)

func newTreeCmd() *cobra.Command {
	var colorFlag string
	var noHeader bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render the dependency graph as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := newRepoContext(cmd.Context())
			if err != nil {
				return err
			}

			g := rc.graph()
			if !rc.State.HasUserDefinedDependencies() {
				overlayInferredEdges(cmd.Context(), rc, g)
			}

			roots, orphans := depgraph.ExtractTree(g, rc.State.GetRootBranches())
			allRoots := append(append([]string{}, roots...), orphans...)

			opts := render.Options{ColorMode: parseColorMode(colorFlag), ShowHeader: !noHeader}
			out := render.New(g, opts).Render(allRoots)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&colorFlag, "color", "auto", "color output: auto, always, or never")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "omit the column header row")
	return cmd
}

// overlayInferredEdges fills in merge-base-inferred parent edges when the
// user has declared none, so a fresh repository still renders a tree
// instead of a flat list. Inference failures only degrade the display.
func overlayInferredEdges(ctx context.Context, rc *repoContext, g *depgraph.Graph) {
	suggestions, err := suggestParents(ctx, rc)
	if err != nil {
		slog.Debug("tree: inference skipped", "error", err)
		return
	}
	for _, s := range suggestions {
		g.AddEdge(s.Child, s.Parent)
	}
}

// suggestParents runs the merge-base inference engine over the local
// branch list against the declared root set.
func suggestParents(ctx context.Context, rc *repoContext) ([]inference.Suggestion, error) {
	roots := map[string]bool{}
	for _, r := range rc.State.GetRootBranches() {
		roots[r] = true
	}

	existing := map[string]map[string]bool{}
	for _, dep := range rc.State.Dependencies {
		if existing[dep.Child] == nil {
			existing[dep.Child] = map[string]bool{}
		}
		existing[dep.Child][dep.Parent] = true
	}

	return inference.SuggestAll(ctx, rc.LocalBranches, roots, existing, inference.NewGitCollaborator())
}

func parseColorMode(s string) render.ColorMode {
	switch s {
	case "always":
		return render.ColorAlways
	case "never":
		return render.ColorNever
	default:
		return render.ColorAuto
	}
}
