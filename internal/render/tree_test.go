package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddieland/twig/internal/depgraph"
	"github.com/eddieland/twig/internal/state"
)

func TestRenderSingleBranchTable(t *testing.T) {
	s, err := state.Load(t.TempDir())
	require.NoError(t, err)

	g := depgraph.Build([]string{"main"}, "main", s)
	out := New(g, Options{ColorMode: ColorNever}).Render([]string{"main"})

	assert.Contains(t, out, "* main")
}

func TestRenderTreeConnectors(t *testing.T) {
	s, err := state.Load(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.AddDependency("feature", "main"))
	require.NoError(t, s.AddDependency("sub", "feature"))

	g := depgraph.Build([]string{"main", "feature", "sub"}, "main", s)
	out := New(g, Options{ColorMode: ColorNever}).Render([]string{"main"})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "└─ feature")
	assert.Contains(t, lines[2], "   └─ sub")
}

func TestRenderPlaceholderForMissingMetadata(t *testing.T) {
	s, err := state.Load(t.TempDir())
	require.NoError(t, err)

	g := depgraph.Build([]string{"main"}, "main", s)
	out := New(g, Options{ColorMode: ColorNever}).Render([]string{"main"})

	assert.Contains(t, out, "--")
}

func TestRenderCrossReferenceColumn(t *testing.T) {
	s, err := state.Load(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.AddDependency("shared", "main"))
	require.NoError(t, s.AddDependency("shared", "other"))

	g := depgraph.Build([]string{"main", "other", "shared"}, "main", s)
	out := New(g, Options{ColorMode: ColorNever}).Render([]string{"main"})

	assert.Contains(t, out, "[also: other]")
}
