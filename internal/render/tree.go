package render

import (
	"strconv"
	"strings"

	"github.com/eddieland/twig/internal/depgraph"
)

const defaultPlaceholder = "--"
const defaultColumnGap = 2

// Options configures a Renderer.
type Options struct {
	ColorMode   ColorMode
	Placeholder string
	ColumnGap   int
	ShowHeader  bool
}

func (o Options) withDefaults() Options {
	if o.Placeholder == "" {
		o.Placeholder = defaultPlaceholder
	}
	if o.ColumnGap == 0 {
		o.ColumnGap = defaultColumnGap
	}
	return o
}

// Renderer emits a deterministic ASCII-tree-connected textual table for a
// dependency graph.
type Renderer struct {
	graph *depgraph.Graph
	opts  Options
}

// New constructs a Renderer over graph.
func New(graph *depgraph.Graph, opts Options) *Renderer {
	return &Renderer{graph: graph, opts: opts.withDefaults()}
}

type row struct {
	branchCell string
	jira       string
	pr         string
	also       string
}

// Render walks roots depth-first and returns the full table, including a
// header row when ShowHeader is set. Each branch is rendered at most once;
// a visited set guards against corrupted cyclic input.
func (r *Renderer) Render(roots []string) string {
	colorsOn := Resolve(r.opts.ColorMode)
	visited := map[string]bool{}
	var rows []row

	for _, root := range roots {
		r.walk(root, "", true, true, colorsOn, visited, &rows)
	}

	return r.format(rows)
}

func (r *Renderer) walk(name, prefix string, isLast, isRoot bool, colorsOn bool, visited map[string]bool, rows *[]row) {
	if visited[name] {
		return
	}
	visited[name] = true

	node, ok := r.graph.Nodes[name]
	if !ok {
		return
	}

	label := name
	if node.IsCurrent {
		label = "* " + styleCurrentBranch(name, colorsOn)
	}

	var branchCell, childPrefix string
	if isRoot {
		// A root consumes no connector column; its children start at
		// depth zero.
		branchCell = label
		childPrefix = prefix
	} else {
		connector := "├─ "
		childPrefix = prefix + "│  "
		if isLast {
			connector = "└─ "
			childPrefix = prefix + "   "
		}
		branchCell = prefix + connector + label
	}

	*rows = append(*rows, row{
		branchCell: branchCell,
		jira:       metadataCell(node, colorsOn, r.opts.Placeholder),
		pr:         prCell(node, colorsOn, r.opts.Placeholder),
		also:       alsoCell(node, colorsOn),
	})

	for i, child := range node.Children {
		last := i == len(node.Children)-1
		r.walk(child, childPrefix, last, false, colorsOn, visited, rows)
	}
}

func metadataCell(node *depgraph.Node, colorsOn bool, placeholder string) string {
	if node.Metadata.JiraIssue != nil {
		return *node.Metadata.JiraIssue
	}
	return stylePlaceholder(placeholder, colorsOn)
}

func prCell(node *depgraph.Node, colorsOn bool, placeholder string) string {
	if node.Metadata.GithubPR != nil {
		return prString(*node.Metadata.GithubPR)
	}
	return stylePlaceholder(placeholder, colorsOn)
}

func prString(n int) string {
	return "#" + strconv.Itoa(n)
}

// alsoCell lists every non-primary parent of a multi-parent branch — the
// cross-reference column described for branches rendered under more than
// one parent's subtree.
func alsoCell(node *depgraph.Node, colorsOn bool) string {
	if len(node.Parents) <= 1 {
		return ""
	}
	extra := node.Parents[1:]
	return "[also: " + strings.Join(extra, ", ") + "]"
}

func (r *Renderer) format(rows []row) string {
	headers := row{branchCell: "BRANCH", jira: "JIRA", pr: "PR", also: "ALSO"}

	branchWidth := displayWidth(headers.branchCell)
	jiraWidth := displayWidth(headers.jira)
	prWidth := displayWidth(headers.pr)
	alsoWidth := displayWidth(headers.also)

	for _, rr := range rows {
		branchWidth = maxInt(branchWidth, displayWidth(rr.branchCell))
		jiraWidth = maxInt(jiraWidth, displayWidth(rr.jira))
		prWidth = maxInt(prWidth, displayWidth(rr.pr))
		alsoWidth = maxInt(alsoWidth, displayWidth(rr.also))
	}

	gap := strings.Repeat(" ", r.opts.ColumnGap)

	var b strings.Builder
	if r.opts.ShowHeader {
		writeRow(&b, headers, branchWidth, jiraWidth, prWidth, alsoWidth, gap)
	}
	for _, rr := range rows {
		writeRow(&b, rr, branchWidth, jiraWidth, prWidth, alsoWidth, gap)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRow(b *strings.Builder, rr row, branchWidth, jiraWidth, prWidth, alsoWidth int, gap string) {
	var line strings.Builder
	line.WriteString(pad(rr.branchCell, branchWidth))
	line.WriteString(gap)
	line.WriteString(pad(rr.jira, jiraWidth))
	line.WriteString(gap)
	line.WriteString(pad(rr.pr, prWidth))
	if alsoWidth > 0 {
		line.WriteString(gap)
		line.WriteString(pad(rr.also, alsoWidth))
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteString("\n")
}

func pad(s string, width int) string {
	w := displayWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
