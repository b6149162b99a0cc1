package rebase

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	twigerrors "github.com/eddieland/twig/internal/errors"
	"github.com/eddieland/twig/internal/utils"
)

type conflictItem struct {
	label      string
	resolution Resolution
}

func (i conflictItem) Title() string       { return i.label }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return i.label }

type conflictModel struct {
	list     list.Model
	chosen   Resolution
	canceled bool
}

func (m conflictModel) Init() tea.Cmd {
	return nil
}

func (m conflictModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(conflictItem); ok {
				m.chosen = item.resolution
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		h, v := lipgloss.NewStyle().Margin(1, 2).GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m conflictModel) View() string {
	return lipgloss.NewStyle().Margin(1, 2).Render(m.list.View())
}

// PromptConflictResolution drives the CONFLICT_WAIT menu: the operator
// picks Continue, AbortToOriginal, AbortStayHere, or Skip. On a
// non-interactive terminal this fails immediately without prompting, per
// the rebase engine's --no-interactive contract.
func PromptConflictResolution(branch string) (Resolution, error) {
	if !utils.IsInteractive() {
		return 0, twigerrors.Wrap(twigerrors.KindUserInput, twigerrors.ErrRebaseConflict,
			"resolve the conflict then run `git rebase --continue`",
			"or rerun with --no-interactive only once the conflict is resolved externally")
	}

	items := []list.Item{
		conflictItem{label: "Continue (I resolved the conflict)", resolution: Continue},
		conflictItem{label: "Abort and return to " + branch, resolution: AbortToOriginal},
		conflictItem{label: "Abort and stay here", resolution: AbortStayHere},
		conflictItem{label: "Skip this commit", resolution: Skip},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Rebase conflict — what would you like to do?"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))

	program := tea.NewProgram(conflictModel{list: l})
	final, err := program.Run()
	if err != nil {
		return 0, twigerrors.Wrap(twigerrors.KindUserInput, err)
	}

	result := final.(conflictModel)
	if result.canceled {
		return 0, twigerrors.Wrap(twigerrors.KindUserInput, fmt.Errorf("conflict resolution canceled"))
	}
	return result.chosen, nil
}
