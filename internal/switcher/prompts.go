package switcher

import (
	"github.com/AlecAivazis/survey/v2"

	twigerrors "github.com/eddieland/twig/internal/errors"
	"github.com/eddieland/twig/internal/utils"
)

// JiraBranchChoice is an operator's answer to PROMPT_JIRA_BRANCH_CREATION.
type JiraBranchChoice int

const (
	JiraFromSummary JiraBranchChoice = iota
	JiraSimpleName
	JiraCustomName
	JiraAbort
)

// PromptJiraBranchCreation offers up to four options, omitting the
// from-summary option when jiraReachable is false (Jira could not be
// reached, or this caller has no summary to slug). Returns ErrNonInteractive
// immediately, without prompting, if stdin is not a TTY.
func PromptJiraBranchCreation(jiraKey string, jiraReachable bool) (JiraBranchChoice, string, error) {
	if !utils.IsInteractive() {
		return 0, "", twigerrors.Wrap(twigerrors.KindUserInput, twigerrors.ErrNonInteractive,
			"rerun with an explicit branch name, or attach to a TTY")
	}

	var options []string
	var choices []JiraBranchChoice
	if jiraReachable {
		options = append(options, "Create a branch from the Jira issue summary")
		choices = append(choices, JiraFromSummary)
	}
	options = append(options,
		"Create a simple branch named "+utils.SanitizeBranchName(jiraKey),
		"Enter a custom branch name",
		"Abort",
	)
	choices = append(choices, JiraSimpleName, JiraCustomName, JiraAbort)

	var index int
	prompt := &survey.Select{
		Message: "No branch is associated with " + jiraKey + ". What would you like to do?",
		Options: options,
	}
	if err := survey.AskOne(prompt, &index); err != nil {
		return 0, "", twigerrors.Wrap(twigerrors.KindUserInput, err)
	}

	choice := choices[index]
	if choice == JiraCustomName {
		var name string
		if err := survey.AskOne(&survey.Input{Message: "Branch name:"}, &name); err != nil {
			return 0, "", twigerrors.Wrap(twigerrors.KindUserInput, err)
		}
		return choice, name, nil
	}
	return choice, "", nil
}

// TrackOrCreateChoice is an operator's answer to PROMPT_TRACK_OR_CREATE.
type TrackOrCreateChoice int

const (
	TrackRemote TrackOrCreateChoice = iota
	CreateFresh
	TrackCustomName
	TrackAbort
)

// PromptTrackOrCreate offers to track the remote branch, create a fresh
// local branch ignoring the remote, enter a custom name, or abort.
func PromptTrackOrCreate(branch string) (TrackOrCreateChoice, string, error) {
	if !utils.IsInteractive() {
		return 0, "", twigerrors.Wrap(twigerrors.KindUserInput, twigerrors.ErrNonInteractive,
			"rerun with `git fetch` and a plain checkout, or attach to a TTY")
	}

	options := []string{
		"Track the remote branch " + branch,
		"Create a fresh local branch (ignore the remote)",
		"Enter a custom branch name",
		"Abort",
	}
	choices := []TrackOrCreateChoice{TrackRemote, CreateFresh, TrackCustomName, TrackAbort}

	var index int
	prompt := &survey.Select{
		Message: branch + " exists on the remote but not locally. What would you like to do?",
		Options: options,
	}
	if err := survey.AskOne(prompt, &index); err != nil {
		return 0, "", twigerrors.Wrap(twigerrors.KindUserInput, err)
	}

	choice := choices[index]
	if choice == TrackCustomName {
		var name string
		if err := survey.AskOne(&survey.Input{Message: "Branch name:"}, &name); err != nil {
			return 0, "", twigerrors.Wrap(twigerrors.KindUserInput, err)
		}
		return choice, name, nil
	}
	return choice, "", nil
}

// ConfirmCreateNew prompts to create a branch that exists nowhere yet.
func ConfirmCreateNew(branch string) (bool, error) {
	if !utils.IsInteractive() {
		return false, twigerrors.Wrap(twigerrors.KindUserInput, twigerrors.ErrNonInteractive,
			"rerun with `twig switch <existing-branch>`, or attach to a TTY")
	}
	var ok bool
	prompt := &survey.Confirm{
		Message: branch + " does not exist locally or on the remote. Create it?",
		Default: true,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, twigerrors.Wrap(twigerrors.KindUserInput, err)
	}
	return ok, nil
}
