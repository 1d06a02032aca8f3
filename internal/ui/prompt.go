package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/lyb-ai/dev-toolkit/internal/filemanager"
)

// IsCI returns true if running in a CI environment.
// gitlab-ci-local sets GITLAB_CI=false, which should not be treated as CI.
func IsCI() bool {
	return isTruthy(os.Getenv("CI")) ||
		isTruthy(os.Getenv("DEV_TOOLKIT_CI")) ||
		isTruthy(os.Getenv("GITHUB_ACTIONS")) ||
		isTruthy(os.Getenv("GITLAB_CI"))
}

// IsInteractive reports whether stdin and stdout are terminals.
func IsInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func isTruthy(v string) bool {
	return v != "" && v != "false" && v != "0"
}

// Confirm prompts the user for a yes/no confirmation.
func Confirm(title string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	return confirmed, err
}

// ConflictPrompt asks the user whether to overwrite a file that differs from the registry copy.
type ConflictPrompt struct{}

// ResolveConflict implements filemanager.ConflictResolver.
func (ConflictPrompt) ResolveConflict(ctx context.Context, c filemanager.Conflict) (filemanager.Decision, error) {
	decision := filemanager.DecisionOverwrite
	sel := huh.NewSelect[filemanager.Decision]().
		Title(fmt.Sprintf("File %s already exists and is different.", c.Target)).
		Description(fmt.Sprintf("local %d bytes, registry %d bytes", len(c.Existing), len(c.Incoming))).
		Options(
			huh.NewOption("Overwrite", filemanager.DecisionOverwrite),
			huh.NewOption("Skip", filemanager.DecisionSkip),
		).
		Value(&decision)
	err := huh.NewForm(huh.NewGroup(sel)).RunWithContext(ctx)
	if err != nil {
		return filemanager.DecisionSkip, err
	}
	return decision, nil
}

// InitAnswers holds the values collected by the init form.
type InitAnswers struct {
	TypeScript bool
	HooksDir   string
	UtilsDir   string
	HooksAlias string
	UtilsAlias string
}

// DefaultInitAnswers returns the suggested answers for a project.
func DefaultInitAnswers(typescript bool) InitAnswers {
	a := InitAnswers{
		TypeScript: typescript,
		HooksDir:   "hooks",
		UtilsDir:   "utils",
		HooksAlias: "@/hooks",
		UtilsAlias: "@/lib/utils",
	}
	if typescript {
		a.HooksDir = "src/hooks"
		a.UtilsDir = "src/lib/utils"
	}
	return a
}

func required(label string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// AskInit runs the init form, starting from the values in a.
func AskInit(a *InitAnswers) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Would you like to use TypeScript?").
				Affirmative("yes").
				Negative("no").
				Value(&a.TypeScript),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Where would you like to place your hooks?").
				Value(&a.HooksDir).
				Validate(required("hooks directory")),
			huh.NewInput().
				Title("Where would you like to place your utils?").
				Value(&a.UtilsDir).
				Validate(required("utils directory")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Configure the import alias for hooks:").
				Value(&a.HooksAlias).
				Validate(required("hooks alias")),
			huh.NewInput().
				Title("Configure the import alias for utils:").
				Value(&a.UtilsAlias).
				Validate(required("utils alias")),
		),
	)
	return form.Run()
}
