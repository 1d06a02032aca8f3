package cli

import (
	"github.com/spf13/cobra"

	"github.com/lyb-ai/dev-toolkit/internal/exitcodes"
	"github.com/lyb-ai/dev-toolkit/internal/filemanager"
)

func (a *App) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify installed component files are present",
		Long:  "CI command: checks that every file recorded in the manifest exists. Exit 0 = OK, exit 6 = missing files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify()
		},
	}
}

func (a *App) runVerify() error {
	if err := a.RequireProject(); err != nil {
		return err
	}

	results := filemanager.VerifyAll(a.projectDir, a.config.Paths, a.config.Components)

	var missing int
	for _, r := range results {
		missing += len(r.Missing)
	}

	if missing == 0 {
		a.output.Success("All %d components verified", len(results))
		return nil
	}

	a.output.Error("Verification failed")
	a.output.Println("")
	a.output.Println("Missing files:")
	for _, r := range results {
		for _, f := range r.Missing {
			a.output.Println("  %s  %s", r.Component, f)
		}
	}
	a.output.Println("")
	a.output.Println("Run: dev-toolkit add <type> <name> to restore them")

	return &ExitError{Code: exitcodes.VerificationFailed, Message: "verification failed"}
}
