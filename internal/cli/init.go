package cli

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/exitcodes"
	"github.com/lyb-ai/dev-toolkit/internal/pkgmanager"
	"github.com/lyb-ai/dev-toolkit/internal/ui"
)

func (a *App) newInitCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create " + config.ConfigFile + " for this project",
		Long:  "Asks where hooks and utils should live and which import aliases they use, then writes " + config.ConfigFile + ".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept the detected defaults without prompting")
	return cmd
}

func (a *App) runInit(yes bool) error {
	interactive := !yes && !ui.IsCI() && ui.IsInteractive()

	if config.ConfigExists(a.projectDir) {
		a.output.Warning("%s already exists.", config.ConfigFile)
		if !interactive {
			return &ExitError{Code: exitcodes.ConfigError, Message: config.ConfigFile + " already exists"}
		}
		overwrite, err := ui.Confirm("Do you want to overwrite it?")
		if err != nil {
			return a.promptError(err)
		}
		if !overwrite {
			a.output.Info("Init cancelled.")
			return nil
		}
	}

	manager := pkgmanager.Detect(a.projectDir)
	_, tsErr := os.Stat(filepath.Join(a.projectDir, "tsconfig.json"))
	answers := ui.DefaultInitAnswers(tsErr == nil)

	if interactive {
		if err := ui.AskInit(&answers); err != nil {
			return a.promptError(err)
		}
	}

	registryURL := a.registryURL
	if registryURL == "" {
		registryURL = config.DefaultRegistryURL
	}

	cfg := &config.Config{
		TypeScript:  answers.TypeScript,
		RegistryURL: registryURL,
		Aliases: config.Aliases{
			Utils: answers.UtilsAlias,
			Hooks: answers.HooksAlias,
		},
		Paths: config.Paths{
			Hooks: answers.HooksDir,
			Utils: answers.UtilsDir,
		},
	}
	// keep components installed before a legacy migration
	if a.config != nil {
		cfg.Components = a.config.Components
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return &ExitError{Code: exitcodes.ConfigError, Message: err.Error()}
	}

	a.config = cfg
	if err := config.SaveConfig(a.projectDir, cfg); err != nil {
		return err
	}
	if a.migrated {
		if err := config.RemoveLegacyConfig(a.projectDir); err != nil {
			a.output.Warning("Could not remove %s: %v", config.LegacyConfigFile, err)
		}
		a.migrated = false
	}

	a.output.Success("%s created successfully!", config.ConfigFile)
	a.output.Println("")
	a.output.Info("Next steps:")
	a.output.Step("Run %s install", manager)
	a.output.Step("Try adding a hook: dev-toolkit add hook useLocalStorage")
	return nil
}

// promptError maps an aborted prompt to a clean exit.
func (a *App) promptError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		a.output.Info("Init cancelled.")
		return nil
	}
	return err
}
