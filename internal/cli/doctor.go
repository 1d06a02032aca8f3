package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/filemanager"
	"github.com/lyb-ai/dev-toolkit/internal/pkgmanager"
	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

const doctorRegistryTimeout = 5 * time.Second

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDoctor(cmd.Context())
		},
	}
}

func (a *App) runDoctor(ctx context.Context) error {
	allOK := true

	if config.LegacyConfigExists(a.projectDir) {
		a.output.Warning("Legacy %s detected: run 'dev-toolkit add' or 'dev-toolkit init' to migrate", config.LegacyConfigFile)
	}

	// 1. Config file
	switch {
	case a.configErr != nil:
		a.output.Error("Config file invalid: %v", a.configErr)
		return nil
	case a.config == nil:
		a.output.Error("%s not found: run 'dev-toolkit init'", config.ConfigFile)
		return nil
	}
	a.output.Success("%s is valid", config.ConfigFile)

	// 2. Registry reachable; a short timeout and no retries so doctor doesn't hang
	registryCtx, cancel := context.WithTimeout(ctx, doctorRegistryTimeout)
	defer cancel()

	client := registry.NewClient(
		registry.WithBaseURL(a.getRegistryURL()),
		registry.WithRetries(0, 0),
	)
	idx, err := client.FetchIndex(registryCtx)
	if err != nil {
		a.output.Error("Registry unreachable at %s: %v", client.BaseURL(), err)
		a.output.Info("  'add' will fall back to the built-in component index.")
		allOK = false
	} else {
		a.output.Success("Registry reachable at %s (%d hooks, %d utils)", client.BaseURL(), len(idx.Hooks), len(idx.Utils))
	}

	// 3. package.json and package manager
	if _, err := pkgmanager.Missing(a.projectDir, nil); err != nil {
		if errors.Is(err, pkgmanager.ErrNoPackageJSON) {
			a.output.Warning("package.json not found: third-party dependencies will not be installed")
		} else {
			a.output.Error("package.json unreadable: %v", err)
			allOK = false
		}
	} else {
		a.output.Success("package.json found, using %s", pkgmanager.Detect(a.projectDir))
	}

	// 4. Component directories
	for _, dir := range []string{a.config.Paths.Hooks, a.config.Paths.Utils} {
		if info, err := os.Stat(filepath.Join(a.projectDir, dir)); err == nil && info.IsDir() {
			a.output.Success("%s/ exists", dir)
		} else if a.config.Components.Len() > 0 {
			a.output.Error("%s/ missing", dir)
			allOK = false
		}
	}

	// 5. Installed files
	missing := 0
	for _, r := range filemanager.VerifyAll(a.projectDir, a.config.Paths, a.config.Components) {
		missing += len(r.Missing)
	}
	if missing == 0 {
		a.output.Success("%d installed components verified", a.config.Components.Len())
	} else {
		a.output.Error("%d installed files missing: run 'dev-toolkit verify' for details", missing)
		allOK = false
	}

	if allOK {
		a.output.Println("")
		a.output.Success("Everything looks good!")
	}
	return nil
}
