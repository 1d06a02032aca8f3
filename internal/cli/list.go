package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

func (a *App) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all available hooks and utils",
		Long:    "Shows all registry components. Installed components show their installed version.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context())
		},
	}
}

func (a *App) runList(ctx context.Context) error {
	if a.configErr != nil {
		a.output.Warning("Ignoring %s: %v", config.ConfigFile, a.configErr)
	} else if a.config == nil {
		a.output.Warning("Config file not found. Using the default registry to list available components.")
	}

	idx, _, err := a.loadIndex(ctx)
	if err != nil {
		return err
	}

	var installed config.Components
	if a.config != nil {
		installed = a.config.Components
	}

	total, installedCount := 0, 0
	for _, section := range []struct {
		title string
		t     registry.ComponentType
	}{
		{"Available Hooks:", registry.TypeHook},
		{"Available Utils:", registry.TypeUtil},
	} {
		a.output.Println("")
		a.output.Println("%s", a.output.Bold(section.title))

		for _, name := range idx.Names(section.t) {
			c, _ := idx.Lookup(section.t, name)
			total++

			status := a.output.Dim("(not installed)")
			if entry, ok := installed.Get(section.t, name); ok {
				installedCount++
				label := fmt.Sprintf("(installed v%s)", entry.Version)
				if entry.Version != c.Version {
					label = fmt.Sprintf("(installed v%s, latest v%s)", entry.Version, c.Version)
				}
				status = a.output.Green(label)
			}

			a.output.Println("  %s %s", a.output.Accent(name), status)
			if c.Description != "" {
				a.output.Println("    %s", a.output.Dim(c.Description))
			}
		}
	}

	a.output.Println("")
	if installedCount > 0 {
		a.output.Println("%d/%d components installed", installedCount, total)
	} else {
		a.output.Println("%d components available", total)
	}
	return nil
}
