package cli

import (
	"context"
	"sort"

	"github.com/hashicorp/go-version"
	"github.com/spf13/cobra"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

func (a *App) newOutdatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outdated",
		Short: "Show installed components with newer registry versions",
		Long:  "Compare installed versions against the registry to show available updates.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOutdated(cmd.Context())
		},
	}
}

// compareVersions classifies an installed version against the registry's.
func compareVersions(installed, latest string) string {
	iv, err := version.NewVersion(installed)
	if err != nil {
		return "unknown version"
	}
	lv, err := version.NewVersion(latest)
	if err != nil {
		return "unknown version"
	}
	switch {
	case iv.LessThan(lv):
		return "update available"
	case iv.GreaterThan(lv):
		return "ahead of registry"
	}
	return "up to date"
}

func (a *App) runOutdated(ctx context.Context) error {
	if err := a.RequireProject(); err != nil {
		return err
	}

	if a.config.Components.Len() == 0 {
		a.output.Info("No components installed.")
		return nil
	}

	idx, _, err := a.loadIndex(ctx)
	if err != nil {
		return err
	}

	headers := []string{"Component", "Installed", "Latest", "Status"}
	var rows [][]string
	hasOutdated := false

	for _, t := range []registry.ComponentType{registry.TypeHook, registry.TypeUtil} {
		for _, name := range installedNames(a.config.Components, t) {
			entry, _ := a.config.Components.Get(t, name)
			latest := "removed"
			status := "removed from registry"

			if c, ok := idx.Lookup(t, name); ok {
				latest = c.Version
				status = compareVersions(entry.Version, c.Version)
				if status == "update available" {
					hasOutdated = true
				}
			}

			rows = append(rows, []string{registry.Key(t, name), entry.Version, latest, status})
		}
	}

	a.output.Table(headers, rows)

	if !hasOutdated {
		a.output.Println("")
		a.output.Success("All components are up to date")
	}
	return nil
}

func installedNames(c config.Components, t registry.ComponentType) []string {
	m := c.Hooks
	if t == registry.TypeUtil {
		m = c.Utils
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
