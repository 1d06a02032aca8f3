package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lyb-ai/dev-toolkit/internal/registry"
)

func (a *App) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search available hooks and utils in the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd.Context(), args[0])
		},
	}
}

type searchMatch struct {
	key       string
	component registry.Component
}

// searchIndex returns the components whose name, description or category contains term.
func searchIndex(idx *registry.Index, term string) []searchMatch {
	term = strings.ToLower(term)

	var matches []searchMatch
	for _, t := range []registry.ComponentType{registry.TypeHook, registry.TypeUtil} {
		for _, name := range idx.Names(t) {
			c, _ := idx.Lookup(t, name)
			if strings.Contains(strings.ToLower(name), term) ||
				strings.Contains(strings.ToLower(c.Description), term) ||
				strings.Contains(strings.ToLower(c.Category), term) {
				matches = append(matches, searchMatch{key: registry.Key(t, name), component: c})
			}
		}
	}
	return matches
}

func (a *App) runSearch(ctx context.Context, term string) error {
	idx, _, err := a.loadIndex(ctx)
	if err != nil {
		return err
	}

	matches := searchIndex(idx, term)
	if len(matches) == 0 {
		a.output.Info("No components matching %q", term)
		return nil
	}

	a.output.Println("Components matching %q:\n", term)
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		category := m.component.Category
		if category == "" {
			category = "-"
		}
		rows = append(rows, []string{m.key, m.component.Version, category, m.component.Description})
	}
	a.output.Table([]string{"COMPONENT", "VERSION", "CATEGORY", "DESCRIPTION"}, rows)
	return nil
}
