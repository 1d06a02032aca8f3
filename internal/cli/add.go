package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lyb-ai/dev-toolkit/internal/exitcodes"
	"github.com/lyb-ai/dev-toolkit/internal/fetcher"
	"github.com/lyb-ai/dev-toolkit/internal/filemanager"
	"github.com/lyb-ai/dev-toolkit/internal/pkgmanager"
	"github.com/lyb-ai/dev-toolkit/internal/registry"
	"github.com/lyb-ai/dev-toolkit/internal/resolver"
	"github.com/lyb-ai/dev-toolkit/internal/transform"
	"github.com/lyb-ai/dev-toolkit/internal/ui"
)

type addOptions struct {
	force  bool
	dryRun bool
}

func (a *App) newAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <type> <name>",
		Short: "Add a hook or util to this project",
		Long: "Resolves the component's internal dependencies, downloads their sources, rewrites\n" +
			"registry imports to your configured aliases and writes the files into your project.",
		Example: "  dev-toolkit add hook useLocalStorage\n  dev-toolkit add util formatDate --dry-run",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAdd(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite files that differ without asking")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would be written without changing anything")
	return cmd
}

func (a *App) runAdd(ctx context.Context, typeArg, name string, opts addOptions) error {
	t := registry.ComponentType(typeArg)
	if !t.Valid() {
		return &ExitError{
			Code:    exitcodes.UsageError,
			Message: fmt.Sprintf("invalid component type %q: must be %q or %q", typeArg, registry.TypeHook, registry.TypeUtil),
		}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return &ExitError{Code: exitcodes.UsageError, Message: "component name is required"}
	}

	if err := a.RequireProject(); err != nil {
		return err
	}

	idx, source, err := a.loadIndex(ctx)
	if err != nil {
		return err
	}

	res, err := resolver.NewResolver(idx).Resolve(t, name)
	if err != nil {
		var notFound *resolver.ComponentNotFoundError
		if errors.As(err, &notFound) {
			return &ExitError{Code: exitcodes.NotFound, Message: notFound.Error()}
		}
		return err
	}
	for _, skipped := range res.Skipped {
		a.output.Warning("%v", skipped)
	}

	a.output.Info("Resolved components: %s", strings.Join(res.Keys(), ", "))

	a.handleDependencies(ctx, res.Dependencies(), opts.dryRun)

	var fetched []fetcher.FetchedComponent
	err = ui.WithSpinner(ctx, "Fetching component sources...", func() error {
		var fetchErr error
		fetched, fetchErr = fetcher.New(source).FetchAll(ctx, res.Components)
		return fetchErr
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for _, e := range unjoin(err) {
			a.output.Error("%v", e)
		}
		return &ExitError{Code: exitcodes.NetworkError, Message: "failed to fetch component sources, nothing was written"}
	}

	fetched = transform.Components(fetched, a.config.Aliases)

	writer := filemanager.NewWriter(a.projectDir, a.config.Paths,
		filemanager.WithLogger(a.output),
		filemanager.WithConflictResolver(a.conflictResolver()),
	)

	if opts.dryRun {
		a.printPlan(writer.Plan(fetched, filemanager.Options{Force: opts.force}))
		return nil
	}

	result, writeErr := writer.Write(ctx, fetched, a.config.Components, filemanager.Options{Force: opts.force})

	// persist whatever was written, even when the run stopped early
	if result != nil && result.Changed {
		a.config.Components = result.Components
		if err := a.saveConfig(); err != nil {
			return err
		}
	}

	if writeErr != nil {
		return fmt.Errorf("writing components: %w", writeErr)
	}

	if result.Changed {
		a.output.Success("Successfully added %s/%s", t, name)
	} else {
		a.output.Info("Operation completed. No changes were made.")
	}
	return nil
}

// conflictResolver prompts for conflicts on a terminal and skips them otherwise.
func (a *App) conflictResolver() filemanager.ConflictResolver {
	if ui.IsCI() || !ui.IsInteractive() {
		return filemanager.ConflictResolverFunc(func(_ context.Context, c filemanager.Conflict) (filemanager.Decision, error) {
			a.output.Warning("%s differs from the registry version, skipping (use --force to overwrite)", c.Target)
			return filemanager.DecisionSkip, nil
		})
	}
	return ui.ConflictPrompt{}
}

// handleDependencies installs missing third-party packages. Failures only warn.
func (a *App) handleDependencies(ctx context.Context, deps []string, dryRun bool) {
	if len(deps) == 0 {
		return
	}

	missing, err := pkgmanager.Missing(a.projectDir, deps)
	if err != nil {
		if errors.Is(err, pkgmanager.ErrNoPackageJSON) {
			a.output.Warning("package.json not found. Skipping dependency check.")
			return
		}
		a.output.Warning("Dependency check failed: %v", err)
		return
	}
	if len(missing) == 0 {
		a.output.Success("All dependencies are already installed.")
		return
	}

	a.output.Warning("Missing dependencies: %s", strings.Join(missing, ", "))
	manager := pkgmanager.Detect(a.projectDir)
	if dryRun {
		a.output.Info("Would run: %s", strings.Join(manager.InstallArgs(missing...), " "))
		return
	}

	a.output.Info("Installing dependencies with %s...", manager)
	installer := pkgmanager.NewInstaller(a.projectDir)
	installer.Stdout = a.output.Writer()
	if a.runCommand != nil {
		installer.Run = a.runCommand
	}
	if _, err := installer.Install(ctx, missing); err != nil {
		a.output.Warning("Failed to install dependencies: %v", err)
		return
	}
	a.output.Success("Dependencies installed successfully.")
}

func (a *App) printPlan(planned []filemanager.PlannedFile) {
	a.output.Info("Dry run: no files will be written.")
	rows := make([][]string, 0, len(planned))
	for _, p := range planned {
		dest := p.Path
		if rel, ok := relTo(a.projectDir, p.Path); ok {
			dest = rel
		}
		if p.Err != nil {
			dest = p.Err.Error()
		}
		rows = append(rows, []string{p.Component, p.Target, dest, fmt.Sprintf("%d", p.Size), string(p.Action), p.Preview})
	}
	a.output.Table([]string{"COMPONENT", "TARGET", "DESTINATION", "BYTES", "ACTION", "PREVIEW"}, rows)
}

func relTo(base, path string) (string, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// unjoin flattens an errors.Join tree.
func unjoin(err error) []error {
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range u.Unwrap() {
			out = append(out, unjoin(e)...)
		}
		return out
	}
	return []error{err}
}
