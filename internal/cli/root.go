package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lyb-ai/dev-toolkit/internal/config"
	"github.com/lyb-ai/dev-toolkit/internal/exitcodes"
	"github.com/lyb-ai/dev-toolkit/internal/fetcher"
	"github.com/lyb-ai/dev-toolkit/internal/pkgmanager"
	"github.com/lyb-ai/dev-toolkit/internal/registry"
	"github.com/lyb-ai/dev-toolkit/internal/ui"
)

// App is the dependency container for all CLI commands.
type App struct {
	rootCmd     *cobra.Command
	version     string
	commit      string
	date        string
	config      *config.Config
	configErr   error
	migrated    bool
	output      *ui.Output
	projectDir  string
	registryURL string
	debug       bool

	// overridable in tests
	retries    int
	retryDelay time.Duration
	runCommand pkgmanager.CommandRunner
}

// NewApp creates the root command and registers all subcommands.
func NewApp(version, commit, date string) *App {
	app := &App{
		version:    version,
		commit:     commit,
		date:       date,
		output:     ui.NewOutput(),
		retries:    registry.DefaultRetries,
		retryDelay: registry.DefaultRetryDelay,
	}

	root := &cobra.Command{
		Use:   "dev-toolkit",
		Short: "Scaffold hooks and utils from a component registry",
		Long:  "Copies hooks and utils, with their internal dependencies, from a component registry into your project.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if envURL := os.Getenv("DEV_TOOLKIT_REGISTRY"); envURL != "" && app.registryURL == "" {
				app.registryURL = envURL
			}
			if os.Getenv("DEV_TOOLKIT_DEBUG") != "" {
				app.debug = true
			}
			if os.Getenv("DEV_TOOLKIT_NO_COLOR") != "" || os.Getenv("NO_COLOR") != "" {
				app.output.SetNoColor(true)
			}
			app.output.SetDebug(app.debug)

			// Eagerly load config; commands that need it call RequireProject
			app.configErr = app.LoadProjectConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.registryURL, "registry", "", "registry URL (overrides DEV_TOOLKIT_REGISTRY and registryUrl)")
	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&app.projectDir, "dir", ".", "project directory")

	root.AddCommand(
		app.newInitCmd(),
		app.newAddCmd(),
		app.newListCmd(),
		app.newSearchCmd(),
		app.newOutdatedCmd(),
		app.newVerifyCmd(),
		app.newDoctorCmd(),
		app.newVersionCmd(),
	)

	app.rootCmd = root
	return app
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.rootCmd.ExecuteContext(ctx)
}

// LoadProjectConfig loads codegen.config.yml, falling back to migrating the legacy JSON config.
// Returns nil error if no config is found.
func (a *App) LoadProjectConfig() error {
	a.config = nil
	a.migrated = false

	if config.ConfigExists(a.projectDir) {
		c, err := config.LoadConfig(a.projectDir)
		if err != nil {
			return err
		}
		a.config = c
		return nil
	}

	if config.LegacyConfigExists(a.projectDir) {
		c, err := config.MigrateFromLegacyJSON(a.projectDir)
		if err != nil {
			return err
		}
		a.config = c
		a.migrated = true
		a.output.Debug("migrated %s", config.LegacyConfigFile)
		return nil
	}

	return nil
}

// RequireProject returns an error if the config doesn't exist or is invalid.
func (a *App) RequireProject() error {
	if a.configErr != nil {
		return &ExitError{Code: exitcodes.ConfigError, Message: a.configErr.Error()}
	}
	if a.config == nil {
		return &ExitError{
			Code:    exitcodes.ConfigError,
			Message: "no " + config.ConfigFile + " found: run 'dev-toolkit init' first",
		}
	}
	return nil
}

// saveConfig persists the config and drops the legacy file once it has been migrated.
func (a *App) saveConfig() error {
	if err := config.SaveConfig(a.projectDir, a.config); err != nil {
		return err
	}
	a.output.Success("Updated %s", config.ConfigFile)
	if a.migrated {
		if err := config.RemoveLegacyConfig(a.projectDir); err != nil {
			a.output.Warning("Could not remove %s: %v", config.LegacyConfigFile, err)
		}
		a.migrated = false
	}
	return nil
}

// getRegistryURL returns the effective registry URL.
func (a *App) getRegistryURL() string {
	base := a.registryURL
	if base == "" && a.config != nil {
		base = a.config.RegistryURL
	}
	if base == "" {
		base = config.DefaultRegistryURL
	}
	return strings.TrimRight(base, "/")
}

// newRegistryClient creates a registry client with the current settings.
func (a *App) newRegistryClient() *registry.Client {
	return registry.NewClient(
		registry.WithBaseURL(a.getRegistryURL()),
		registry.WithRetries(a.retries, a.retryDelay),
		registry.WithLogger(a.output),
	)
}

// loadIndex fetches the registry index. When the registry is unreachable or
// serves an invalid document, the built-in index and sources are used instead.
func (a *App) loadIndex(ctx context.Context) (*registry.Index, fetcher.Source, error) {
	client := a.newRegistryClient()
	a.output.Debug("registry: %s", client.BaseURL())

	idx, err := client.FetchIndex(ctx)
	if err == nil {
		return idx, client, nil
	}
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}

	if registry.IsValidationError(err) {
		a.output.Warning("Remote registry is invalid (%v). Using the built-in component index.", err)
	} else {
		a.output.Warning("Failed to fetch registry (%v). Using the built-in component index.", err)
	}
	fallback, fbErr := registry.FallbackIndex()
	if fbErr != nil {
		return nil, nil, &ExitError{Code: exitcodes.NetworkError, Message: err.Error()}
	}
	return fallback, registry.NewEmbeddedSource(), nil
}

func (a *App) newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			a.output.Info("dev-toolkit %s (commit: %s, built: %s)", a.version, a.commit, a.date)
			if check {
				a.checkLatest()
			}
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}
