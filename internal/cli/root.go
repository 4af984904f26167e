package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// configPath is the --config value, consumed by loadConfig.
var configPath string

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with values
// injected via ldflags at build time.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2026-08-24T14:32:01Z")
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the sam CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (serve, seed,
// the graph query commands, export, browse), configures logging based on
// the --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via loggerFromContext.
//
// Example:
//
//	func main() {
//	    cli.SetVersion("v1.0.0", "abc123", "2026-08-24")
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI under ctx, so a cancelled context (e.g.,
// SIGINT via signal.NotifyContext) stops long-running commands like serve.
func ExecuteContext(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "sam",
		Short:        "SAM maps applications and their dependencies",
		Long:         `SAM (System Application Mapper) catalogs applications, their dependencies, routes, and deployments, and answers graph questions about them: dependency trees, shortest paths, circular chains, and critical links.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("sam %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a sam.toml config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newPathCmd())
	root.AddCommand(newCyclesCmd())
	root.AddCommand(newCriticalCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newBrowseCmd())
	root.AddCommand(newCompletionCmd())
	root.AddCommand(newVersionCmd())

	return root.ExecuteContext(ctx)
}
