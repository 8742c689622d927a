// Package cli builds the tether command tree and routes invocations to
// built-in commands, trigger backends, or external plugin executables.
package cli

import (
	"github.com/spf13/cobra"

	"tether.dev/cli/internal/plugins"
	"tether.dev/cli/internal/trigger"
	"tether.dev/cli/internal/trigger/helponly"
	"tether.dev/cli/internal/trigger/httptrigger"
	"tether.dev/cli/internal/trigger/redistrigger"
)

// Deps carries the values the command tree needs. Built once in main and
// passed by argument; there is no ambient state.
type Deps struct {
	// Version is the full build description shown by --version.
	Version string
	// Store is the opened plugin store, or nil when unavailable.
	Store *plugins.Store
}

// NewRootCommand constructs the static command tree: every built-in
// subcommand plus the hidden trigger subtree. Synthetic plugin leaves are
// merged in afterwards by AddPluginCommands.
func NewRootCommand(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "tether",
		Short: "Tether - build and run event-driven applications",
		Long: `Tether builds, runs, and publishes event-driven applications whose entry
points are served by pluggable trigger backends (HTTP, Redis). The CLI is
extensible through external plugins, which appear as regular subcommands.`,
		Version:       deps.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("tether {{.Version}}\n")

	root.AddCommand(newTemplatesCommand())
	root.AddCommand(newNewCommand())
	root.AddCommand(newAddCommand())
	root.AddCommand(newUpCommand())
	root.AddCommand(newDeployCommand())
	root.AddCommand(newLoginCommand())
	root.AddCommand(newRegistryCommand())
	root.AddCommand(newBuildCommand())
	root.AddCommand(newPluginsCommand(deps))
	root.AddCommand(newTriggerCommand())
	root.AddCommand(newWatchCommand())
	root.AddCommand(newDoctorCommand(deps))

	return root
}

// newTriggerCommand builds the hidden trigger subtree with one concrete
// instantiation of the generic executor command per backend.
func newTriggerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "trigger",
		Short:  "Run a trigger backend directly",
		Hidden: true,
	}

	cmd.AddCommand(trigger.NewCommand(&httptrigger.Trigger{}))
	cmd.AddCommand(trigger.NewCommand(&redistrigger.Trigger{}))

	helpOnly := trigger.NewCommand(helponly.Trigger{})
	helpOnly.Hidden = true
	cmd.AddCommand(helpOnly)

	return cmd
}
