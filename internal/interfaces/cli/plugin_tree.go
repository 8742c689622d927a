package cli

import (
	"os"

	"github.com/spf13/cobra"

	"tether.dev/cli/internal/core/catalog"
)

// pluginMarker is appended to a synthetic node's displayed name to flag it as
// plugin-provided.
const pluginMarker = "*"

// pluginFooter is appended to the usage output when any plugin entries exist.
const pluginFooter = "* implemented via plugin"

// AddPluginCommands merges one synthetic leaf per catalog entry into the
// tree. The leaves exist to make help output complete; invocation of a
// catalog name is always resolved to forwarding, never to these nodes'
// in-process execution (their RunE forwards too, covering a literal
// "name*" invocation).
func AddPluginCommands(root *cobra.Command, entries []catalog.Entry, deps Deps) {
	for _, entry := range entries {
		sub := &cobra.Command{
			Use:   entry.Name + pluginMarker,
			Short: entry.About,
			// Hyphen-prefixed values and --help belong to the plugin, not
			// to this tool's parser.
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return Forward(cmd.Context(), os.Args[1:], cmd.Root(), deps.Store)
			},
		}
		root.AddCommand(sub)
	}

	if len(entries) > 0 {
		root.SetUsageTemplate(root.UsageTemplate() + "\n" + pluginFooter + "\n")
	}
}
