package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tether.dev/cli/internal/plugins"
)

func newPluginsCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plugins",
		Aliases: []string{"plugin"},
		Short:   "Inspect installed plugins",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the installed plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Store == nil {
				fmt.Println("No plugins installed.")
				return nil
			}

			manifests, err := deps.Store.InstalledManifests()
			if err != nil {
				return fmt.Errorf("failed to read plugin store: %w", err)
			}
			if len(manifests) == 0 {
				fmt.Println("No plugins installed.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tDESCRIPTION")
			for _, m := range manifests {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Version, m.Description)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "which <name>",
		Short: "Print the path of a plugin's executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveBinary(deps.Store, args[0])
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})

	cmd.AddCommand(newPluginsDirCommand())

	return cmd
}

func newPluginsDirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Print the plugin store directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := plugins.DefaultDir()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
