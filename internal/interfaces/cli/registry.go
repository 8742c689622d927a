package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tether.dev/cli/internal/core/manifest"
	"tether.dev/cli/internal/infrastructure/config"
	"tether.dev/cli/internal/infrastructure/registry"
)

func newRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registry",
		Aliases: []string{"oci"},
		Short:   "Push and pull application packages",
	}

	cmd.AddCommand(newRegistryPushCommand())
	cmd.AddCommand(newRegistryPullCommand())
	return cmd
}

func newRegistryPushCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push the application package to the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			app, err := manifest.Load(file)
			if err != nil {
				return err
			}
			if app.Version == "" {
				return fmt.Errorf("application version is required for push")
			}

			pkg, err := yaml.Marshal(app)
			if err != nil {
				return fmt.Errorf("failed to package application: %w", err)
			}

			client := registry.NewClient(cfg.RegistryURL, cfg.APIToken)
			ref, err := client.Push(cmd.Context(), app.Name, app.Version, pkg)
			if err != nil {
				return err
			}

			fmt.Printf("Pushed %s\n", ref)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", manifest.DefaultFile, "Path to the application manifest")
	return cmd
}

func newRegistryPullCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "pull <name:version>",
		Short: "Pull an application package from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client := registry.NewClient(cfg.RegistryURL, cfg.APIToken)
			pkg, err := client.Pull(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if out == "" {
				out = manifest.DefaultFile
			}
			if err := os.WriteFile(out, pkg, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			fmt.Printf("Pulled %s to %s\n", args[0], out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "Destination file (default: "+manifest.DefaultFile+")")
	return cmd
}
