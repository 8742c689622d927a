package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tether.dev/cli/internal/core/manifest"
	"tether.dev/cli/internal/infrastructure/config"
	"tether.dev/cli/internal/infrastructure/registry"
)

// newDeployCommand is a cross-level shortcut for publishing to Tether Cloud.
// The heavy lifting (environments, routing, secrets) lives in the cloud
// plugin; this built-in covers the plain push-and-go path.
func newDeployCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Package and deploy the application to Tether Cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.APIToken == "" {
				return fmt.Errorf("not logged in: run \"tether login\" first")
			}

			app, err := manifest.Load(file)
			if err != nil {
				return err
			}

			pkg, err := yaml.Marshal(app)
			if err != nil {
				return fmt.Errorf("failed to package application: %w", err)
			}

			version := app.Version
			if version == "" {
				version = "0.0.0+" + uuid.NewString()[:8]
			}

			client := registry.NewClient(cfg.RegistryURL, cfg.APIToken)
			ref, err := client.Push(cmd.Context(), app.Name, version, pkg)
			if err != nil {
				return fmt.Errorf("deployment failed: %w", err)
			}

			fmt.Printf("Deployed %s\n", ref)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", manifest.DefaultFile, "Path to the application manifest")
	return cmd
}

// newLoginCommand stores a Tether Cloud API token in the tool config.
func newLoginCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to Tether Cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if token == "" {
				fmt.Printf("API token (from %s/account/tokens): ", cfg.CloudURL)
				scanner := bufio.NewScanner(os.Stdin)
				scanner.Scan()
				token = strings.TrimSpace(scanner.Text())
			}
			if token == "" {
				return fmt.Errorf("an API token is required")
			}

			cfg.APIToken = token
			if err := config.Save(cfg); err != nil {
				return err
			}

			fmt.Println("Login successful.")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API token (prompted for when omitted)")
	return cmd
}
