package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tether.dev/cli/internal/core/manifest"
)

func newBuildCommand() *cobra.Command {
	var file string
	var components []string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the application's components",
		Long: `Build runs each component's build command as declared in the application
manifest. Components without a build section are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := manifest.Load(file)
			if err != nil {
				return err
			}
			return buildComponents(cmd.Context(), app, components)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", manifest.DefaultFile, "Path to the application manifest")
	cmd.Flags().StringSliceVarP(&components, "component", "c", nil, "Component IDs to build (default: all)")
	return cmd
}

// buildComponents runs the build command of each selected component in
// manifest order, stopping at the first failure.
func buildComponents(ctx context.Context, app *manifest.Application, only []string) error {
	logger := zerolog.Ctx(ctx)

	selected := make(map[string]bool, len(only))
	for _, id := range only {
		if _, ok := app.Component(id); !ok {
			return fmt.Errorf("unknown component %q", id)
		}
		selected[id] = true
	}

	built := 0
	for _, comp := range app.Components {
		if len(selected) > 0 && !selected[comp.ID] {
			continue
		}
		if comp.Build == nil || comp.Build.Command == "" {
			logger.Debug().Str("component", comp.ID).Msg("no build command, skipping")
			continue
		}

		workdir := app.Dir
		if comp.Build.Workdir != "" {
			workdir = filepath.Join(app.Dir, comp.Build.Workdir)
		}

		logger.Info().Str("component", comp.ID).Str("command", comp.Build.Command).Msg("building component")
		fmt.Printf("Building component %s: %s\n", comp.ID, comp.Build.Command)

		c := exec.CommandContext(ctx, "/bin/sh", "-c", comp.Build.Command)
		c.Dir = workdir
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("failed to build component %q: %w", comp.ID, err)
		}
		built++
	}

	fmt.Printf("Successfully built %d component(s)\n", built)
	return nil
}
