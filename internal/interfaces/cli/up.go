package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tether.dev/cli/internal/core/manifest"
	"tether.dev/cli/internal/trigger"
	"tether.dev/cli/internal/trigger/httptrigger"
	"tether.dev/cli/internal/trigger/redistrigger"
)

func newUpCommand() *cobra.Command {
	var file string
	var listen string
	var build bool

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Run the application locally",
		Long: `Up loads the application manifest, selects the trigger backend it declares,
and runs the application until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := manifest.Load(file)
			if err != nil {
				return err
			}
			if build {
				if err := buildComponents(cmd.Context(), app, nil); err != nil {
					return err
				}
			}
			return runApp(cmd.Context(), app, listen)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", manifest.DefaultFile, "Path to the application manifest")
	cmd.Flags().StringVar(&listen, "listen", "", "Override the trigger's listen or broker address")
	cmd.Flags().BoolVar(&build, "build", false, "Build components before starting")
	return cmd
}

// runApp selects the backend for the manifest's trigger type and drives it
// through a fresh executor.
func runApp(ctx context.Context, app *manifest.Application, address string) error {
	backend, err := backendFor(app.Trigger.Type, address)
	if err != nil {
		return err
	}
	return trigger.NewExecutor(backend).Execute(ctx, app)
}

// backendFor maps a manifest trigger type to a concrete backend. The
// help-args-only type is deliberately absent: it cannot run applications.
func backendFor(triggerType, address string) (trigger.Backend, error) {
	switch triggerType {
	case httptrigger.Type:
		return &httptrigger.Trigger{Address: address}, nil
	case redistrigger.Type:
		return &redistrigger.Trigger{Address: address}, nil
	default:
		return nil, fmt.Errorf("unsupported trigger type %q (a trigger-%s plugin may provide it)", triggerType, triggerType)
	}
}
