// Package trigger defines the capability interface for protocol backends and
// the generic command that drives them.
//
// Each backend is selected at compile time: one concrete cobra command is
// instantiated per backend type, and the backend's declared flag schema
// becomes that command's flag set.
package trigger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tether.dev/cli/internal/core/manifest"
)

// State tracks an executor through one invocation.
type State int

const (
	StateConfigured State = iota
	StateRunning
	StateCompleted
	StateAborted
)

// String implements fmt.Stringer for log fields.
func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Backend is the capability a trigger protocol implementation provides.
type Backend interface {
	// Type is the trigger type name as it appears in manifests and on the
	// command line.
	Type() string
	// Flags declares the backend's configuration schema on the command's
	// flag set.
	Flags(fs *pflag.FlagSet)
	// Run drives the execution loop until ctx is cancelled or the
	// application stops on its own. Cancellation handling is the backend's
	// responsibility.
	Run(ctx context.Context, app *manifest.Application) error
}

// Executor runs one backend against one loaded application.
type Executor[B Backend] struct {
	backend B
	state   State
}

// NewExecutor creates an executor in the Configured state.
func NewExecutor[B Backend](backend B) *Executor[B] {
	return &Executor[B]{backend: backend, state: StateConfigured}
}

// State returns the executor's current state.
func (e *Executor[B]) State() State {
	return e.state
}

// Execute transitions Configured -> Running and then to Completed or Aborted.
// Terminal states are final; a second call is an error.
func (e *Executor[B]) Execute(ctx context.Context, app *manifest.Application) error {
	if e.state != StateConfigured {
		return fmt.Errorf("trigger executor already %s", e.state)
	}

	e.state = StateRunning
	zerolog.Ctx(ctx).Info().
		Str("trigger", e.backend.Type()).
		Str("app", app.Name).
		Msg("starting trigger execution loop")

	if err := e.backend.Run(ctx, app); err != nil {
		e.state = StateAborted
		return fmt.Errorf("%s trigger failed: %w", e.backend.Type(), err)
	}
	e.state = StateCompleted
	return nil
}

// NewCommand builds the cobra command for one backend instantiation. The
// command loads the application manifest, verifies it targets this backend,
// and hands control to the executor.
func NewCommand[B Backend](backend B) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   backend.Type(),
		Short: fmt.Sprintf("Run the %s trigger", backend.Type()),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := manifest.Load(file)
			if err != nil {
				return err
			}
			if app.Trigger.Type != backend.Type() {
				return fmt.Errorf("application %q declares trigger type %q, not %q",
					app.Name, app.Trigger.Type, backend.Type())
			}
			return NewExecutor(backend).Execute(cmd.Context(), app)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", manifest.DefaultFile, "Path to the application manifest")
	backend.Flags(cmd.Flags())
	return cmd
}
