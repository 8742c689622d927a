// Package helponly provides an inert trigger backend. It exists so that
// `tether trigger` help output can render the shared trigger flag surface
// without constructing a live protocol backend.
package helponly

import (
	"context"
	"errors"

	"github.com/spf13/pflag"

	"tether.dev/cli/internal/core/manifest"
)

// Type is the hidden command name of the help-only instantiation.
const Type = "help-args-only"

// Trigger is the inert backend. Running it is always an error.
type Trigger struct{}

// Type implements trigger.Backend.
func (Trigger) Type() string { return Type }

// Flags declares the flag surface shared by all trigger backends.
func (Trigger) Flags(fs *pflag.FlagSet) {
	fs.StringArray("env", nil, "Environment variables to set for components, in KEY=VALUE form")
	fs.String("log-dir", "", "Directory for component log files")
}

// Run rejects execution; this backend only renders help.
func (Trigger) Run(context.Context, *manifest.Application) error {
	return errors.New("the help-args-only trigger cannot run applications; it exists only to render help text")
}
