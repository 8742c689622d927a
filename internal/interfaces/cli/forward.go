package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tether.dev/cli/internal/plugins"
)

// ExitCodeError propagates a forwarded child process's exit code as the
// tool's own exit code, without printing an error chain.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Forward executes the external plugin named by the first positional token of
// argv, passing every other token through unmodified. argv is the original
// process argument vector minus the program name; only the plugin's own name
// is removed before the child is spawned. The command tree is used only to
// render usage when the executable cannot be located.
func Forward(ctx context.Context, argv []string, root *cobra.Command, store *plugins.Store) error {
	idx := positionalIndex(argv, root)
	if idx < 0 {
		return errors.New("no external subcommand given")
	}

	name := strings.TrimSuffix(argv[idx], pluginMarker)
	path, err := resolveBinary(store, name)
	if err != nil {
		fmt.Fprintln(os.Stderr, root.UsageString())
		return fmt.Errorf("unknown command %q: %w", name, err)
	}

	zerolog.Ctx(ctx).Debug().Str("plugin", name).Str("binary", path).Msg("forwarding to plugin")

	rest := make([]string, 0, len(argv)-1)
	rest = append(rest, argv[:idx]...)
	rest = append(rest, argv[idx+1:]...)

	cmd := exec.CommandContext(ctx, path, rest...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitCodeError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run plugin %q: %w", name, err)
	}
	return nil
}

// resolveBinary locates the plugin executable: the store first, then
// tether-plugin-<name> on PATH. The PATH fallback lets plugins installed
// outside the store (or after the catalog was assembled) still run.
func resolveBinary(store *plugins.Store, name string) (string, error) {
	if store != nil {
		if path, err := store.BinaryPath(name); err == nil {
			return path, nil
		}
	}

	path, err := exec.LookPath(plugins.BinaryPrefix + name)
	if err != nil {
		return "", fmt.Errorf("no plugin executable found for %q (try \"tether plugins list\")", name)
	}
	return path, nil
}
