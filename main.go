package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"tether.dev/cli/internal/core/catalog"
	"tether.dev/cli/internal/infrastructure/logging"
	"tether.dev/cli/internal/interfaces/cli"
	"tether.dev/cli/internal/plugins"
	"tether.dev/cli/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := plugins.TryOpen()
	if err != nil {
		// A broken plugin store degrades the catalog but never blocks
		// built-in commands.
		reportStoreOpenFailure(zerolog.Ctx(ctx), err)
	}

	var source catalog.Source
	if store != nil {
		source = store
	}
	entries := catalog.Assemble(source)

	deps := cli.Deps{Version: version.BuildInfo(), Store: store}
	root := cli.NewRootCommand(deps)
	cli.AddPluginCommands(root, entries, deps)

	inv := cli.Resolve(os.Args[1:], entries, root)
	if inv.Forward {
		err = cli.Forward(ctx, inv.Argv, root, store)
	} else {
		root.SetArgs(inv.Argv)
		err = root.ExecuteContext(ctx)
	}
	if err == nil {
		return 0
	}

	var exitErr *cli.ExitCodeError
	if errors.As(err, &exitErr) {
		// The forwarded plugin already reported its own error.
		return exitErr.Code
	}

	fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
	printErrorChain(os.Stderr, err)
	return 1
}

// reportStoreOpenFailure logs a plugin store open failure. A store that
// simply does not exist yet is the normal state until the first plugin is
// installed and stays below the default level; anything else is a real I/O
// problem worth a warning.
func reportStoreOpenFailure(logger *zerolog.Logger, err error) {
	ev := logger.Debug()
	if !errors.Is(err, plugins.ErrNoStore) {
		ev = logger.Warn()
	}
	ev.Err(err).Msg("plugin store unavailable")
}

// printErrorChain prints the causes beneath err, mirroring how the top-level
// error was assembled by wrapping. A single cause is indented beneath a
// "Caused by:" header; multiple causes are numbered outermost first.
func printErrorChain(w io.Writer, err error) {
	var causes []error
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		causes = append(causes, cause)
	}
	if len(causes) == 0 {
		return
	}

	fmt.Fprintln(w, "\nCaused by:")
	if len(causes) == 1 {
		fmt.Fprintf(w, "      %v\n", causes[0])
		return
	}
	for i, cause := range causes {
		fmt.Fprintf(w, "%4d: %v\n", i, cause)
	}
}
