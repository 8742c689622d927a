package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tether.dev/cli/internal/core/catalog"
)

// Invocation is the outcome of resolving raw arguments against the merged
// tree: either run in-process or forward the original argv to an external
// plugin executable.
type Invocation struct {
	Forward bool
	// Argv is the original argument vector minus the program name,
	// preserved byte for byte for forwarding.
	Argv []string
}

// Resolve decides the dispatch path for one invocation. Catalog names always
// forward, even though a synthetic tree node with the same display name
// exists; declared built-ins run in-process; anything else is an unknown
// external subcommand and forwards as well, so plugins absent from the
// catalog can still run.
func Resolve(args []string, entries []catalog.Entry, root *cobra.Command) Invocation {
	name := firstPositional(args, root)
	if name == "" {
		// Bare flags (--help, --version) or nothing: cobra handles it.
		return Invocation{Forward: false, Argv: args}
	}

	// Catalog wins a textual tie with a built-in. In practice built-in
	// names never appear in the catalog.
	if catalog.Contains(entries, name) {
		return Invocation{Forward: true, Argv: args}
	}

	if isBuiltin(root, name) {
		return Invocation{Forward: false, Argv: args}
	}
	return Invocation{Forward: true, Argv: args}
}

// isBuiltin reports whether name names a declared subcommand (or alias) of
// the tree, or one of cobra's implicit commands.
func isBuiltin(root *cobra.Command, name string) bool {
	if name == "help" || strings.HasPrefix(name, "__") {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// firstPositional returns the first token that does not look like a flag.
func firstPositional(args []string, root *cobra.Command) string {
	if i := positionalIndex(args, root); i >= 0 {
		return args[i]
	}
	return ""
}

// positionalIndex returns the index of the first token that is neither a flag
// nor the value of a value-taking root flag, or -1 when every token is a flag
// or a "--" terminator comes first.
func positionalIndex(args []string, root *cobra.Command) int {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return -1
		}
		if !strings.HasPrefix(a, "-") {
			return i
		}
		if rootFlagTakesValue(root, a) {
			i++
		}
	}
	return -1
}

// rootFlagTakesValue reports whether token names a declared root flag that
// consumes the following token as its value. Flags spelled --name=value carry
// their value inline and never consume the next token.
func rootFlagTakesValue(root *cobra.Command, token string) bool {
	if root == nil || strings.Contains(token, "=") {
		return false
	}

	var f *pflag.Flag
	switch {
	case strings.HasPrefix(token, "--"):
		name := strings.TrimPrefix(token, "--")
		f = root.Flags().Lookup(name)
		if f == nil {
			f = root.PersistentFlags().Lookup(name)
		}
	case len(token) == 2:
		shorthand := strings.TrimPrefix(token, "-")
		f = root.Flags().ShorthandLookup(shorthand)
		if f == nil {
			f = root.PersistentFlags().ShorthandLookup(shorthand)
		}
	}
	return f != nil && f.Value.Type() != "bool"
}
