package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"tether.dev/cli/internal/core/catalog"
)

func resolveFixture(t *testing.T) (*cobra.Command, []catalog.Entry) {
	t.Helper()
	entries := []catalog.Entry{
		{Name: "cloud", About: "Commands for the cloud"},
		{Name: "kube", About: "Kubernetes scaffolding"},
	}
	root := NewRootCommand(Deps{Version: "test"})
	AddPluginCommands(root, entries, Deps{})
	return root, entries
}

func TestResolve_CatalogNameForwards(t *testing.T) {
	root, entries := resolveFixture(t)

	inv := Resolve([]string{"cloud", "deploy", "--help"}, entries, root)
	assert.True(t, inv.Forward)
	assert.Equal(t, []string{"cloud", "deploy", "--help"}, inv.Argv)
}

func TestResolve_CatalogWinsOverSyntheticNode(t *testing.T) {
	// The synthetic "cloud*" node exists in the tree, but the plain name
	// still forwards rather than hitting the node in-process.
	root, entries := resolveFixture(t)

	inv := Resolve([]string{"cloud"}, entries, root)
	assert.True(t, inv.Forward)
}

func TestResolve_BuiltinRunsInProcess(t *testing.T) {
	root, entries := resolveFixture(t)

	for _, name := range []string{"up", "build", "templates", "help"} {
		inv := Resolve([]string{name}, entries, root)
		assert.False(t, inv.Forward, name)
	}
}

func TestResolve_BuiltinAliasRunsInProcess(t *testing.T) {
	root, entries := resolveFixture(t)

	inv := Resolve([]string{"oci", "push"}, entries, root)
	assert.False(t, inv.Forward)
}

func TestResolve_UnknownNameForwards(t *testing.T) {
	root, entries := resolveFixture(t)

	inv := Resolve([]string{"mystery", "--flag", "value"}, entries, root)
	assert.True(t, inv.Forward)
	assert.Equal(t, []string{"mystery", "--flag", "value"}, inv.Argv)
}

func TestResolve_BareFlagsStayInProcess(t *testing.T) {
	root, entries := resolveFixture(t)

	for _, args := range [][]string{{"--help"}, {"--version"}, {}} {
		inv := Resolve(args, entries, root)
		assert.False(t, inv.Forward)
	}
}

func TestResolve_FlagsBeforeSubcommand(t *testing.T) {
	root, entries := resolveFixture(t)

	inv := Resolve([]string{"-v", "cloud"}, entries, root)
	assert.True(t, inv.Forward)
}

func TestResolve_DoubleDashStopsScan(t *testing.T) {
	root, entries := resolveFixture(t)

	inv := Resolve([]string{"--", "cloud"}, entries, root)
	assert.False(t, inv.Forward)
}

func TestFirstPositional(t *testing.T) {
	assert.Equal(t, "up", firstPositional([]string{"up", "-f", "x.yaml"}, nil))
	assert.Equal(t, "up", firstPositional([]string{"--verbose", "up"}, nil))
	assert.Equal(t, "", firstPositional([]string{"--verbose"}, nil))
	assert.Equal(t, "", firstPositional(nil, nil))
}

func TestResolve_ValueTakingRootFlag(t *testing.T) {
	root, entries := resolveFixture(t)
	root.PersistentFlags().String("log-file", "", "")
	root.PersistentFlags().StringP("workdir", "w", "", "")
	root.PersistentFlags().Bool("quiet", false, "")

	// The flag value must not be mistaken for the subcommand name, even when
	// it collides with a catalog entry.
	inv := Resolve([]string{"--log-file", "cloud", "up"}, entries, root)
	assert.False(t, inv.Forward)

	inv = Resolve([]string{"-w", "cloud", "up"}, entries, root)
	assert.False(t, inv.Forward)

	// Inline values and boolean flags consume nothing.
	inv = Resolve([]string{"--log-file=out.log", "cloud"}, entries, root)
	assert.True(t, inv.Forward)

	inv = Resolve([]string{"--quiet", "cloud"}, entries, root)
	assert.True(t, inv.Forward)
}
