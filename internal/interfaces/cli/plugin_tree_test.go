package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether.dev/cli/internal/core/catalog"
)

func TestAddPluginCommands_SyntheticLeaves(t *testing.T) {
	root := NewRootCommand(Deps{Version: "test"})
	entries := []catalog.Entry{
		{Name: "cloud", About: "Commands for the cloud"},
		{Name: "kube", About: "Kubernetes scaffolding"},
	}
	AddPluginCommands(root, entries, Deps{})

	var cloud *cobra.Command
	for _, c := range root.Commands() {
		if c.Use == "cloud*" {
			cloud = c
		}
	}
	require.NotNil(t, cloud, "synthetic leaf should be added with the marker suffix")
	assert.Equal(t, "Commands for the cloud", cloud.Short)
	assert.True(t, cloud.DisableFlagParsing,
		"plugin flags must pass through untouched")
}

func TestAddPluginCommands_FooterOnlyWithEntries(t *testing.T) {
	root := NewRootCommand(Deps{Version: "test"})
	AddPluginCommands(root, nil, Deps{})
	assert.NotContains(t, root.UsageString(), pluginFooter)

	root = NewRootCommand(Deps{Version: "test"})
	AddPluginCommands(root, []catalog.Entry{{Name: "cloud"}}, Deps{})
	assert.Contains(t, root.UsageString(), pluginFooter)
}

func TestNewRootCommand_VersionTemplate(t *testing.T) {
	root := NewRootCommand(Deps{Version: "0.1.0 (abc123 2026-01-01)"})
	assert.Equal(t, "0.1.0 (abc123 2026-01-01)", root.Version)
}

func TestNewRootCommand_TriggerSubtreeHidden(t *testing.T) {
	root := NewRootCommand(Deps{Version: "test"})

	trigger, _, err := root.Find([]string{"trigger"})
	require.NoError(t, err)
	assert.True(t, trigger.Hidden)

	for _, name := range []string{"http", "redis"} {
		sub, _, err := root.Find([]string{"trigger", name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	helpOnly, _, err := root.Find([]string{"trigger", "help-args-only"})
	require.NoError(t, err)
	assert.True(t, helpOnly.Hidden)
}
