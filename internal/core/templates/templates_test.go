package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tether.dev/cli/internal/core/manifest"
)

func TestLookup(t *testing.T) {
	tmpl, ok := Lookup("http-shell")
	require.True(t, ok)
	assert.Equal(t, "http", tmpl.Trigger)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestRender_ProducesLoadableManifest(t *testing.T) {
	for _, tmpl := range Table() {
		t.Run(tmpl.ID, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, tmpl.Render(dir, "myapp"))

			app, err := manifest.Load(filepath.Join(dir, manifest.DefaultFile))
			require.NoError(t, err)
			assert.Equal(t, "myapp", app.Name)
			assert.Equal(t, tmpl.Trigger, app.Trigger.Type)
		})
	}
}

func TestRender_ShellFilesAreExecutable(t *testing.T) {
	dir := t.TempDir()
	tmpl, ok := Lookup("http-shell")
	require.True(t, ok)
	require.NoError(t, tmpl.Render(dir, "myapp"))

	info, err := os.Stat(filepath.Join(dir, "handlers", "api.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111)
}
