package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FullManifest(t *testing.T) {
	path := writeManifest(t, `
name: orders
version: 0.2.0
trigger:
  type: redis
  address: redis://localhost:6379
components:
  - id: ingest
    command: ./handlers/ingest.sh
    channel: orders.created
    build:
      command: make ingest
      watch:
        - "src/**/*.go"
`)

	app, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "orders", app.Name)
	assert.Equal(t, "redis", app.Trigger.Type)
	assert.Equal(t, filepath.Dir(path), app.Dir)

	require.Len(t, app.Components, 1)
	comp := app.Components[0]
	assert.Equal(t, "ingest", comp.ID)
	assert.Equal(t, "orders.created", comp.Channel)
	require.NotNil(t, comp.Build)
	assert.Equal(t, []string{"src/**/*.go"}, comp.Build.Watch)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		app     Application
		wantErr string
	}{
		{
			name:    "missing name",
			app:     Application{Trigger: Trigger{Type: "http"}},
			wantErr: "application name is required",
		},
		{
			name:    "missing trigger type",
			app:     Application{Name: "a"},
			wantErr: "trigger type is required",
		},
		{
			name: "duplicate component id",
			app: Application{
				Name:    "a",
				Trigger: Trigger{Type: "http"},
				Components: []Component{
					{ID: "api", Command: "./a"},
					{ID: "api", Command: "./b"},
				},
			},
			wantErr: `duplicate component id "api"`,
		},
		{
			name: "valid",
			app: Application{
				Name:       "a",
				Trigger:    Trigger{Type: "http"},
				Components: []Component{{ID: "api", Command: "./a"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.app.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	app := &Application{
		Name:    "demo",
		Trigger: Trigger{Type: "http"},
		Components: []Component{
			{ID: "api", Command: "./api.sh", Route: "/api/..."},
		},
	}
	path := filepath.Join(t.TempDir(), DefaultFile)

	require.NoError(t, Save(app, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, app.Name, loaded.Name)
	assert.Equal(t, app.Components, loaded.Components)
}
