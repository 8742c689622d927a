// Package manifest loads and validates the application manifest (tether.yaml).
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the manifest file name looked up in the working directory.
const DefaultFile = "tether.yaml"

// Application is the root of the manifest.
type Application struct {
	Name       string      `yaml:"name"`
	Version    string      `yaml:"version,omitempty"`
	Trigger    Trigger     `yaml:"trigger"`
	Components []Component `yaml:"components"`

	// Dir is the directory the manifest was loaded from. Not serialized;
	// component commands run relative to it.
	Dir string `yaml:"-"`
}

// Trigger selects the protocol backend that drives the application.
type Trigger struct {
	Type string `yaml:"type"`
	// Address overrides the backend's default listen or broker address.
	Address string `yaml:"address,omitempty"`
}

// Component is one executable unit of the application.
type Component struct {
	ID      string   `yaml:"id"`
	Command string   `yaml:"command"`
	Env     []string `yaml:"env,omitempty"`

	// Route is the HTTP route pattern served by this component (http trigger).
	Route string `yaml:"route,omitempty"`
	// Channel is the pub/sub channel this component consumes (redis trigger).
	Channel string `yaml:"channel,omitempty"`

	Build *Build `yaml:"build,omitempty"`
}

// Build describes how to rebuild a component and which sources to watch.
type Build struct {
	Command string   `yaml:"command"`
	Workdir string   `yaml:"workdir,omitempty"`
	Watch   []string `yaml:"watch,omitempty"`
}

// Load reads and validates the manifest at path. An empty path loads
// DefaultFile from the current directory.
func Load(path string) (*Application, error) {
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read application manifest: %w", err)
	}

	var app Application
	if err := yaml.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("failed to parse application manifest %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	app.Dir = filepath.Dir(abs)

	if err := app.Validate(); err != nil {
		return nil, fmt.Errorf("invalid application manifest %s: %w", path, err)
	}
	return &app, nil
}

// Save writes the manifest back to path.
func Save(app *Application, path string) error {
	data, err := yaml.Marshal(app)
	if err != nil {
		return fmt.Errorf("failed to encode application manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write application manifest: %w", err)
	}
	return nil
}

// Validate checks structural invariants: a name, a trigger type, and unique
// component IDs.
func (a *Application) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("application name is required")
	}
	if a.Trigger.Type == "" {
		return fmt.Errorf("trigger type is required")
	}

	ids := make(map[string]struct{}, len(a.Components))
	for _, c := range a.Components {
		if c.ID == "" {
			return fmt.Errorf("component id is required")
		}
		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("duplicate component id %q", c.ID)
		}
		ids[c.ID] = struct{}{}
	}
	return nil
}

// Component returns the component with the given id, if present.
func (a *Application) Component(id string) (Component, bool) {
	for _, c := range a.Components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}
