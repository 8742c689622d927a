// Package templates holds the compiled-in application templates used by
// `tether new` and `tether add`.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Template scaffolds a new application directory. File contents may refer to
// the application name as {{name}}.
type Template struct {
	ID          string
	Description string
	Trigger     string
	Files       map[string]string
}

// Table returns the available templates in display order.
func Table() []Template {
	return []Template{
		{
			ID:          "http-empty",
			Description: "Minimal HTTP application with no components",
			Trigger:     "http",
			Files: map[string]string{
				"tether.yaml": "name: {{name}}\nversion: 0.1.0\ntrigger:\n  type: http\ncomponents: []\n",
			},
		},
		{
			ID:          "http-shell",
			Description: "HTTP application with a shell component",
			Trigger:     "http",
			Files: map[string]string{
				"tether.yaml": "name: {{name}}\nversion: 0.1.0\ntrigger:\n  type: http\ncomponents:\n" +
					"  - id: api\n    command: ./handlers/api.sh\n    route: /api/...\n",
				"handlers/api.sh": "#!/bin/sh\n# Request body arrives on stdin; stdout becomes the response.\ncat\n",
			},
		},
		{
			ID:          "redis-shell",
			Description: "Redis pub/sub application with a shell component",
			Trigger:     "redis",
			Files: map[string]string{
				"tether.yaml": "name: {{name}}\nversion: 0.1.0\ntrigger:\n  type: redis\ncomponents:\n" +
					"  - id: consume\n    command: ./handlers/consume.sh\n    channel: {{name}}.events\n",
				"handlers/consume.sh": "#!/bin/sh\n# Message payload arrives on stdin.\ncat >> events.log\n",
			},
		},
	}
}

// Lookup returns the template with the given id.
func Lookup(id string) (Template, bool) {
	for _, t := range Table() {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Render writes the template's files into dir, substituting the application
// name. Shell files are made executable.
func (t Template) Render(dir, name string) error {
	for rel, content := range t.Files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}

		mode := os.FileMode(0644)
		if strings.HasSuffix(rel, ".sh") {
			mode = 0755
		}

		rendered := strings.ReplaceAll(content, "{{name}}", name)
		if err := os.WriteFile(path, []byte(rendered), mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}
	return nil
}
