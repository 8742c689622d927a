package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tether.dev/cli/internal/core/manifest"
	"tether.dev/cli/internal/infrastructure/config"
)

var (
	doctorPass = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("PASS")
	doctorWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("WARN")
	doctorFail = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("FAIL")
)

type doctorCheck struct {
	name string
	run  func(deps Deps) (status string, detail string)
}

func newDoctorCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common problems with the local setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, check := range doctorChecks() {
				status, detail := check.run(deps)
				if status == doctorFail {
					failed = true
				}
				fmt.Printf("%s  %s", status, check.name)
				if detail != "" {
					fmt.Printf(" (%s)", detail)
				}
				fmt.Println()
			}
			if failed {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}

func doctorChecks() []doctorCheck {
	return []doctorCheck{
		{
			name: "application manifest",
			run: func(Deps) (string, string) {
				if _, err := os.Stat(manifest.DefaultFile); err != nil {
					return doctorWarn, "no " + manifest.DefaultFile + " in the current directory"
				}
				if _, err := manifest.Load(manifest.DefaultFile); err != nil {
					return doctorFail, err.Error()
				}
				return doctorPass, ""
			},
		},
		{
			name: "plugin store",
			run: func(deps Deps) (string, string) {
				if deps.Store == nil {
					return doctorWarn, "plugin store not available"
				}
				manifests, err := deps.Store.InstalledManifests()
				if err != nil {
					return doctorFail, err.Error()
				}
				return doctorPass, fmt.Sprintf("%d plugin(s) installed", len(manifests))
			},
		},
		{
			name: "shell",
			run: func(Deps) (string, string) {
				if _, err := exec.LookPath("sh"); err != nil {
					return doctorFail, "sh not found on PATH; components cannot run"
				}
				return doctorPass, ""
			},
		},
		{
			name: "cloud credentials",
			run: func(Deps) (string, string) {
				cfg, err := config.Load()
				if err != nil {
					return doctorFail, err.Error()
				}
				if cfg.APIToken == "" {
					return doctorWarn, `not logged in; run "tether login" to deploy`
				}
				return doctorPass, ""
			},
		},
	}
}
